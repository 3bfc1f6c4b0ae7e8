package objectstore

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Endpoint:  "localhost:9000",
		AccessKey: "a",
		SecretKey: "b",
		Region:    "us-east-1",
		Bucket:    "datasets",
		LinkTTL:   15 * time.Minute,
	}
}

func TestConfigValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}

	cases := map[string]func(*Config){
		"scheme in endpoint": func(c *Config) { c.Endpoint = "http://localhost:9000" },
		"missing bucket":     func(c *Config) { c.Bucket = "" },
		"zero ttl":           func(c *Config) { c.LinkTTL = 0 },
		"ttl over a week":    func(c *Config) { c.LinkTTL = 8 * 24 * time.Hour },
	}
	for name, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("Validate() expected error for %s", name)
		}
	}
}

func TestPresigner_DownloadURL(t *testing.T) {
	cfg := validConfig()
	client, err := NewMinIOClient(cfg)
	if err != nil {
		t.Fatalf("NewMinIOClient() err=%v", err)
	}
	p, err := NewPresigner(client, cfg)
	if err != nil {
		t.Fatalf("NewPresigner() err=%v", err)
	}

	raw, err := p.DownloadURL(context.Background(), "ds/v1/data.csv", "data.csv")
	if err != nil {
		t.Fatalf("DownloadURL() err=%v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse() err=%v", err)
	}
	if u.Host != "localhost:9000" || !strings.HasSuffix(u.Path, "/datasets/ds/v1/data.csv") {
		t.Fatalf("DownloadURL()=%q, want object path on endpoint", raw)
	}
	if got := u.Query().Get("X-Amz-Expires"); got != "900" {
		t.Fatalf("X-Amz-Expires=%q, want 900", got)
	}
	if _, err := p.DownloadURL(context.Background(), " ", ""); err == nil {
		t.Fatalf("DownloadURL() expected error for empty key")
	}
}
