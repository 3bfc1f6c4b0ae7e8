package objectstore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/animus-labs/animus-views/internal/platform/env"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Bucket    string
	// LinkTTL bounds how long a presigned download link stays valid.
	LinkTTL time.Duration
}

func ConfigFromEnv() (Config, error) {
	useSSL, err := env.Bool("ANIMUS_MINIO_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	linkTTL, err := env.Duration("REGISTRY_DOWNLOAD_URL_TTL", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Endpoint:  env.String("ANIMUS_MINIO_ENDPOINT", "localhost:9000"),
		AccessKey: env.String("ANIMUS_MINIO_ACCESS_KEY", "animus"),
		SecretKey: env.String("ANIMUS_MINIO_SECRET_KEY", "animusminio"),
		Region:    env.String("ANIMUS_MINIO_REGION", "us-east-1"),
		UseSSL:    useSSL,
		Bucket:    env.String("ANIMUS_MINIO_BUCKET_DATASETS", "datasets"),
		LinkTTL:   linkTTL,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("endpoint must not include scheme: %q", c.Endpoint)
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		return errors.New("access key is required")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("secret key is required")
	}
	if strings.TrimSpace(c.Region) == "" {
		return errors.New("region is required")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		return errors.New("datasets bucket is required")
	}
	// S3 rejects presigned URLs valid for more than seven days.
	if c.LinkTTL <= 0 || c.LinkTTL > 7*24*time.Hour {
		return fmt.Errorf("download url ttl must be within (0, 168h]: %s", c.LinkTTL)
	}
	return nil
}
