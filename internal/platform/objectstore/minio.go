package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func NewMinIOClient(cfg Config) (*minio.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(),
	}
	return minio.New(cfg.Endpoint, opts)
}

func CheckBucket(ctx context.Context, client *minio.Client, cfg Config) error {
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("bucket exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket missing: %s", cfg.Bucket)
	}
	return nil
}

// Presigner hands out time-limited download links for stored objects.
type Presigner struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

func NewPresigner(client *minio.Client, cfg Config) (*Presigner, error) {
	if client == nil {
		return nil, errors.New("minio client is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Presigner{client: client, bucket: cfg.Bucket, ttl: cfg.LinkTTL}, nil
}

// DownloadURL presigns a GET for key. The filename, when set, is sent
// back as the attachment name.
func (p *Presigner) DownloadURL(ctx context.Context, key string, filename string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("object key is required")
	}
	params := url.Values{}
	if name := strings.TrimSpace(filename); name != "" {
		params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	u, err := p.client.PresignedGetObject(ctx, p.bucket, key, p.ttl, params)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
