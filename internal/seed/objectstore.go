package seed

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStoreConfig points at a Cypher seed script in an S3-compatible
// bucket. Deployments that ship their own graph data override the embedded
// script this way.
type ObjectStoreConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	Object          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// FetchScript downloads the seed script from the configured object store.
func FetchScript(ctx context.Context, cfg ObjectStoreConfig) (string, error) {
	if cfg.Bucket == "" || cfg.Object == "" {
		return "", fmt.Errorf("seed bucket and object are required")
	}

	endpoint, secure, err := parseEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return "", err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
		Region: strings.TrimSpace(cfg.Region),
	})
	if err != nil {
		return "", fmt.Errorf("create object store client: %w", err)
	}

	obj, err := client.GetObject(ctx, cfg.Bucket, cfg.Object, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("get seed object %q: %w", cfg.Object, err)
	}
	defer func() { _ = obj.Close() }()

	script, err := io.ReadAll(obj)
	if err != nil {
		return "", fmt.Errorf("read seed object %q: %w", cfg.Object, err)
	}
	if strings.TrimSpace(string(script)) == "" {
		return "", fmt.Errorf("seed object %q is empty", cfg.Object)
	}
	return string(script), nil
}

func parseEndpoint(raw string, useSSL bool) (string, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("seed endpoint is required")
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		parsed, err := url.Parse(raw)
		if err != nil {
			return "", false, fmt.Errorf("parse seed endpoint: %w", err)
		}
		if parsed.Host == "" {
			return "", false, fmt.Errorf("seed endpoint host is required")
		}
		return parsed.Host, parsed.Scheme == "https", nil
	}
	return raw, useSSL, nil
}
