package main

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hupe1980/knnmeans/blobstore"
	"github.com/hupe1980/knnmeans/blobstore/minio"
	"github.com/hupe1980/knnmeans/blobstore/s3"
)

// location is a parsed dataset address.
type location struct {
	scheme string // "", "s3" or "minio"
	host   string // endpoint for minio, empty otherwise
	bucket string
	name   string
}

func parseLocation(raw string) (location, error) {
	if raw == "" {
		return location{}, fmt.Errorf("empty location")
	}

	if !strings.Contains(raw, "://") {
		return location{name: filepath.Clean(raw)}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return location{}, fmt.Errorf("parse location %q: %w", raw, err)
	}
	key := strings.TrimPrefix(u.Path, "/")

	switch u.Scheme {
	case "s3":
		if u.Host == "" || key == "" {
			return location{}, fmt.Errorf("location %q: want s3://bucket/key", raw)
		}
		return location{scheme: "s3", bucket: u.Host, name: key}, nil
	case "minio":
		bucket, key, ok := strings.Cut(key, "/")
		if u.Host == "" || !ok || bucket == "" || key == "" {
			return location{}, fmt.Errorf("location %q: want minio://host:port/bucket/key", raw)
		}
		return location{scheme: "minio", host: u.Host, bucket: bucket, name: key}, nil
	default:
		return location{}, fmt.Errorf("location %q: unsupported scheme %q", raw, u.Scheme)
	}
}

// open returns the store holding the location and the blob name inside it.
// getenv supplies MinIO credentials.
func (l location) open(ctx context.Context, getenv func(string) string) (blobstore.BlobStore, string, error) {
	switch l.scheme {
	case "s3":
		store, err := s3.New(ctx, l.bucket)
		if err != nil {
			return nil, "", err
		}
		return store, l.name, nil
	case "minio":
		creds := minio.Credentials{
			AccessKey: getenv("MINIO_ACCESS_KEY"),
			SecretKey: getenv("MINIO_SECRET_KEY"),
			Region:    getenv("MINIO_REGION"),
		}
		if v := getenv("MINIO_SECURE"); v != "" {
			secure, err := strconv.ParseBool(v)
			if err != nil {
				return nil, "", fmt.Errorf("MINIO_SECURE: %w", err)
			}
			creds.Secure = secure
		}
		store, err := minio.Dial(l.host, l.bucket, creds)
		if err != nil {
			return nil, "", err
		}
		return store, l.name, nil
	default:
		return blobstore.NewLocalStore(filepath.Dir(l.name)), filepath.Base(l.name), nil
	}
}

func (l location) String() string {
	switch l.scheme {
	case "s3":
		return "s3://" + l.bucket + "/" + l.name
	case "minio":
		return "minio://" + l.host + "/" + l.bucket + "/" + l.name
	default:
		return l.name
	}
}
