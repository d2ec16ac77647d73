// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package photo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage implements [ObjectStorage] against any S3-compatible endpoint
// (AWS proper, MinIO, SeaweedFS).
type S3Storage struct {
	api     *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// S3Config carries the connection settings for [NewS3Storage].
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // empty means AWS proper
	AccessKey string // empty means the default credential chain
	SecretKey string
}

// NewS3Storage constructs the S3 client.
//
// # Parameters
//   - ctx: Context for credential resolution.
//   - cfg: Bucket, region and optional custom endpoint / static credentials.
//     A custom endpoint switches the client to path-style addressing, which
//     MinIO and SeaweedFS expect.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	options := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		options = append(options,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("photo_storage_config_failed: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		api:     client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// Upload streams the object body to the bucket under the given key.
func (storage *S3Storage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := storage.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(storage.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("photo_storage_upload_failed: %w", err)
	}
	return nil
}

// PresignGet returns a presigned GET URL valid for the given TTL.
func (storage *S3Storage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	request, err := storage.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(storage.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
	})
	if err != nil {
		return "", fmt.Errorf("photo_storage_presign_failed: %w", err)
	}

	return request.URL, nil
}
