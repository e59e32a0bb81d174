// Package s3 stores media objects in an S3-compatible bucket.
package s3

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/storage"
)

// Config holds the S3 backend settings.
type Config struct {
	Bucket string
	Region string
	// Endpoint overrides the S3 endpoint, for MinIO and similar.
	Endpoint string
	// PublicURL is the prefix of publicly reachable object URLs. When empty
	// the standard virtual-hosted URL is used.
	PublicURL string
}

// Storage implements storage.Storage on S3.
type Storage struct {
	client *s3.Client
	cfg    Config
}

// New creates an S3 storage backend using the default credential chain.
func New(ctx context.Context, cfg Config) (*Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Storage{client: client, cfg: cfg}, nil
}

// Upload puts the object into the bucket.
func (s *Storage) Upload(ctx context.Context, in storage.UploadInput) (*storage.UploadResult, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(in.Key),
		Body:          in.Body,
		ContentType:   aws.String(in.ContentType),
		ContentLength: aws.Int64(in.Size),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", in.Key, err)
	}

	return &storage.UploadResult{
		Key: in.Key,
		URL: s.objectURL(in.Key),
	}, nil
}

// Delete removes the object from the bucket.
func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *Storage) objectURL(key string) string {
	if s.cfg.PublicURL != "" {
		return strings.TrimSuffix(s.cfg.PublicURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
