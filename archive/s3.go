// Package archive stores generated digests as JSON objects in S3 so
// runs can be audited and replayed. Like the event publisher, it is
// optional: no bucket configured means no uploads.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loungebot/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// Config holds the archive target. Empty Region falls back to the
// standard AWS config chain.
type Config struct {
	Bucket string
	Region string
	Prefix string
}

// Archive uploads digest snapshots to S3.
type Archive struct {
	client *s3.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// New creates an archive using the default AWS configuration chain.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Archive, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Archive{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger,
	}, nil
}

// StoreDigest uploads the digest JSON under a date-and-topic key.
func (a *Archive) StoreDigest(ctx context.Context, digest types.DigestResult) error {
	body, err := json.MarshalIndent(digest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal digest: %w", err)
	}

	key := fmt.Sprintf("%sdigests/%s/%s.json",
		a.prefix,
		digest.GeneratedAt.Format("2006-01-02"),
		types.GenerateID(digest.Topic+digest.GeneratedAt.Format(time.RFC3339)))

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("upload digest to s3: %w", err)
	}

	a.logger.Info("digest archived", "bucket", a.bucket, "key", key)
	return nil
}

// Exists reports whether an object is present (404/NotFound is false).
func (a *Archive) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}

	return false, err
}
