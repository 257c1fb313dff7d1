package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
	"github.com/medoraclinic/medora-site/backend/internal/domain/providers"
	"github.com/medoraclinic/medora-site/backend/pkg/config"
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
)

// ImmutableCacheControl is set on every uploaded object. Freshness comes from
// the hourly ?v= bucket on the URL, not from revalidation.
const ImmutableCacheControl = "public, max-age=31536000"

// R2Store implements ObjectStorage on Cloudflare R2 through the S3 API
type R2Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
	breaker   *gobreaker.CircuitBreaker
}

// NewR2Store builds an S3 client for the account endpoint in cfg
func NewR2Store(ctx context.Context, cfg *config.StorageConfig) (*R2Store, error) {
	if !cfg.HasCredentials() && cfg.Endpoint == "" {
		return nil, errors.New("R2 credentials not configured")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion("auto"),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.EndpointURL())
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return NewR2StoreFromClient(client, cfg.Bucket, cfg.PublicURL), nil
}

// NewR2StoreFromClient wraps an existing S3 client
func NewR2StoreFromClient(client *s3.Client, bucket, publicURL string) *R2Store {
	return &R2Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "r2",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("object storage circuit breaker changed state")
			},
		}),
	}
}

var _ providers.ObjectStorage = (*R2Store)(nil)

// Put uploads body at key, overwriting any existing object
func (s *R2Store) Put(ctx context.Context, key string, body io.Reader, size int64, opts providers.PutOptions) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	input.CacheControl = aws.String(ImmutableCacheControl)
	if opts.CacheControl != "" {
		input.CacheControl = aws.String(opts.CacheControl)
	}

	_, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.PutObject(ctx, input)
	})
	if err != nil {
		return "", apperrors.NewExternalError(fmt.Sprintf("failed to upload %s", key), err)
	}

	return s.PublicURL(key), nil
}

// Delete removes key. S3 reports success for missing keys.
func (s *R2Store) Delete(ctx context.Context, key string) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
	})
	if err != nil {
		return apperrors.NewExternalError(fmt.Sprintf("failed to delete %s", key), err)
	}
	return nil
}

// List pages through every object under prefix. Keys ending in "/" are
// folder markers and are skipped.
func (s *R2Store) List(ctx context.Context, prefix string) ([]entities.StoredObject, error) {
	objects := []entities.StoredObject{}
	var token *string

	for {
		input := &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		}
		res, err := s.breaker.Execute(func() (interface{}, error) {
			return s.client.ListObjectsV2(ctx, input)
		})
		if err != nil {
			return nil, apperrors.NewExternalError("failed to list images", err)
		}
		out := res.(*s3.ListObjectsV2Output)

		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			objects = append(objects, entities.StoredObject{
				Key:          key,
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
				URL:          s.PublicURL(key),
			})
		}

		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			break
		}
		token = out.NextContinuationToken
	}

	return objects, nil
}

// PublicURL joins the public base URL and key
func (s *R2Store) PublicURL(key string) string {
	return s.publicURL + "/" + strings.TrimLeft(key, "/")
}
