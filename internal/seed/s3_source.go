package seed

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Source implements Source for a seed document kept in an S3 bucket, so
// every environment can pull the same catalogue snapshot.
type s3Source struct {
	client *s3.Client
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3Source creates an S3-based seed source.
func NewS3Source(ctx context.Context, bucket, region, key string, logger zerolog.Logger) (Source, error) {
	logger = logger.With().Str("component", "seed-s3-source").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("key", key).
		Str("region", region).
		Msg("S3 seed source initialised")

	return &s3Source{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		key:    key,
		logger: logger,
	}, nil
}

// Fetch downloads the seed document from S3.
func (s *s3Source) Fetch(ctx context.Context) ([]byte, error) {
	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", s.key).
		Msg("downloading seed document from S3")

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", s.key).
			Msg("failed to get seed document from S3")
		return nil, fmt.Errorf("failed to get seed document from S3 (bucket=%s, key=%s): %w", s.bucket, s.key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed document body: %w", err)
	}

	s.logger.Info().Int("bytes", len(data)).Msg("seed document downloaded")
	return data, nil
}
