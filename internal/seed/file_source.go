package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileSource implements Source for a seed document on the local filesystem.
type fileSource struct {
	path   string
	logger zerolog.Logger
}

// NewFileSource creates a file-based seed source.
func NewFileSource(path string, logger zerolog.Logger) Source {
	return &fileSource{
		path:   path,
		logger: logger.With().Str("component", "seed-file-source").Logger(),
	}
}

// Fetch reads the seed document from disk.
func (s *fileSource) Fetch(_ context.Context) ([]byte, error) {
	s.logger.Info().Str("file", s.path).Msg("loading seed document")

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to read seed document")
		return nil, fmt.Errorf("failed to read seed document %s: %w", s.path, err)
	}
	return data, nil
}
