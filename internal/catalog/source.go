// internal/catalog/source.go
package catalog

import (
	"context"
	"os"

	"jobchaja-workers/internal/common/database"
	commonerrors "jobchaja-workers/internal/common/errors"
)

// Source fetches the raw catalog document from wherever it is stored.
type Source interface {
	// Name identifies the source in logs and metrics ("file", "postgres").
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// FileSource reads the catalog from a JSON file on disk. This is the default
// for local development and for deployments that ship the catalog with the
// binary.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, commonerrors.NewCatalogLoadFailedError("file", err)
	}
	return data, nil
}

// PostgresSource reads the newest published catalog document from the
// visa_catalog table. The registry-updater tool writes rows there; only the
// latest published row is served.
type PostgresSource struct {
	DB *database.PostgresClient
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Fetch(ctx context.Context) ([]byte, error) {
	const query = `
		SELECT document
		FROM visa_catalog
		WHERE published = true
		ORDER BY created_at DESC
		LIMIT 1`

	var document []byte
	row := s.DB.QueryRow(ctx, query)
	if err := row.Scan(&document); err != nil {
		return nil, commonerrors.NewCatalogLoadFailedError("postgres", err)
	}
	return document, nil
}
