// Package postgres reads the catalog from the registry database.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/animus-labs/animus-views/internal/catalog"
)

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db DB
}

func NewStore(db DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

var _ catalog.Store = (*Store)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return errors.New("catalog store not initialized")
	}
	return nil
}

func (s *Store) GetDataset(ctx context.Context, id string) (catalog.Dataset, error) {
	if err := s.ready(); err != nil {
		return catalog.Dataset{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.Dataset{}, errors.New("dataset id is required")
	}
	row := s.db.QueryRowContext(ctx, selectDatasets+` WHERE dataset_id = $1`, id)
	dataset, err := scanDataset(row)
	if err != nil {
		return catalog.Dataset{}, handleNotFound(err)
	}
	return dataset, nil
}

func (s *Store) ListDatasets(ctx context.Context, filter catalog.DatasetFilter) ([]catalog.Dataset, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query, args := datasetsQuery(filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	out := make([]catalog.Dataset, 0)
	for rows.Next() {
		dataset, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, dataset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return out, nil
}

func (s *Store) GetDatasetVersion(ctx context.Context, id string) (catalog.DatasetVersion, error) {
	if err := s.ready(); err != nil {
		return catalog.DatasetVersion{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.DatasetVersion{}, errors.New("version id is required")
	}
	row := s.db.QueryRowContext(ctx, selectVersions+` WHERE version_id = $1`, id)
	version, err := scanVersion(row)
	if err != nil {
		return catalog.DatasetVersion{}, handleNotFound(err)
	}
	return version, nil
}

func (s *Store) ListDatasetVersions(ctx context.Context, filter catalog.VersionFilter) ([]catalog.DatasetVersion, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(filter.DatasetID) == "" {
		return nil, errors.New("dataset id is required")
	}
	query, args := versionsQuery(filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list dataset versions: %w", err)
	}
	defer rows.Close()

	out := make([]catalog.DatasetVersion, 0)
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dataset versions: %w", err)
	}
	return out, nil
}

func (s *Store) LatestDatasetVersion(ctx context.Context, datasetID string) (catalog.DatasetVersion, error) {
	if err := s.ready(); err != nil {
		return catalog.DatasetVersion{}, err
	}
	query, args := versionsQuery(catalog.VersionFilter{DatasetID: strings.TrimSpace(datasetID), Limit: 1})
	version, err := scanVersion(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return catalog.DatasetVersion{}, handleNotFound(err)
	}
	return version, nil
}

func (s *Store) GetPrincipal(ctx context.Context, subject string) (catalog.Principal, error) {
	if err := s.ready(); err != nil {
		return catalog.Principal{}, err
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return catalog.Principal{}, errors.New("subject is required")
	}
	var p catalog.Principal
	var email, displayName sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT subject, email, display_name FROM principals WHERE subject = $1`,
		subject,
	).Scan(&p.Subject, &email, &displayName)
	if err != nil {
		return catalog.Principal{}, handleNotFound(err)
	}
	p.Email = email.String
	p.DisplayName = displayName.String
	return p, nil
}

func scanDataset(row scanner) (catalog.Dataset, error) {
	var dataset catalog.Dataset
	var description sql.NullString
	var metadataJSON []byte
	if err := row.Scan(&dataset.ID, &dataset.Name, &description, &metadataJSON, &dataset.CreatedAt, &dataset.CreatedBy); err != nil {
		return catalog.Dataset{}, err
	}
	meta, err := decodeMetadata(metadataJSON)
	if err != nil {
		return catalog.Dataset{}, fmt.Errorf("decode metadata: %w", err)
	}
	dataset.Description = description.String
	dataset.Metadata = meta
	return dataset, nil
}

func scanVersion(row scanner) (catalog.DatasetVersion, error) {
	var version catalog.DatasetVersion
	var metadataJSON []byte
	if err := row.Scan(
		&version.ID,
		&version.DatasetID,
		&version.Ordinal,
		&version.ContentSHA256,
		&version.ObjectKey,
		&version.SizeBytes,
		&metadataJSON,
		&version.CreatedAt,
		&version.CreatedBy,
	); err != nil {
		return catalog.DatasetVersion{}, err
	}
	meta, err := decodeMetadata(metadataJSON)
	if err != nil {
		return catalog.DatasetVersion{}, fmt.Errorf("decode metadata: %w", err)
	}
	version.Metadata = meta
	return version, nil
}

func decodeMetadata(raw []byte) (catalog.Metadata, error) {
	if len(raw) == 0 {
		return catalog.Metadata{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return catalog.Metadata(out), nil
}

func handleNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.ErrNotFound
	}
	return err
}
