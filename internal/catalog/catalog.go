// Package catalog holds the dataset registry's read model.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("not found")

type Metadata map[string]any

// Principal is a user or service account that owns catalog entries.
type Principal struct {
	Subject     string
	Email       string
	DisplayName string
}

type Dataset struct {
	ID          string
	Name        string
	Description string
	Metadata    Metadata
	CreatedAt   time.Time
	CreatedBy   string
}

// DatasetVersion is an immutable snapshot of a dataset's content.
type DatasetVersion struct {
	ID            string
	DatasetID     string
	Ordinal       int64
	ContentSHA256 string
	ObjectKey     string
	SizeBytes     int64
	Metadata      Metadata
	CreatedAt     time.Time
	CreatedBy     string
}

type DatasetFilter struct {
	Name      string
	CreatedBy string
	Limit     int
}

type VersionFilter struct {
	DatasetID string
	Limit     int
}

// Store is the read side of the catalog. Listings are ordered newest
// first and are stable between calls as long as the data is unchanged.
type Store interface {
	GetDataset(ctx context.Context, id string) (Dataset, error)
	ListDatasets(ctx context.Context, filter DatasetFilter) ([]Dataset, error)
	GetDatasetVersion(ctx context.Context, id string) (DatasetVersion, error)
	ListDatasetVersions(ctx context.Context, filter VersionFilter) ([]DatasetVersion, error)
	LatestDatasetVersion(ctx context.Context, datasetID string) (DatasetVersion, error)
	GetPrincipal(ctx context.Context, subject string) (Principal, error)
}

func (d Dataset) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return errors.New("dataset id is required")
	}
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("dataset name is required")
	}
	return nil
}

func (v DatasetVersion) Validate() error {
	if strings.TrimSpace(v.ID) == "" {
		return errors.New("version id is required")
	}
	if strings.TrimSpace(v.DatasetID) == "" {
		return errors.New("dataset id is required")
	}
	if v.Ordinal <= 0 {
		return errors.New("ordinal must be positive")
	}
	if v.SizeBytes < 0 {
		return errors.New("size bytes must be >= 0")
	}
	return nil
}

func (p Principal) Validate() error {
	if strings.TrimSpace(p.Subject) == "" {
		return errors.New("principal subject is required")
	}
	return nil
}

// Filename is the download name offered for the version's object.
func (v DatasetVersion) Filename() string {
	key := strings.TrimRight(v.ObjectKey, "/")
	if i := strings.LastIndex(key, "/"); i >= 0 {
		key = key[i+1:]
	}
	return key
}
