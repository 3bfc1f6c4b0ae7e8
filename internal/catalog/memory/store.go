// Package memory serves the catalog from a fixture held in memory.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/animus-labs/animus-views/internal/catalog"
)

// Store is read-only after New, so it is safe for concurrent use.
type Store struct {
	datasets   map[string]catalog.Dataset
	versions   map[string]catalog.DatasetVersion
	principals map[string]catalog.Principal

	datasetOrder []string
	// versionOrder maps a dataset ID to its version IDs, newest first.
	versionOrder map[string][]string
}

var _ catalog.Store = (*Store)(nil)

func New(seed Seed) (*Store, error) {
	s := &Store{
		datasets:     make(map[string]catalog.Dataset, len(seed.Datasets)),
		versions:     make(map[string]catalog.DatasetVersion, len(seed.Versions)),
		principals:   make(map[string]catalog.Principal, len(seed.Principals)),
		versionOrder: make(map[string][]string),
	}
	for _, p := range seed.Principals {
		if _, dup := s.principals[p.Subject]; dup {
			return nil, fmt.Errorf("duplicate principal %q", p.Subject)
		}
		s.principals[p.Subject] = p
	}
	for _, d := range seed.Datasets {
		if _, dup := s.datasets[d.ID]; dup {
			return nil, fmt.Errorf("duplicate dataset %q", d.ID)
		}
		s.datasets[d.ID] = d
		s.datasetOrder = append(s.datasetOrder, d.ID)
	}
	for _, v := range seed.Versions {
		if _, ok := s.datasets[v.DatasetID]; !ok {
			return nil, fmt.Errorf("version %q references unknown dataset %q", v.ID, v.DatasetID)
		}
		if _, dup := s.versions[v.ID]; dup {
			return nil, fmt.Errorf("duplicate dataset version %q", v.ID)
		}
		s.versions[v.ID] = v
		s.versionOrder[v.DatasetID] = append(s.versionOrder[v.DatasetID], v.ID)
	}

	slices.SortFunc(s.datasetOrder, func(a, b string) int {
		da, db := s.datasets[a], s.datasets[b]
		if c := db.CreatedAt.Compare(da.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b, a)
	})
	for _, ids := range s.versionOrder {
		slices.SortFunc(ids, func(a, b string) int {
			va, vb := s.versions[a], s.versions[b]
			if c := cmp.Compare(vb.Ordinal, va.Ordinal); c != 0 {
				return c
			}
			return cmp.Compare(b, a)
		})
	}
	return s, nil
}

func (s *Store) GetDataset(ctx context.Context, id string) (catalog.Dataset, error) {
	d, ok := s.datasets[strings.TrimSpace(id)]
	if !ok {
		return catalog.Dataset{}, catalog.ErrNotFound
	}
	return d, nil
}

func (s *Store) ListDatasets(ctx context.Context, filter catalog.DatasetFilter) ([]catalog.Dataset, error) {
	name := strings.TrimSpace(filter.Name)
	createdBy := strings.TrimSpace(filter.CreatedBy)
	out := make([]catalog.Dataset, 0)
	for _, id := range s.datasetOrder {
		d := s.datasets[id]
		if name != "" && d.Name != name {
			continue
		}
		if createdBy != "" && d.CreatedBy != createdBy {
			continue
		}
		out = append(out, d)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) GetDatasetVersion(ctx context.Context, id string) (catalog.DatasetVersion, error) {
	v, ok := s.versions[strings.TrimSpace(id)]
	if !ok {
		return catalog.DatasetVersion{}, catalog.ErrNotFound
	}
	return v, nil
}

func (s *Store) ListDatasetVersions(ctx context.Context, filter catalog.VersionFilter) ([]catalog.DatasetVersion, error) {
	ids := s.versionOrder[strings.TrimSpace(filter.DatasetID)]
	if filter.Limit > 0 && len(ids) > filter.Limit {
		ids = ids[:filter.Limit]
	}
	out := make([]catalog.DatasetVersion, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.versions[id])
	}
	return out, nil
}

func (s *Store) LatestDatasetVersion(ctx context.Context, datasetID string) (catalog.DatasetVersion, error) {
	ids := s.versionOrder[strings.TrimSpace(datasetID)]
	if len(ids) == 0 {
		return catalog.DatasetVersion{}, catalog.ErrNotFound
	}
	return s.versions[ids[0]], nil
}

func (s *Store) GetPrincipal(ctx context.Context, subject string) (catalog.Principal, error) {
	p, ok := s.principals[strings.TrimSpace(subject)]
	if !ok {
		return catalog.Principal{}, catalog.ErrNotFound
	}
	return p, nil
}
