package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/animus-labs/animus-views/internal/catalog"
	"github.com/animus-labs/animus-views/internal/extended"
	"github.com/dustin/go-humanize"
)

// downloadLinker presigns object downloads. *objectstore.Presigner
// satisfies it.
type downloadLinker interface {
	DownloadURL(ctx context.Context, key string, filename string) (string, error)
}

type serializers struct {
	store catalog.Store
	links downloadLinker
}

func (s serializers) dataset(ctx context.Context, d catalog.Dataset) (*extended.Record, error) {
	return extended.NewRecord().
		Set("dataset_id", d.ID).
		Set("name", d.Name).
		Set("description", d.Description).
		Set("metadata", metadataValue(d.Metadata)).
		Set("created_at", d.CreatedAt.UTC()).
		Set("created_by", d.CreatedBy), nil
}

// datasetExtended expands created_by into the owning principal and adds a
// summary of the newest version.
func (s serializers) datasetExtended(ctx context.Context, d catalog.Dataset) (*extended.Record, error) {
	owner, err := s.principal(ctx, d.CreatedBy)
	if err != nil {
		return nil, err
	}
	var latest any
	v, err := s.store.LatestDatasetVersion(ctx, d.ID)
	switch {
	case err == nil:
		latest = map[string]any{
			"version_id": v.ID,
			"ordinal":    v.Ordinal,
			"created_at": v.CreatedAt.UTC(),
		}
	case errors.Is(err, catalog.ErrNotFound):
	default:
		return nil, fmt.Errorf("latest version of %s: %w", d.ID, err)
	}

	return extended.NewRecord().
		Set("dataset_id", d.ID).
		Set("name", d.Name).
		Set("description", d.Description).
		Set("metadata", metadataValue(d.Metadata)).
		Set("created_at", d.CreatedAt.UTC()).
		Set("created_by", owner).
		Set("latest_version", latest), nil
}

func (s serializers) version(ctx context.Context, v catalog.DatasetVersion) (*extended.Record, error) {
	return extended.NewRecord().
		Set("version_id", v.ID).
		Set("dataset_id", v.DatasetID).
		Set("ordinal", v.Ordinal).
		Set("content_sha256", v.ContentSHA256).
		Set("object_key", v.ObjectKey).
		Set("size_bytes", v.SizeBytes).
		Set("metadata", metadataValue(v.Metadata)).
		Set("created_at", v.CreatedAt.UTC()).
		Set("created_by", v.CreatedBy), nil
}

// versionExtended expands dataset_id and created_by, and adds a human
// readable size plus a download link when object storage is configured.
func (s serializers) versionExtended(ctx context.Context, v catalog.DatasetVersion) (*extended.Record, error) {
	parent := map[string]any{"dataset_id": v.DatasetID, "name": nil}
	d, err := s.store.GetDataset(ctx, v.DatasetID)
	switch {
	case err == nil:
		parent["name"] = d.Name
	case errors.Is(err, catalog.ErrNotFound):
	default:
		return nil, fmt.Errorf("dataset of version %s: %w", v.ID, err)
	}
	owner, err := s.principal(ctx, v.CreatedBy)
	if err != nil {
		return nil, err
	}

	rec := extended.NewRecord().
		Set("version_id", v.ID).
		Set("dataset_id", parent).
		Set("ordinal", v.Ordinal).
		Set("content_sha256", v.ContentSHA256).
		Set("object_key", v.ObjectKey).
		Set("size_bytes", v.SizeBytes).
		Set("metadata", metadataValue(v.Metadata)).
		Set("created_at", v.CreatedAt.UTC()).
		Set("created_by", owner).
		Set("size_human", humanize.Bytes(uint64(max(v.SizeBytes, 0))))

	if s.links != nil && v.ObjectKey != "" {
		link, err := s.links.DownloadURL(ctx, v.ObjectKey, v.Filename())
		if err != nil {
			return nil, err
		}
		rec.Set("download_url", link)
	}
	return rec, nil
}

// principal resolves subject to its profile. Unknown subjects still
// produce an object so the field keeps one shape.
func (s serializers) principal(ctx context.Context, subject string) (map[string]any, error) {
	out := map[string]any{"subject": subject, "email": nil, "display_name": nil}
	if subject == "" {
		return out, nil
	}
	p, err := s.store.GetPrincipal(ctx, subject)
	if errors.Is(err, catalog.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("principal %s: %w", subject, err)
	}
	if p.Email != "" {
		out["email"] = p.Email
	}
	if p.DisplayName != "" {
		out["display_name"] = p.DisplayName
	}
	return out, nil
}

func metadataValue(meta catalog.Metadata) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}

func (s serializers) datasetStrategies() (extended.Serializer[catalog.Dataset], extended.Serializer[catalog.Dataset]) {
	return extended.SerializerFunc[catalog.Dataset](s.dataset), extended.SerializerFunc[catalog.Dataset](s.datasetExtended)
}

func (s serializers) versionStrategies() (extended.Serializer[catalog.DatasetVersion], extended.Serializer[catalog.DatasetVersion]) {
	return extended.SerializerFunc[catalog.DatasetVersion](s.version), extended.SerializerFunc[catalog.DatasetVersion](s.versionExtended)
}
