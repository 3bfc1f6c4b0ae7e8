package postgres

import (
	"fmt"
	"strings"

	"github.com/animus-labs/animus-views/internal/catalog"
)

const selectDatasets = `SELECT dataset_id, name, description, metadata, created_at, created_by FROM datasets`

const selectVersions = `SELECT version_id, dataset_id, ordinal, content_sha256, object_key, size_bytes, metadata, created_at, created_by FROM dataset_versions`

type whereBuilder struct {
	clauses []string
	args    []any
}

func (b *whereBuilder) eq(column, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *whereBuilder) build(base, orderBy string, limit int) (string, []any) {
	query := base
	if len(b.clauses) > 0 {
		query += " WHERE " + strings.Join(b.clauses, " AND ")
	}
	query += " ORDER BY " + orderBy
	if limit > 0 {
		b.args = append(b.args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(b.args))
	}
	return query, b.args
}

// Secondary sort keys keep pages stable when timestamps collide.
func datasetsQuery(filter catalog.DatasetFilter) (string, []any) {
	var b whereBuilder
	b.eq("name", filter.Name)
	b.eq("created_by", filter.CreatedBy)
	return b.build(selectDatasets, "created_at DESC, dataset_id DESC", filter.Limit)
}

func versionsQuery(filter catalog.VersionFilter) (string, []any) {
	var b whereBuilder
	b.eq("dataset_id", filter.DatasetID)
	return b.build(selectVersions, "ordinal DESC, version_id DESC", filter.Limit)
}
