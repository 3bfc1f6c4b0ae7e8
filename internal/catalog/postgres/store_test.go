package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/animus-labs/animus-views/internal/catalog"
	"github.com/google/go-cmp/cmp"
)

func TestDatasetsQuery(t *testing.T) {
	cases := []struct {
		name      string
		filter    catalog.DatasetFilter
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "unfiltered",
			wantQuery: selectDatasets + " ORDER BY created_at DESC, dataset_id DESC",
		},
		{
			name:      "owner and limit",
			filter:    catalog.DatasetFilter{CreatedBy: " u-1 ", Limit: 20},
			wantQuery: selectDatasets + " WHERE created_by = $1 ORDER BY created_at DESC, dataset_id DESC LIMIT $2",
			wantArgs:  []any{"u-1", 20},
		},
		{
			name:      "name and owner",
			filter:    catalog.DatasetFilter{Name: "iris", CreatedBy: "u-1"},
			wantQuery: selectDatasets + " WHERE name = $1 AND created_by = $2 ORDER BY created_at DESC, dataset_id DESC",
			wantArgs:  []any{"iris", "u-1"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			query, args := datasetsQuery(tc.filter)
			if query != tc.wantQuery {
				t.Fatalf("query=%q, want %q", query, tc.wantQuery)
			}
			if diff := cmp.Diff(tc.wantArgs, args); diff != "" {
				t.Fatalf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVersionsQuery(t *testing.T) {
	query, args := versionsQuery(catalog.VersionFilter{DatasetID: "d-1", Limit: 1})
	want := selectVersions + " WHERE dataset_id = $1 ORDER BY ordinal DESC, version_id DESC LIMIT $2"
	if query != want {
		t.Fatalf("query=%q, want %q", query, want)
	}
	if diff := cmp.Diff([]any{"d-1", 1}, args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMetadata(t *testing.T) {
	meta, err := decodeMetadata(nil)
	if err != nil || meta == nil || len(meta) != 0 {
		t.Fatalf("decodeMetadata(nil)=%v, %v", meta, err)
	}
	meta, err = decodeMetadata([]byte("null"))
	if err != nil || meta == nil {
		t.Fatalf("decodeMetadata(null)=%v, %v", meta, err)
	}
	meta, err = decodeMetadata([]byte(`{"rows":150}`))
	if err != nil {
		t.Fatalf("decodeMetadata() err=%v", err)
	}
	if diff := cmp.Diff(catalog.Metadata{"rows": float64(150)}, meta); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}
	if _, err := decodeMetadata([]byte("{")); err == nil {
		t.Fatalf("decodeMetadata() expected error")
	}
}

func TestHandleNotFound(t *testing.T) {
	if err := handleNotFound(fmt.Errorf("scan: %w", sql.ErrNoRows)); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("handleNotFound()=%v, want ErrNotFound", err)
	}
	other := errors.New("boom")
	if err := handleNotFound(other); err != other {
		t.Fatalf("handleNotFound()=%v, want passthrough", err)
	}
}

func TestStoreNotInitialized(t *testing.T) {
	var s *Store
	if s = NewStore(nil); s != nil {
		t.Fatalf("NewStore(nil)=%v, want nil", s)
	}
	if _, err := s.GetDataset(context.Background(), "x"); err == nil {
		t.Fatalf("GetDataset() on nil store expected error")
	}
}
