package main

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/animus-labs/animus-views/internal/catalog"
	"github.com/animus-labs/animus-views/internal/resource"
	"github.com/google/uuid"
)

type registryAPI struct {
	logger   *slog.Logger
	store    catalog.Store
	datasets resource.Handler[catalog.Dataset]
	versions resource.Handler[catalog.DatasetVersion]
}

// newRegistryAPI wires the catalog into list and detail handlers. links
// may be nil, in which case extended versions carry no download_url.
func newRegistryAPI(logger *slog.Logger, store catalog.Store, links downloadLinker) *registryAPI {
	api := &registryAPI{logger: logger, store: store}
	s := serializers{store: store, links: links}

	datasetDefault, datasetExtended := s.datasetStrategies()
	api.datasets = resource.Handler[catalog.Dataset]{
		Name:               "datasets",
		Serializer:         datasetDefault,
		ExtendedSerializer: datasetExtended,
		Lookup:             api.lookupDataset,
		Query:              api.queryDatasets,
		Logger:             logger,
	}

	versionDefault, versionExtended := s.versionStrategies()
	api.versions = resource.Handler[catalog.DatasetVersion]{
		Name:               "versions",
		Serializer:         versionDefault,
		ExtendedSerializer: versionExtended,
		Lookup:             api.lookupVersion,
		Query:              api.queryVersions,
		Logger:             logger,
	}
	return api
}

func (api *registryAPI) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /datasets", api.datasets.ServeList)
	mux.HandleFunc("GET /datasets/{dataset_id}", api.datasets.ServeRetrieve)
	mux.HandleFunc("GET /datasets/{dataset_id}/versions", api.versions.ServeList)
	mux.HandleFunc("GET /dataset-versions/{version_id}", api.versions.ServeRetrieve)
}

func (api *registryAPI) lookupDataset(r *http.Request) (catalog.Dataset, error) {
	id, err := pathUUID(r, "dataset_id")
	if err != nil {
		return catalog.Dataset{}, err
	}
	d, err := api.store.GetDataset(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		return catalog.Dataset{}, resource.NotFound("dataset_not_found", err)
	}
	return d, err
}

func (api *registryAPI) queryDatasets(r *http.Request) ([]catalog.Dataset, error) {
	return api.store.ListDatasets(r.Context(), catalog.DatasetFilter{
		Name:      strings.TrimSpace(r.URL.Query().Get("name")),
		CreatedBy: strings.TrimSpace(r.URL.Query().Get("created_by")),
		Limit:     clampInt(parseIntQuery(r, "limit", 100), 1, 500),
	})
}

func (api *registryAPI) lookupVersion(r *http.Request) (catalog.DatasetVersion, error) {
	id, err := pathUUID(r, "version_id")
	if err != nil {
		return catalog.DatasetVersion{}, err
	}
	v, err := api.store.GetDatasetVersion(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		return catalog.DatasetVersion{}, resource.NotFound("dataset_version_not_found", err)
	}
	return v, err
}

// queryVersions answers 404 for an unknown dataset rather than an empty list.
func (api *registryAPI) queryVersions(r *http.Request) ([]catalog.DatasetVersion, error) {
	d, err := api.lookupDataset(r)
	if err != nil {
		return nil, err
	}
	return api.store.ListDatasetVersions(r.Context(), catalog.VersionFilter{
		DatasetID: d.ID,
		Limit:     clampInt(parseIntQuery(r, "limit", 100), 1, 500),
	})
}

func pathUUID(r *http.Request, name string) (string, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", resource.BadRequest(name+"_invalid", err)
	}
	return id.String(), nil
}

func parseIntQuery(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}

func clampInt(v int, min int, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
