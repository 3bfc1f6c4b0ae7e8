package memory

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/animus-labs/animus-views/internal/catalog"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// seedNamespace scopes the IDs derived for seed entries that omit one.
var seedNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://animus.local/catalog/seed"))

type seedDocument struct {
	Principals []seedPrincipal `yaml:"principals"`
	Datasets   []seedDataset   `yaml:"datasets"`
}

type seedPrincipal struct {
	Subject     string `yaml:"subject"`
	Email       string `yaml:"email"`
	DisplayName string `yaml:"display_name"`
}

type seedDataset struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Metadata    map[string]any `yaml:"metadata"`
	CreatedAt   time.Time      `yaml:"created_at"`
	CreatedBy   string         `yaml:"created_by"`
	Versions    []seedVersion  `yaml:"versions"`
}

type seedVersion struct {
	ID            string         `yaml:"id"`
	Ordinal       int64          `yaml:"ordinal"`
	ContentSHA256 string         `yaml:"content_sha256"`
	ObjectKey     string         `yaml:"object_key"`
	SizeBytes     int64          `yaml:"size_bytes"`
	Metadata      map[string]any `yaml:"metadata"`
	CreatedAt     time.Time      `yaml:"created_at"`
	CreatedBy     string         `yaml:"created_by"`
}

// Seed is a decoded catalog fixture.
type Seed struct {
	Principals []catalog.Principal
	Datasets   []catalog.Dataset
	Versions   []catalog.DatasetVersion
}

func LoadFile(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed: %w", err)
	}
	return Load(bytes.NewReader(raw))
}

// Load decodes a YAML seed. Versions are nested under their dataset and
// entries without an id get one derived from their name (and ordinal), so
// fixtures keep the same IDs across restarts.
func Load(r io.Reader) (Seed, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc seedDocument
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}
	return doc.toSeed()
}

func (doc seedDocument) toSeed() (Seed, error) {
	var seed Seed
	for i, p := range doc.Principals {
		principal := catalog.Principal{
			Subject:     strings.TrimSpace(p.Subject),
			Email:       strings.TrimSpace(p.Email),
			DisplayName: strings.TrimSpace(p.DisplayName),
		}
		if err := principal.Validate(); err != nil {
			return Seed{}, fmt.Errorf("principals[%d]: %w", i, err)
		}
		seed.Principals = append(seed.Principals, principal)
	}

	for i, d := range doc.Datasets {
		name := strings.TrimSpace(d.Name)
		id := strings.TrimSpace(d.ID)
		if id == "" && name != "" {
			id = deriveID("dataset", name)
		}
		dataset := catalog.Dataset{
			ID:          id,
			Name:        name,
			Description: strings.TrimSpace(d.Description),
			Metadata:    metadata(d.Metadata),
			CreatedAt:   d.CreatedAt.UTC(),
			CreatedBy:   strings.TrimSpace(d.CreatedBy),
		}
		if err := dataset.Validate(); err != nil {
			return Seed{}, fmt.Errorf("datasets[%d]: %w", i, err)
		}
		seed.Datasets = append(seed.Datasets, dataset)

		for j, v := range d.Versions {
			versionID := strings.TrimSpace(v.ID)
			if versionID == "" {
				versionID = deriveID("dataset-version", name, strconv.FormatInt(v.Ordinal, 10))
			}
			createdBy := strings.TrimSpace(v.CreatedBy)
			if createdBy == "" {
				createdBy = dataset.CreatedBy
			}
			version := catalog.DatasetVersion{
				ID:            versionID,
				DatasetID:     dataset.ID,
				Ordinal:       v.Ordinal,
				ContentSHA256: strings.TrimSpace(v.ContentSHA256),
				ObjectKey:     strings.TrimSpace(v.ObjectKey),
				SizeBytes:     v.SizeBytes,
				Metadata:      metadata(v.Metadata),
				CreatedAt:     v.CreatedAt.UTC(),
				CreatedBy:     createdBy,
			}
			if err := version.Validate(); err != nil {
				return Seed{}, fmt.Errorf("datasets[%d].versions[%d]: %w", i, j, err)
			}
			seed.Versions = append(seed.Versions, version)
		}
	}
	return seed, nil
}

func deriveID(kind string, parts ...string) string {
	return uuid.NewSHA1(seedNamespace, []byte(kind+"/"+strings.Join(parts, "/"))).String()
}

func metadata(in map[string]any) catalog.Metadata {
	if in == nil {
		return catalog.Metadata{}
	}
	return catalog.Metadata(in)
}
