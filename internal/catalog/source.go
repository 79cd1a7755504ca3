// Skillbridge - Hybrid Ranking for Freelance and Mentorship Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillbridge

package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/skillbridge/internal/database"
	"github.com/tomtom215/skillbridge/internal/models"
	"github.com/tomtom215/skillbridge/internal/recommend"
)

// ErrUnsupportedFormat is returned for catalog files that are neither JSON
// nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported catalog file format")

// DatasetSource reads raw marketplace records.
type DatasetSource interface {
	Name() string
	LoadDataset(ctx context.Context) (*models.Dataset, error)
}

// FileSource reads a dataset from a .json, .yaml or .yml file on every
// load, so edits show up on the next refresh.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return "file:" + s.Path }

func (s *FileSource) LoadDataset(ctx context.Context) (*models.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadDatasetFile(s.Path)
}

// ReadDatasetFile decodes a dataset file by extension.
func ReadDatasetFile(path string) (*models.Dataset, error) {
	var d models.Dataset
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
		if err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode catalog file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}
		if err := k.UnmarshalWithConf("", &d, koanf.UnmarshalConf{Tag: "json"}); err != nil {
			return nil, fmt.Errorf("decode catalog file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return &d, nil
}

// DuckDBSource reads a dataset from the DuckDB catalog store.
type DuckDBSource struct {
	DB *database.DB
}

func (s *DuckDBSource) Name() string { return "duckdb:" + s.DB.Path() }

func (s *DuckDBSource) LoadDataset(ctx context.Context) (*models.Dataset, error) {
	return s.DB.LoadDataset(ctx)
}

// ProjectSource exposes the projects of a dataset as a ranking catalog.
// Engagements become the collaborative histories.
type ProjectSource struct {
	Dataset DatasetSource
}

func (s *ProjectSource) Name() string { return s.Dataset.Name() + "#" + Projects }

func (s *ProjectSource) Load(ctx context.Context) (*recommend.Catalog, error) {
	d, err := s.Dataset.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return ProjectCatalog(d), nil
}

// ProjectCatalog converts the projects and engagements of d.
func ProjectCatalog(d *models.Dataset) *recommend.Catalog {
	cat := &recommend.Catalog{
		Candidates: make([]recommend.Candidate, len(d.Projects)),
		Histories:  d.Histories(),
	}
	for i := range d.Projects {
		cat.Candidates[i] = ProjectCandidate(&d.Projects[i])
	}
	return cat
}

// MentorSource exposes the mentors of a dataset as a ranking catalog.
type MentorSource struct {
	Dataset DatasetSource
}

func (s *MentorSource) Name() string { return s.Dataset.Name() + "#" + Mentors }

func (s *MentorSource) Load(ctx context.Context) (*recommend.Catalog, error) {
	d, err := s.Dataset.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return MentorCatalog(d), nil
}

// MentorCatalog converts the mentors of d. Mentors have no histories.
func MentorCatalog(d *models.Dataset) *recommend.Catalog {
	cat := &recommend.Catalog{Candidates: make([]recommend.Candidate, len(d.Mentors))}
	for i := range d.Mentors {
		cat.Candidates[i] = MentorCandidate(&d.Mentors[i])
	}
	return cat
}
