// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes parsed requirement collections to disk.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/reqif-engine/pkg/types"
)

// Write serializes the collection to cfg.OutputDir in the configured
// format and returns the path written. Requirements are ordered by id so
// repeated exports of the same collection are byte-identical.
func Write(reqs []types.Requirement, cfg types.ExportConfig) (string, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	ordered := make([]types.Requirement, len(reqs))
	copy(ordered, reqs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var (
		data []byte
		name string
		err  error
	)
	switch cfg.Format {
	case types.ExportJSON:
		name = "requirements.json"
		data, err = json.MarshalIndent(ordered, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	case types.ExportYAML, "":
		name = "requirements.yaml"
		data, err = yaml.Marshal(ordered)
		if err != nil {
			return "", fmt.Errorf("marshaling YAML: %w", err)
		}
	default:
		return "", fmt.Errorf("unknown export format %q", cfg.Format)
	}

	path := filepath.Join(cfg.OutputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
