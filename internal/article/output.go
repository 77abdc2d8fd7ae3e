// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package article

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/company-story/pkg/types"
)

// SourcesFile is the companion JSON document written next to the article.
type SourcesFile struct {
	Company     string         `json:"company"`
	GeneratedAt string         `json:"generated_at"`
	Sources     []types.Source `json:"sources"`
}

// WriteOutputs writes the rendered article and its sources JSON under dir,
// named by the storage key. These are the user's primary deliverable, so
// any write failure is returned as fatal. Files are written through a
// temporary name and renamed so an interrupt cannot leave partial output.
func WriteOutputs(dir, identifier, key, markdown string, pack *types.FactPack) (mdPath, sourcesPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating output directory: %w", err)
	}

	mdPath = filepath.Join(dir, key+".md")
	if err := writeAtomic(mdPath, []byte(markdown)); err != nil {
		return "", "", fmt.Errorf("writing article: %w", err)
	}

	sourcesData, err := json.MarshalIndent(SourcesFile{
		Company:     identifier,
		GeneratedAt: pack.GeneratedAt,
		Sources:     pack.Sources,
	}, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshaling sources: %w", err)
	}

	sourcesPath = filepath.Join(dir, key+"_sources.json")
	if err := writeAtomic(sourcesPath, sourcesData); err != nil {
		return "", "", fmt.Errorf("writing sources: %w", err)
	}

	return mdPath, sourcesPath, nil
}

// writeAtomic writes data to path via a temporary file in the same
// directory followed by a rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
