package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoDocuments is returned when a load produces nothing usable.
var ErrNoDocuments = errors.New("no documents loaded")

// Skipped records a file the loader passed over and why.
type Skipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

var extTypes = map[string]Type{
	".txt":      TypeText,
	".text":     TypeText,
	".md":       TypeMarkdown,
	".markdown": TypeMarkdown,
}

// LoadFile reads a single plain-text or markdown file into a Document.
func LoadFile(path string) (Document, error) {
	typ, ok := extTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return Document{}, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, errors.New("file is empty")
	}

	name := filepath.Base(path)

	return Document{
		Content: string(data),
		Source:  name,
		Title:   strings.TrimSuffix(name, filepath.Ext(name)),
		Type:    typ,
	}, nil
}

// LoadDirectory reads every supported file in dir. Files that fail to load
// are skipped with a reason rather than failing the batch; the load only
// errors when the directory is unreadable or nothing at all could be loaded.
func LoadDirectory(dir string) ([]Document, []Skipped, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var docs []Document
	var skipped []Skipped

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		doc, err := LoadFile(path)
		if err != nil {
			skipped = append(skipped, Skipped{Path: path, Reason: err.Error()})
			continue
		}

		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, skipped, fmt.Errorf("%w from %s", ErrNoDocuments, dir)
	}

	return docs, skipped, nil
}
