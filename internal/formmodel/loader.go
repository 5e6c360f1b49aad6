// Package formmodel loads form-model input documents, validates them, and
// builds the canonical control lists the generators consume.
package formmodel

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/homepresso/formgraph/model"
)

// Loader scans directories for form-model files, parses them, and computes
// SHA-256 checksums.
type Loader struct{}

// NewLoader creates a new form-model Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadAll recursively scans directories for *.yaml, *.yml, and *.json files
// and parses each into a Document.
func (l *Loader) LoadAll(directories []string) ([]model.Document, error) {
	var docs []model.Document

	for _, dir := range directories {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".yaml" && ext != ".yml" && ext != ".json" {
				return nil
			}

			doc, err := l.LoadFile(path)
			if err != nil {
				return fmt.Errorf("loading %s: %w", path, err)
			}
			docs = append(docs, doc)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning directory %s: %w", dir, err)
		}
	}

	return docs, nil
}

// LoadFile loads and parses a single form-model file. It computes the
// SHA-256 checksum and records the source file path.
func (l *Loader) LoadFile(path string) (model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc model.Document
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return model.Document{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	doc.Checksum = fmt.Sprintf("%x", sha256.Sum256(data))
	doc.SourceFile = path

	return doc, nil
}
