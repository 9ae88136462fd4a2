// Package exporter writes extraction results to disk as JSON documents.
//
// One document is written per workbook, named by an external
// consecutive-numbering scheme: the next file is <N>.json where N is one past
// the highest all-digit stem already present in the output directory.
package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// JSONWriter writes consecutively numbered JSON documents into one directory.
type JSONWriter struct {
	dir string
}

// NewJSONWriter creates a writer for the given output directory.
func NewJSONWriter(dir string) *JSONWriter {
	return &JSONWriter{dir: dir}
}

// WriteDocument serializes v as the next consecutive <N>.json and returns the
// path written.
func (w *JSONWriter) WriteDocument(v any) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	n, err := w.NextConsecutive()
	if err != nil {
		return "", err
	}

	path := filepath.Join(w.dir, fmt.Sprintf("%d.json", n))
	if err := WriteJSON(path, v); err != nil {
		return "", err
	}

	slog.Info("exported document",
		slog.String("path", path),
		slog.Int("consecutive", n))
	return path, nil
}

// NextConsecutive computes 1 + the highest numeric .json stem in the output
// directory. An empty or missing directory starts at 1.
func (w *JSONWriter) NextConsecutive() (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, fmt.Errorf("failed to read output directory: %w", err)
	}

	max := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		stem := strings.TrimSuffix(name, ".json")
		n, err := strconv.Atoi(stem)
		if err != nil || n < 0 || stem != strconv.Itoa(n) {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1, nil
}

// WriteJSON writes v to path with two-space indentation and without HTML
// escaping, matching the documents the downstream mapping service expects.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadJSON reads path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
