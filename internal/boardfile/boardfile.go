// Package boardfile reads and writes board documents and operation lists
// on disk, as JSON or YAML chosen by file extension.
package boardfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/inamate/stickers/internal/document"
	"github.com/inamate/stickers/internal/engine"
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

var ErrNoMatch = errors.New("no files match")

// FormatOf picks the format for path from its extension. Anything that is
// not .yaml or .yml is JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case JSON:
		return JSON, nil
	case YAML, "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

// Load reads a board document.
func Load(path string) (*document.InBoard, error) {
	var doc document.InBoard
	if err := decodeFile(path, &doc); err != nil {
		return nil, err
	}
	if doc.Stickers == nil {
		doc.Stickers = map[string]document.StickerNode{}
	}
	return &doc, nil
}

// Save writes doc to path in the format its extension names.
func Save(path string, doc *document.InBoard) error {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, FormatOf(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadOperations reads a list of operations.
func LoadOperations(path string) ([]engine.Operation, error) {
	var ops []engine.Operation
	if err := decodeFile(path, &ops); err != nil {
		return nil, err
	}
	return ops, nil
}

// Expand resolves glob patterns, including "**", into a sorted list of
// files. Patterns without glob syntax are kept as given.
func Expand(patterns ...string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoMatch, pattern)
		}
		out = append(out, matches...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Encode writes v as indented JSON or as YAML. YAML output uses the same
// field names as the JSON form.
func Encode(w io.Writer, v any, format Format) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if format == YAML {
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if FormatOf(path) == YAML {
		if data, err = yamlToJSON(data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// yamlToJSON lets YAML files use the JSON field names of the document
// types.
func yamlToJSON(data []byte) ([]byte, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}
