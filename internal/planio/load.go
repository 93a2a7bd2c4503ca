// Package planio reads and writes plan documents as YAML or JSON.
package planio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jorge-barreto/planner/internal/plan"
)

// Format is an on-disk plan encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from the file extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// Load reads a plan file. Only schema_version, nodes and root_ids are kept;
// their shapes are left for the validator to judge.
func Load(path string) (*plan.Document, *plan.Error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &plan.Error{Code: plan.CodeFileNotFound, Message: "file does not exist", File: path}
		}
		return nil, &plan.Error{Code: plan.CodeFileRead, Message: err.Error(), File: path}
	}
	format, ok := FormatFor(path)
	if !ok {
		return nil, &plan.Error{
			Code:    plan.CodeUnsupportedFormat,
			Message: "supported formats are .yaml/.yml and .json",
			File:    path,
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &plan.Error{Code: plan.CodeFileRead, Message: err.Error(), File: path}
	}
	return Parse(data, format, path)
}

// Parse decodes plan bytes. file is recorded on the document and on errors.
func Parse(data []byte, format Format, file string) (*plan.Document, *plan.Error) {
	top, err := Decode(data, format)
	if err != nil {
		var code string
		switch format {
		case FormatYAML:
			code = plan.CodeYAMLParse
		case FormatJSON:
			code = plan.CodeJSONParse
		default:
			code = plan.CodeUnsupportedFormat
		}
		return nil, &plan.Error{Code: code, Message: err.Error(), File: file}
	}

	m, ok := top.(map[string]any)
	if !ok {
		return nil, &plan.Error{
			Code:    plan.CodeInvalidTopLevel,
			Message: "top-level document must be a mapping/object",
			File:    file,
		}
	}
	return &plan.Document{
		File:          file,
		SchemaVersion: m["schema_version"],
		Nodes:         m["nodes"],
		RootIDs:       m["root_ids"],
	}, nil
}

// Decode parses a single YAML or JSON value into plain maps, lists and
// scalars. Mappings are always string-keyed; integral JSON numbers are int.
func Decode(data []byte, format Format) (any, error) {
	switch format {
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return normalizeYAML(v), nil
	case FormatJSON:
		return decodeJSON(data)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// normalizeYAML converts mappings with non-string keys to string-keyed maps
// so every mapping in a document has the same Go shape.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalizeYAML(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalizeYAML(item)
		}
		return t
	}
	return v
}

// decodeJSON decodes a single JSON value. Integral numbers become int,
// everything else float64, matching what the YAML decoder produces.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return normalizeJSON(v)
}

func normalizeJSON(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			n, err := normalizeJSON(item)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	case []any:
		for i, item := range t {
			n, err := normalizeJSON(item)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	case json.Number:
		if i, err := t.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return v, nil
}
