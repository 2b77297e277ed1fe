// Package loader reads scene documents into the untyped tree the compiler
// consumes: *schema.Map for mappings (in document order), []any for
// sequences and scalars.
//
// Three formats are supported:
//
//   - YAML, the native format. Scalars are kept as written, so "count: 3"
//     yields the string "3" and typing is left to the schema decoder.
//   - JSON. Numbers are kept as json.Number.
//   - TOML. Values keep their TOML types; dates become RFC 3339 strings.
//
// Mapping order always follows the document, which is what makes component
// registration order (and therefore the save's object order) stable.
package loader

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/ttgen/pkg/errors"
)

// Format identifies a document syntax.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatYAML, FormatJSON, FormatTOML}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want yaml, json or toml)", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format of %s: no extension", path)
	}
	return ParseFormat(ext)
}

// Load reads a whole document from r.
func Load(r io.Reader, f Format) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s document", f)
	}
	return LoadBytes(data, f)
}

// LoadBytes parses a document held in memory.
//
// Errors:
//   - INVALID_FORMAT for syntax errors or an unsupported format
//   - DUPLICATE_KEY when a YAML mapping repeats a key
func LoadBytes(data []byte, f Format) (any, error) {
	switch f {
	case FormatYAML:
		return loadYAML(data)
	case FormatJSON:
		return loadJSON(data)
	case FormatTOML:
		return loadTOML(data)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
}

// LoadFile reads the document at path, inferring its format from the
// extension.
func LoadFile(path string) (any, Format, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, f, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", path)
		}
		return nil, f, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	tree, err := LoadBytes(data, f)
	if err != nil {
		return nil, f, err
	}
	return tree, f, nil
}
