// Package content loads content descriptions from JSON or YAML files and
// converts them into the model used by the composer.
//
// Every optional field receives its documented default here: section and
// heading levels default to 2, image and diagram widths to
// model.DefaultWidth, callouts to the "info" style, highlight boxes and
// metric tiles to "primary", and an item without a type is a paragraph.
// Table cells, list entries and metric values may be any scalar; they are
// rendered with their natural string form.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/docweave/model"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported content format")

// Format is the serialization of a content description.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "YAML"
	}
	return "JSON"
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads and decodes the content description at path.
func Load(path string) (*model.Description, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content file: %w", err)
	}
	return Decode(bytes.NewReader(data), format)
}

// Decode decodes a content description from r.
func Decode(r io.Reader, format Format) (*model.Description, error) {
	var raw rawDescription
	switch format {
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding YAML content: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding JSON content: %w", err)
		}
	}
	return raw.toModel(), nil
}
