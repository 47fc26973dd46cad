package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/bestof/pkg/errors"
)

// Format is an input document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the encoding from the file extension; YAML is the default.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads, decodes and validates the document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open projects document %s", path)
	}
	defer f.Close()

	doc, err := Decode(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Decode parses a document and applies defaults and validation.
func Decode(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read projects document")
	}

	doc := &Document{Configuration: Default()}
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse toml")
		}
	default:
		if err := yaml.Unmarshal(data, doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse yaml")
		}
	}

	if doc.Projects == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no projects list")
	}
	if err := doc.Configuration.Validate(); err != nil {
		return nil, err
	}
	if err := doc.validateCategories(); err != nil {
		return nil, err
	}
	return doc, nil
}
