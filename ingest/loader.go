package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/clausematch/core"
	"gopkg.in/yaml.v3"
)

// LoadFile reads every document in a .yaml, .yml or .json file.
func LoadFile(path string) ([]*core.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	docs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// Decode reads a stream of YAML documents. JSON input is accepted as well.
// Empty documents in the stream are skipped.
func Decode(r io.Reader) ([]*core.Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var docs []*core.Document
	for {
		doc := &core.Document{}
		err := dec.Decode(doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding document %d: %w", len(docs)+1, err)
		}
		if doc.ID == "" && len(doc.Chunks) == 0 {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
