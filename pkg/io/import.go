package io

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/ssaview/pkg/errors"
	"github.com/matzehuels/ssaview/pkg/observability"
)

// Dataset is the content of a vector file.
type Dataset struct {
	// Columns holds the header row, or nil when the file has none.
	Columns []string
	Vectors [][]float64
}

// Delimiter returns the field separator used for path: a tab for ".tsv"
// and ".tab" files, a comma otherwise.
func Delimiter(path string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return '\t'
	}
	return ','
}

// ReadVectors parses delimited feature vectors from r.
//
// The first row is taken as a header when none of its fields is a number.
// An empty input is an INVALID_FORMAT error, as is any other non-numeric
// field. ReadVectors does not close r.
func ReadVectors(r io.Reader, comma rune) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	ds := &Dataset{}
	width := -1
	for first := true; ; first = false {
		rec, err := cr.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read vectors")
		}
		line, _ := cr.FieldPos(0)

		if first && isHeader(rec) {
			ds.Columns = append([]string(nil), rec...)
			width = len(rec)
			continue
		}
		vec, err := parseRow(rec)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", line)
		}
		if width >= 0 && len(vec) != width {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"line %d: %d fields, want %d", line, len(vec), width)
		}
		width = len(vec)
		ds.Vectors = append(ds.Vectors, vec)
	}

	if len(ds.Vectors) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no vectors found")
	}
	return ds, nil
}

func isHeader(rec []string) bool {
	for _, field := range rec {
		if _, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err == nil {
			return false
		}
	}
	return true
}

func parseRow(rec []string) ([]float64, error) {
	vec := make([]float64, len(rec))
	for k, field := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		vec[k] = v
	}
	return vec, nil
}

// ImportVectors reads the vector file at path, choosing the delimiter with
// [Delimiter]. The load is reported to the registered input hooks.
func ImportVectors(ctx context.Context, path string) (*Dataset, error) {
	start := time.Now()
	ds, err := importVectors(path)

	var n, features int
	if ds != nil {
		n = len(ds.Vectors)
		features = len(ds.Vectors[0])
	}
	observability.Input().OnLoad(ctx, path, n, features, time.Since(start), err)
	return ds, err
}

func importVectors(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	ds, err := ReadVectors(f, Delimiter(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}
