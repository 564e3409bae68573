// Package ingest provides memory-efficient chunked reading of delimited
// sales data. The reader never materializes the full input: callers pull
// fixed-size batches until the source is exhausted.
package ingest

import (
	"encoding/csv"
	"io"
	"os"

	"salespipe/internal/errors"
	"salespipe/internal/logging"
)

// RawRow maps a declared column name to its raw string value for one
// source line. Rows are ephemeral and discarded after cleaning.
type RawRow map[string]string

// Reader streams a CSV source in fixed-size batches. The sequence is
// lazy, finite and non-restartable; re-reading requires a new Reader.
type Reader struct {
	path   string
	file   *os.File
	csv    *csv.Reader
	header []string
	rows   int
	done   bool
}

// Open opens the source and consumes its first line as the header.
// Returns a NOT_FOUND error if the path does not exist and a
// SOURCE_ERROR for any other open or header-read failure.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("source file", path)
		}
		return nil, errors.Source("failed to open source file", err).WithContext("path", path)
	}

	cr := csv.NewReader(f)
	// Dirty inputs may carry ragged rows; field-count mismatches are a
	// cleaning concern, not a read failure.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		f.Close()
		if err == io.EOF {
			return nil, errors.Source("source file is empty", nil).WithContext("path", path)
		}
		return nil, errors.Source("failed to read header", err).WithContext("path", path)
	}

	logging.Sugar.Debugw("opened source", "path", path, "columns", len(header))

	return &Reader{
		path:   path,
		file:   f,
		csv:    cr,
		header: header,
	}, nil
}

// Header returns the declared column names in source order.
func (r *Reader) Header() []string {
	return r.header
}

// NextBatch reads up to batchSize rows and keys each by column name.
// The final batch may be shorter than batchSize. Once the source is
// exhausted it returns (nil, io.EOF). A read failure mid-stream returns
// a STREAM_ERROR and aborts the sequence; batches already returned
// remain valid.
func (r *Reader) NextBatch(batchSize int) ([]RawRow, error) {
	if r.done {
		return nil, io.EOF
	}

	batch := make([]RawRow, 0, batchSize)
	for len(batch) < batchSize {
		record, err := r.csv.Read()
		if err == io.EOF {
			r.done = true
			r.file.Close()
			if len(batch) == 0 {
				return nil, io.EOF
			}
			return batch, nil
		}
		if err != nil {
			r.done = true
			r.file.Close()
			return nil, errors.Stream("read failure mid-source", err).
				WithContext("path", r.path).
				WithContext("rows_read", r.rows)
		}

		row := make(RawRow, len(r.header))
		for i, name := range r.header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		batch = append(batch, row)
		r.rows++
	}
	return batch, nil
}

// Rows returns the number of rows yielded so far, header excluded.
func (r *Reader) Rows() int {
	return r.rows
}

// Close releases the underlying file. Safe to call after exhaustion.
func (r *Reader) Close() error {
	if r.done {
		return nil
	}
	r.done = true
	return r.file.Close()
}
