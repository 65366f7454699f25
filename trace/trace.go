// Package trace reads and writes cache access traces. A trace is a CSV
// stream with one resolved access per record: set index, way index, and
// whether the access hit. Lines starting with '#' are comments.
package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// An Access is one resolved cache access. The enclosing cache has already
// determined the hit/miss outcome; Way is only meaningful for hits.
type Access struct {
	Set int
	Way int
	Hit bool
}

// A Reader reads accesses from a CSV stream.
type Reader struct {
	csv    *csv.Reader
	record int
}

// NewReader creates a Reader on the given stream.
func NewReader(r io.Reader) *Reader {
	c := csv.NewReader(r)
	c.FieldsPerRecord = 3
	c.Comment = '#'
	c.TrimLeadingSpace = true

	return &Reader{csv: c}
}

// Read returns the next access. It returns io.EOF at the end of the
// stream.
func (r *Reader) Read() (Access, error) {
	record, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return Access{}, io.EOF
		}

		return Access{}, fmt.Errorf("failed to read trace: %w", err)
	}

	r.record++

	set, err := strconv.Atoi(record[0])
	if err != nil {
		return Access{}, fmt.Errorf(
			"record %d: invalid set %q: %w", r.record, record[0], err)
	}

	way, err := strconv.Atoi(record[1])
	if err != nil {
		return Access{}, fmt.Errorf(
			"record %d: invalid way %q: %w", r.record, record[1], err)
	}

	hit, err := strconv.ParseBool(record[2])
	if err != nil {
		return Access{}, fmt.Errorf(
			"record %d: invalid hit flag %q: %w", r.record, record[2], err)
	}

	return Access{Set: set, Way: way, Hit: hit}, nil
}

// ReadAll returns all remaining accesses in the stream.
func (r *Reader) ReadAll() ([]Access, error) {
	var accesses []Access

	for {
		access, err := r.Read()
		if err == io.EOF {
			return accesses, nil
		}

		if err != nil {
			return nil, err
		}

		accesses = append(accesses, access)
	}
}

// ReadFile reads a whole trace file.
func ReadFile(path string) ([]Access, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer file.Close()

	return NewReader(file).ReadAll()
}

// A Writer writes accesses as a CSV stream.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer on the given stream.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// Write appends one access to the stream.
func (w *Writer) Write(access Access) error {
	hit := "0"
	if access.Hit {
		hit = "1"
	}

	return w.csv.Write([]string{
		strconv.Itoa(access.Set),
		strconv.Itoa(access.Way),
		hit,
	})
}

// Flush writes buffered records to the underlying stream.
func (w *Writer) Flush() error {
	w.csv.Flush()

	return w.csv.Error()
}
