package tsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadAll parses every row from r. Rows with a different field count than
// the first row are rejected, so a torn or merged row is an error.
func ReadAll(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return rows, nil
}

// ReadFile parses every row of the file at path.
func ReadFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAll(f)
}
