package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Decode reads a JSON catalog document.
func Decode(r io.Reader) (*Catalog, error) {
	var data Data
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(data), nil
}

// LoadFile reads a JSON catalog document from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Encode writes c as a JSON document.
func Encode(w io.Writer, c *Catalog) error {
	if err := json.NewEncoder(w).Encode(c.Data()); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return nil
}
