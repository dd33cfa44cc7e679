package model

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// SaveModel serializes m to path using encoding/gob. Models that define
// MarshalBinary control their own wire format, so a round trip through
// SaveModel/LoadModel is bit-stable.
func SaveModel(m interface{}, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return SaveModelToWriter(m, file)
}

// SaveModelToWriter serializes m to w using encoding/gob.
func SaveModelToWriter(m interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return nil
}

// LoadModel deserializes the model at path into m, which must be a
// pointer to the same concrete type that was saved.
func LoadModel(m interface{}, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open model file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return LoadModelFromReader(m, file)
}

// LoadModelFromReader deserializes a model from r into m.
func LoadModelFromReader(m interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(m); err != nil {
		return fmt.Errorf("failed to decode model: %w", err)
	}
	return nil
}
