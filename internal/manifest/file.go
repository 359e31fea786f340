package manifest

import (
	"fmt"
	"os"
)

// FileName is the manifest file name inside a mod directory.
const FileName = "manifest.json"

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return m, nil
}

// Save writes m to path in the current schema, replacing any existing file.
func Save(path string, m *Manifest) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Create writes m to path in the current schema. It fails if path already exists.
func Create(path string, m *Manifest) (err error) {
	data, err := Encode(m)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("creating manifest: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing manifest: %w", cerr)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
