package config

import "fmt"

// rawBytesProvider adapts an in-memory byte slice (already stripped of
// JSONC comments) into a koanf.Provider, mirroring the shape of koanf's
// own file.Provider but backed by memory instead of disk.
type rawBytesProvider struct {
	data []byte
}

func (p rawBytesProvider) ReadBytes() ([]byte, error) {
	return p.data, nil
}

func (p rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("rawBytesProvider: Read() unsupported, use ReadBytes()")
}
