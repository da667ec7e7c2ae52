package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileKV keeps all keys in one JSON file, loaded on open and rewritten on
// every Set. Good enough for a single-user simulator; not safe for
// concurrent processes.
type FileKV struct {
	path string
	data map[string]string
}

func NewFileKV(path string) (*FileKV, error) {
	kv := &FileKV{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return kv, nil
		}
		return nil, fmt.Errorf("read kv file: %w", err)
	}

	if err := json.Unmarshal(raw, &kv.data); err != nil {
		// A corrupt file degrades to an empty store rather than
		// blocking startup; the next Set rewrites it.
		kv.data = make(map[string]string)
	}
	return kv, nil
}

func (kv *FileKV) Get(key string) (string, bool, error) {
	v, ok := kv.data[key]
	return v, ok, nil
}

func (kv *FileKV) Set(key, value string) error {
	kv.data[key] = value
	return kv.flush()
}

func (kv *FileKV) Clear() error {
	kv.data = make(map[string]string)
	return kv.flush()
}

func (kv *FileKV) flush() error {
	if dir := filepath.Dir(kv.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create kv dir: %w", err)
		}
	}
	raw, err := json.MarshalIndent(kv.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal kv: %w", err)
	}
	if err := os.WriteFile(kv.path, raw, 0o644); err != nil {
		return fmt.Errorf("write kv file: %w", err)
	}
	return nil
}
