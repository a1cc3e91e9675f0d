package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	MetaFileSuffix = ".meta.json"
	metaVersion    = 1
)

// Layout is the set of sizes a page file was written with. Any later reader
// of the file must agree on every field.
type Layout struct {
	PageSize  int `json:"page_size"`
	PtrSize   int `json:"ptr_size"`
	KeySize   int `json:"key_size"`
	ValueSize int `json:"value_size"`
}

// Meta is the JSON side file stored next to a page file.
type Meta struct {
	Version int       `json:"version"`
	StoreID uuid.UUID `json:"store_id"`
	Layout
}

// MetaPath returns the meta file path for a page file.
func MetaPath(dataPath string) string {
	return dataPath + MetaFileSuffix
}

// LoadOrCreateMeta reads the meta file at path, creating it with a fresh
// store id when it does not exist. An existing file whose layout differs
// from want fails with ErrLayoutMismatch.
func LoadOrCreateMeta(path string, want Layout) (Meta, bool, error) {
	m, err := LoadMeta(path, want)
	if errors.Is(err, ErrStoreNotFound) {
		m = Meta{
			Version: metaVersion,
			StoreID: uuid.New(),
			Layout:  want,
		}
		if err := SaveMeta(path, m); err != nil {
			return Meta{}, false, err
		}
		slog.Debug("storage.meta.created", "path", path, "storeID", m.StoreID)
		return m, true, nil
	}
	if err != nil {
		return Meta{}, false, err
	}
	return m, false, nil
}

// LoadMeta reads an existing meta file. A missing file fails with
// ErrStoreNotFound and nothing is created.
func LoadMeta(path string, want Layout) (Meta, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Meta{}, fmt.Errorf("%w: %s", ErrStoreNotFound, path)
	}
	if err != nil {
		return Meta{}, fmt.Errorf("read meta: %w", err)
	}

	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return Meta{}, fmt.Errorf("decode meta %s: %w", path, err)
	}
	if m.Version <= 0 {
		m.Version = metaVersion
	}
	if m.Layout != want {
		return Meta{}, fmt.Errorf("%w: file has %+v, build has %+v", ErrLayoutMismatch, m.Layout, want)
	}
	return m, nil
}

// SaveMeta writes m to path atomically.
func SaveMeta(path string, m Meta) error {
	data, err := json.MarshalIndent(&m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), FileMode0755); err != nil {
		return err
	}
	return writeFileAtomic(path, data, FileMode0644)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	ok := false
	defer func() {
		_ = tmp.Close()
		if !ok {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("atomic rename: %w", err)
	}

	ok = true
	return nil
}
