// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Persistence loads and saves per-sensor parameters durably.
type Persistence interface {
	// Load returns the stored parameters and whether any exist. An absent
	// entry is not an error.
	Load(sensorID int) (Params, bool, error)
	Save(sensorID int, p Params) error
}

// FileStore keeps one JSON file per sensor under a directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created on
// the first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (f *FileStore) path(sensorID int) string {
	return filepath.Join(f.dir, fmt.Sprintf("sensor_%d_calibration.json", sensorID))
}

func (f *FileStore) Load(sensorID int) (Params, bool, error) {
	data, err := os.ReadFile(f.path(sensorID))
	if os.IsNotExist(err) {
		return Params{}, false, nil
	}
	if err != nil {
		return Params{}, false, fmt.Errorf("read calibration file: %w", err)
	}
	var p Params
	if err := json.Unmarshal(data, &p); err != nil {
		return Params{}, false, fmt.Errorf("parse calibration file: %w", err)
	}
	return p, true, nil
}

func (f *FileStore) Save(sensorID int, p Params) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("create calibration dir: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal calibration: %w", err)
	}
	if err := os.WriteFile(f.path(sensorID), data, 0644); err != nil {
		return fmt.Errorf("write calibration file: %w", err)
	}
	return nil
}
