// Copyright (c) 2024 Quloud Authors. All Rights Reserved.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package local

import (
	"os"
	"path/filepath"

	"github.com/IzzyFuller/Quloud/errorx"
	"github.com/IzzyFuller/Quloud/pkgs/file"
)

const blobSuffix = ".blob"

// Storage stores blobs locally, one file per blob at {RootPath}/{blobID}.blob
type Storage struct {
	RootPath string
}

// New creates Storage with given configuration(local path)
// returns error if any mistake occured, and process should cease
func New(rootPath string) (*Storage, error) {
	if len(rootPath) == 0 {
		return nil, errorx.New(errorx.ErrCodeConfig, "missing storage path")
	}

	if err := os.MkdirAll(rootPath, 0700); err != nil {
		return nil, errorx.NewCode(err, errorx.ErrCodeConfig, "failed to mkdir for storage")
	}

	return &Storage{RootPath: rootPath}, nil
}

// Save saves a blob to local, overwriting any existing one
func (s *Storage) Save(blobID string, data []byte) error {
	path, err := s.blobPath(blobID)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return errorx.NewCode(err, errorx.ErrCodeInternal, "failed to write blob")
	}
	return nil
}

// Load retrieves a blob from local
func (s *Storage) Load(blobID string) ([]byte, bool, error) {
	path, err := s.blobPath(blobID)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errorx.NewCode(err, errorx.ErrCodeInternal, "failed to read blob")
	}
	return data, true, nil
}

// Exist checks if a blob exists in local
func (s *Storage) Exist(blobID string) (bool, error) {
	path, err := s.blobPath(blobID)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errorx.NewCode(err, errorx.ErrCodeInternal, "failed to check blob")
}

// Delete removes a blob from local by id, false if it did not exist
func (s *Storage) Delete(blobID string) (bool, error) {
	path, err := s.blobPath(blobID)
	if err != nil {
		return false, err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errorx.NewCode(err, errorx.ErrCodeInternal, "failed to delete blob")
	}
	return true, nil
}

// Count reports how many blobs are currently stored
func (s *Storage) Count() (int, error) {
	matches, err := filepath.Glob(filepath.Join(s.RootPath, "*"+blobSuffix))
	if err != nil {
		return 0, errorx.NewCode(err, errorx.ErrCodeInternal, "failed to count blobs")
	}
	return len(matches), nil
}

// List returns the ids of every stored blob
func (s *Storage) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.RootPath, "*"+blobSuffix))
	if err != nil {
		return nil, errorx.NewCode(err, errorx.ErrCodeInternal, "failed to list blobs")
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		ids = append(ids, base[:len(base)-len(blobSuffix)])
	}
	return ids, nil
}

func (s *Storage) blobPath(blobID string) (string, error) {
	if !file.IsValidID(blobID) {
		return "", errorx.New(errorx.ErrCodeParam, "invalid blob id: %s", blobID)
	}
	return filepath.Join(s.RootPath, blobID+blobSuffix), nil
}
