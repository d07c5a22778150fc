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
	"crypto/rand"
	"io"
	"os"
	"path/filepath"

	"github.com/IzzyFuller/Quloud/errorx"
	"github.com/IzzyFuller/Quloud/pkgs/file"
)

const keySuffix = ".key"

// Vault keeps per-document keys on the local filesystem,
// one file per blob at {RootPath}/{blobID}.key
type Vault struct {
	RootPath string
}

// New creates Vault with given configuration(local path)
// returns error if any mistake occured, and process should cease
func New(rootPath string) (*Vault, error) {
	if len(rootPath) == 0 {
		return nil, errorx.New(errorx.ErrCodeConfig, "missing key vault path")
	}

	if err := os.MkdirAll(rootPath, 0700); err != nil {
		return nil, errorx.NewCode(err, errorx.ErrCodeConfig, "failed to mkdir for key vault")
	}

	return &Vault{RootPath: rootPath}, nil
}

// StoreKey persists key for blobID, overwriting any prior key
func (v *Vault) StoreKey(blobID string, key []byte) error {
	path, err := v.keyPath(blobID)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, key, 0600); err != nil {
		return errorx.NewCode(err, errorx.ErrCodeInternal, "failed to write key file")
	}
	return nil
}

// RetrieveKey loads the key for blobID, found=false if absent
func (v *Vault) RetrieveKey(blobID string) ([]byte, bool, error) {
	path, err := v.keyPath(blobID)
	if err != nil {
		return nil, false, err
	}

	key, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errorx.NewCode(err, errorx.ErrCodeInternal, "failed to read key file")
	}
	return key, true, nil
}

// ShredKey overwrites the key file in place with random bytes, syncs,
// then unlinks it. Absent key is a no-op.
// The overwrite must complete before the unlink: removing first could
// leave recoverable key material in freed blocks.
func (v *Vault) ShredKey(blobID string) error {
	path, err := v.keyPath(blobID)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errorx.NewCode(err, errorx.ErrCodeInternal, "failed to stat key file")
	}

	if err := overwriteRandom(path, info.Size()); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errorx.NewCode(err, errorx.ErrCodeInternal, "failed to remove key file")
	}
	return nil
}

func (v *Vault) keyPath(blobID string) (string, error) {
	if !file.IsValidID(blobID) {
		return "", errorx.New(errorx.ErrCodeParam, "invalid blob id: %s", blobID)
	}
	return filepath.Join(v.RootPath, blobID+keySuffix), nil
}

func overwriteRandom(path string, size int64) error {
	garbage := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, garbage); err != nil {
		return errorx.NewCode(err, errorx.ErrCodeInternal, "failed to read random bytes")
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0600)
	if err != nil {
		return errorx.NewCode(err, errorx.ErrCodeInternal, "failed to open key file for shredding")
	}
	defer f.Close()

	if _, err := f.WriteAt(garbage, 0); err != nil {
		return errorx.NewCode(err, errorx.ErrCodeInternal, "failed to overwrite key file")
	}
	if err := f.Sync(); err != nil {
		return errorx.NewCode(err, errorx.ErrCodeInternal, "failed to sync shredded key file")
	}
	return nil
}
