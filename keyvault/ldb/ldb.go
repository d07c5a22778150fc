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

package ldb

import (
	"crypto/rand"
	"io"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/IzzyFuller/Quloud/errorx"
)

const dbName = "keyvaultDB"

// Vault keeps per-document keys in a levelDB under the given root.
// LevelDB never updates an SSTable in place, so shredding writes a
// random-bytes tombstone value before the delete; the original key bytes
// still age out only at compaction, which is the same best-effort bound
// the filesystem backing has for journaled writes.
type Vault struct {
	root string
	db   *leveldb.DB
}

// New opens (or creates) the key vault levelDB
func New(root string) (*Vault, error) {
	f := filepath.Join(root, dbName)
	db, err := leveldb.OpenFile(f, nil)
	if err != nil {
		return nil, errorx.NewCode(err, errorx.ErrCodeInternal, "cannot open leveldb")
	}

	return &Vault{
		root: root,
		db:   db,
	}, nil
}

// StoreKey persists key for blobID, overwriting any prior key
func (v *Vault) StoreKey(blobID string, key []byte) error {
	if err := v.db.Put([]byte(blobID), key, nil); err != nil {
		return errorx.NewCode(err, errorx.ErrCodeInternal, "failed to put key")
	}
	return nil
}

// RetrieveKey loads the key for blobID, found=false if absent
func (v *Vault) RetrieveKey(blobID string) ([]byte, bool, error) {
	key, err := v.db.Get([]byte(blobID), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errorx.NewCode(err, errorx.ErrCodeInternal, "failed to get key")
	}
	return key, true, nil
}

// ShredKey overwrites the stored value with random bytes, then deletes
// the entry. Absent key is a no-op.
func (v *Vault) ShredKey(blobID string) error {
	id := []byte(blobID)

	key, err := v.db.Get(id, nil)
	if err == leveldb.ErrNotFound {
		return nil
	}
	if err != nil {
		return errorx.NewCode(err, errorx.ErrCodeInternal, "failed to get key")
	}

	garbage := make([]byte, len(key))
	if _, err := io.ReadFull(rand.Reader, garbage); err != nil {
		return errorx.NewCode(err, errorx.ErrCodeInternal, "failed to read random bytes")
	}

	// overwrite must land before the delete
	if err := v.db.Put(id, garbage, nil); err != nil {
		return errorx.NewCode(err, errorx.ErrCodeInternal, "failed to overwrite key")
	}
	if err := v.db.Delete(id, nil); err != nil {
		return errorx.NewCode(err, errorx.ErrCodeInternal, "failed to delete key")
	}
	return nil
}

// Close releases the underlying levelDB
func (v *Vault) Close() error {
	return v.db.Close()
}
