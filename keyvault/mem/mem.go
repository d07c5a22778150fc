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

// Package mem is an in-memory key vault used by tests and single-process
// setups. It records the shredding overwrite so tests can verify the
// crypto-erasure contract against the backing store.
package mem

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/IzzyFuller/Quloud/errorx"
)

// Vault is a concurrency-safe in-memory key vault
type Vault struct {
	mu   sync.Mutex
	keys map[string][]byte

	// lastShredded holds, per blob id, the random bytes the key material
	// was overwritten with before removal
	lastShredded map[string][]byte
}

// New creates an empty in-memory vault
func New() *Vault {
	return &Vault{
		keys:         make(map[string][]byte),
		lastShredded: make(map[string][]byte),
	}
}

// StoreKey associates key with blobID, overwriting any prior key
func (v *Vault) StoreKey(blobID string, key []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	cp := make([]byte, len(key))
	copy(cp, key)
	v.keys[blobID] = cp
	return nil
}

// RetrieveKey returns the key for blobID, found=false if absent
func (v *Vault) RetrieveKey(blobID string) ([]byte, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	key, ok := v.keys[blobID]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(key))
	copy(cp, key)
	return cp, true, nil
}

// ShredKey overwrites the stored slice with random bytes, then removes
// the entry. Absent key is a no-op.
func (v *Vault) ShredKey(blobID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	key, ok := v.keys[blobID]
	if !ok {
		return nil
	}

	// overwrite the very slice that held the key, not a copy
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return errorx.NewCode(err, errorx.ErrCodeInternal, "failed to read random bytes")
	}
	v.lastShredded[blobID] = key
	delete(v.keys, blobID)
	return nil
}

// ShreddedRemains returns what the key material for blobID was overwritten
// with during ShredKey, for erasure verification in tests
func (v *Vault) ShreddedRemains(blobID string) ([]byte, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	b, ok := v.lastShredded[blobID]
	return b, ok
}

// Len reports how many keys are currently stored
func (v *Vault) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.keys)
}
