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

// Package keyvault defines durable storage of per-document symmetric keys.
//
// Deleting a key is crypto erasure: the deletion mechanism of record for a
// blob is destroying its key, physical blob removal is best-effort cleanup.
// Every backing must overwrite the stored key material with fresh random
// bytes of equal length before removing the entry, so the key cannot be
// recovered from undeleted storage blocks.
package keyvault

// Vault maps a blob identifier to its private symmetric key
type Vault interface {
	// StoreKey associates key with blobID, overwriting any prior association
	StoreKey(blobID string, key []byte) error

	// RetrieveKey returns the key for blobID, or found=false if absent.
	// Absence is not an error.
	RetrieveKey(blobID string) (key []byte, found bool, err error)

	// ShredKey overwrites the stored key material with random bytes of the
	// same length, then removes the entry. A no-op if the entry is absent.
	ShredKey(blobID string) error
}
