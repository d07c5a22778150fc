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

package storage

// BlobStorage is an abstraction used to refer to any underlying system or
// device a node persists blobs to. It has no encryption awareness: it
// stores exactly the bytes given, keyed by a caller-supplied blob id.
type BlobStorage interface {
	// Save persists data under blobID, overwriting any existing blob
	Save(blobID string, data []byte) error

	// Load retrieves the bytes stored under blobID, found=false if absent
	Load(blobID string) (data []byte, found bool, err error)

	// Exist checks existence of a blob
	Exist(blobID string) (bool, error)

	// Delete removes a blob, reporting whether it existed.
	// Deleting an absent blob is not an error.
	Delete(blobID string) (bool, error)

	// Count reports how many blobs are currently stored
	Count() (int, error)

	// List returns the ids of every stored blob, in no particular order
	List() ([]string, error)
}
