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

// Package mem is an in-memory blob storage used by tests and
// single-process setups.
package mem

import "sync"

// Storage is a concurrency-safe in-memory blob storage
type Storage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// New creates an empty in-memory storage
func New() *Storage {
	return &Storage{blobs: make(map[string][]byte)}
}

// Save persists data under blobID, overwriting any existing blob
func (s *Storage) Save(blobID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[blobID] = cp
	return nil
}

// Load retrieves the bytes stored under blobID, found=false if absent
func (s *Storage) Load(blobID string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.blobs[blobID]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, true, nil
}

// Exist checks existence of a blob
func (s *Storage) Exist(blobID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.blobs[blobID]
	return ok, nil
}

// Delete removes a blob, reporting whether it existed
func (s *Storage) Delete(blobID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.blobs[blobID]
	delete(s.blobs, blobID)
	return ok, nil
}

// Count reports how many blobs are currently stored
func (s *Storage) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs), nil
}

// List returns the ids of every stored blob
func (s *Storage) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.blobs))
	for id := range s.blobs {
		ids = append(ids, id)
	}
	return ids, nil
}
