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

// Package proof computes proof-of-storage digests.
//
// A proof is SHA256(data || seed) over the ciphertext layer the verifier
// holds a copy of. The seed is chosen fresh by the challenger per request,
// so a captured proof cannot be replayed to fake current possession.
package proof

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"github.com/IzzyFuller/Quloud/errorx"
)

// Size is the length in bytes of a proof digest
const Size = sha256.Size

// SeedSize is the length of seeds produced by NewSeed
const SeedSize = 32

// Compute returns SHA256(data || seed).
// Deterministic, any change in either input changes the digest.
func Compute(data, seed []byte) []byte {
	h := sha256.New()
	h.Write(data)
	h.Write(seed)
	return h.Sum(nil)
}

// Verify reports whether got is the proof over data and seed
func Verify(data, seed, got []byte) bool {
	if len(got) != Size {
		return false
	}
	want := Compute(data, seed)
	// proofs are not secrets, plain comparison is fine
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

// NewSeed draws a fresh random challenge seed
func NewSeed() ([]byte, error) {
	seed := make([]byte, SeedSize)
	if _, err := io.ReadFull(rand.Reader, seed); err != nil {
		return nil, errorx.NewCode(err, errorx.ErrCodeInternal, "failed to read random seed")
	}
	return seed, nil
}
