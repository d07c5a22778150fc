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

package encryptor

// KeySize is the length in bytes of every symmetric key in the system,
// both per-document keys and node keys
const KeySize = 32

// Encryptor is an abstraction of authenticated symmetric encryption.
// Implementations hold no mutable state and are safe for concurrent use.
// Ciphertext is self-contained: whatever nonce is needed for decryption
// travels inside the ciphertext, callers never manage nonces.
type Encryptor interface {
	// GenerateKey produces a fresh random KeySize-byte key
	GenerateKey() ([]byte, error)

	// Encrypt seals plaintext under key.
	// Two calls with the same inputs yield different ciphertext.
	Encrypt(key, plaintext []byte) ([]byte, error)

	// Decrypt opens ciphertext produced by Encrypt.
	// Fails with ErrCodeCipher if the ciphertext was tampered with
	// or key is not the one used to encrypt,
	// and with ErrCodeKeyLength if key is not KeySize bytes.
	Decrypt(key, ciphertext []byte) ([]byte, error)
}
