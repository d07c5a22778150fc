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

package secretbox

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/IzzyFuller/Quloud/encryptor"
	"github.com/IzzyFuller/Quloud/errorx"
)

const (
	// NonceSize is the length of the random nonce prefixed to every ciphertext
	NonceSize = 24

	// Overhead is the length the Poly1305 authenticator adds to the plaintext
	Overhead = secretbox.Overhead
)

// Box seals and opens data with NaCl secretbox (XSalsa20-Poly1305).
// The nonce is drawn fresh from crypto/rand on every Encrypt and
// prepended to the ciphertext. Box is stateless.
type Box struct{}

// New creat a secretbox Encryptor
func New() *Box {
	return &Box{}
}

// GenerateKey produces a fresh random 32-byte key
func (b *Box) GenerateKey() ([]byte, error) {
	key := make([]byte, encryptor.KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, errorx.NewCode(err, errorx.ErrCodeInternal, "failed to read random key")
	}
	return key, nil
}

// Encrypt seals plaintext under key, returns nonce||box
func (b *Box) Encrypt(key, plaintext []byte) ([]byte, error) {
	k, err := checkKey(key)
	if err != nil {
		return nil, err
	}

	var nonce [NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, errorx.NewCode(err, errorx.ErrCodeInternal, "failed to read random nonce")
	}

	return secretbox.Seal(nonce[:], plaintext, &nonce, k), nil
}

// Decrypt opens nonce||box produced by Encrypt
func (b *Box) Decrypt(key, ciphertext []byte) ([]byte, error) {
	k, err := checkKey(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < NonceSize+Overhead {
		return nil, errorx.New(errorx.ErrCodeCipher, "ciphertext too short: %d bytes", len(ciphertext))
	}

	var nonce [NonceSize]byte
	copy(nonce[:], ciphertext[:NonceSize])

	plaintext, ok := secretbox.Open(nil, ciphertext[NonceSize:], &nonce, k)
	if !ok {
		return nil, errorx.New(errorx.ErrCodeCipher, "failed to open box, wrong key or corrupted ciphertext")
	}
	return plaintext, nil
}

func checkKey(key []byte) (*[encryptor.KeySize]byte, error) {
	if len(key) != encryptor.KeySize {
		return nil, errorx.New(errorx.ErrCodeKeyLength,
			"invalid key length: expected %d, got %d", encryptor.KeySize, len(key))
	}
	var k [encryptor.KeySize]byte
	copy(k[:], key)
	return &k, nil
}
