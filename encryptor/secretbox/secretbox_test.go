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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IzzyFuller/Quloud/errorx"
)

func TestRoundTrip(t *testing.T) {
	box := New()
	key, err := box.GenerateKey()
	require.NoError(t, err)
	require.Len(t, key, 32)

	plaintext := []byte("some stored document content")

	ciphertext, err := box.Encrypt(key, plaintext)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, ciphertext)

	recovered, err := box.Decrypt(key, ciphertext)
	require.NoError(t, err)
	require.Equal(t, plaintext, recovered)
}

func TestRoundTripEmpty(t *testing.T) {
	box := New()
	key, err := box.GenerateKey()
	require.NoError(t, err)

	ciphertext, err := box.Encrypt(key, []byte{})
	require.NoError(t, err)

	recovered, err := box.Decrypt(key, ciphertext)
	require.NoError(t, err)
	require.Empty(t, recovered)
}

func TestFreshNonce(t *testing.T) {
	box := New()
	key, err := box.GenerateKey()
	require.NoError(t, err)

	plaintext := []byte("same plaintext twice")

	c1, err := box.Encrypt(key, plaintext)
	require.NoError(t, err)
	c2, err := box.Encrypt(key, plaintext)
	require.NoError(t, err)

	// semantic security: same inputs never repeat on the wire
	require.NotEqual(t, c1, c2)

	p1, err := box.Decrypt(key, c1)
	require.NoError(t, err)
	p2, err := box.Decrypt(key, c2)
	require.NoError(t, err)
	require.Equal(t, plaintext, p1)
	require.Equal(t, plaintext, p2)
}

func TestGenerateKeyIndependent(t *testing.T) {
	box := New()
	k1, err := box.GenerateKey()
	require.NoError(t, err)
	k2, err := box.GenerateKey()
	require.NoError(t, err)
	require.NotEqual(t, k1, k2)
}

func TestTamperDetection(t *testing.T) {
	box := New()
	key, err := box.GenerateKey()
	require.NoError(t, err)

	ciphertext, err := box.Encrypt(key, []byte("integrity protected"))
	require.NoError(t, err)

	for i := range ciphertext {
		mutated := make([]byte, len(ciphertext))
		copy(mutated, ciphertext)
		mutated[i] ^= 0x01

		_, err := box.Decrypt(key, mutated)
		require.Error(t, err)
		require.True(t, errorx.Is(err, errorx.ErrCodeCipher))
	}
}

func TestWrongKeyRejected(t *testing.T) {
	box := New()
	k1, err := box.GenerateKey()
	require.NoError(t, err)
	k2, err := box.GenerateKey()
	require.NoError(t, err)

	ciphertext, err := box.Encrypt(k1, []byte("for k1 only"))
	require.NoError(t, err)

	_, err = box.Decrypt(k2, ciphertext)
	require.Error(t, err)
	require.True(t, errorx.Is(err, errorx.ErrCodeCipher))
}

func TestKeyLengthChecked(t *testing.T) {
	box := New()

	_, err := box.Encrypt([]byte("short"), []byte("data"))
	require.Error(t, err)
	require.True(t, errorx.Is(err, errorx.ErrCodeKeyLength))

	_, err = box.Decrypt(make([]byte, 33), make([]byte, 64))
	require.Error(t, err)
	require.True(t, errorx.Is(err, errorx.ErrCodeKeyLength))
}

func TestTruncatedCiphertext(t *testing.T) {
	box := New()
	key, err := box.GenerateKey()
	require.NoError(t, err)

	_, err = box.Decrypt(key, []byte("way too short"))
	require.Error(t, err)
	require.True(t, errorx.Is(err, errorx.ErrCodeCipher))
}
