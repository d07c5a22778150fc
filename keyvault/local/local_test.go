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
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreRetrieve(t *testing.T) {
	v, err := New(t.TempDir())
	require.NoError(t, err)

	key := []byte("0123456789abcdef0123456789abcdef")
	require.NoError(t, v.StoreKey("doc-1", key))

	got, found, err := v.RetrieveKey("doc-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, key, got)

	// overwrite
	key2 := []byte("fedcba9876543210fedcba9876543210")
	require.NoError(t, v.StoreKey("doc-1", key2))
	got, found, err = v.RetrieveKey("doc-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, key2, got)
}

func TestRetrieveAbsent(t *testing.T) {
	v, err := New(t.TempDir())
	require.NoError(t, err)

	got, found, err := v.RetrieveKey("nope")
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, got)
}

func TestShredRemovesKey(t *testing.T) {
	dir := t.TempDir()
	v, err := New(dir)
	require.NoError(t, err)

	key := []byte("0123456789abcdef0123456789abcdef")
	require.NoError(t, v.StoreKey("doc-1", key))

	// hold the inode open so the overwritten content stays observable
	// after the unlink
	f, err := os.Open(filepath.Join(dir, "doc-1.key"))
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, v.ShredKey("doc-1"))

	_, found, err := v.RetrieveKey("doc-1")
	require.NoError(t, err)
	require.False(t, found)

	remains, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Len(t, remains, len(key))
	require.NotEqual(t, key, remains)
}

func TestShredIdempotent(t *testing.T) {
	v, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, v.ShredKey("never-existed"))

	require.NoError(t, v.StoreKey("doc-1", []byte("0123456789abcdef0123456789abcdef")))
	require.NoError(t, v.ShredKey("doc-1"))
	require.NoError(t, v.ShredKey("doc-1"))
}

func TestRejectsUnsafeID(t *testing.T) {
	v, err := New(t.TempDir())
	require.NoError(t, err)

	require.Error(t, v.StoreKey("../escape", []byte("k")))
	_, _, err = v.RetrieveKey("a/b")
	require.Error(t, err)
	require.Error(t, v.ShredKey(""))
}
