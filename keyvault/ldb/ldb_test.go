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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreRetrieveShred(t *testing.T) {
	v, err := New(t.TempDir())
	require.NoError(t, err)
	defer v.Close()

	key := []byte("0123456789abcdef0123456789abcdef")
	require.NoError(t, v.StoreKey("doc-1", key))

	got, found, err := v.RetrieveKey("doc-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, key, got)

	require.NoError(t, v.ShredKey("doc-1"))

	_, found, err = v.RetrieveKey("doc-1")
	require.NoError(t, err)
	require.False(t, found)

	// idempotent
	require.NoError(t, v.ShredKey("doc-1"))
}

func TestRetrieveAbsent(t *testing.T) {
	v, err := New(t.TempDir())
	require.NoError(t, err)
	defer v.Close()

	_, found, err := v.RetrieveKey("nope")
	require.NoError(t, err)
	require.False(t, found)
}

func TestOverwrite(t *testing.T) {
	v, err := New(t.TempDir())
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.StoreKey("doc-1", []byte("first")))
	require.NoError(t, v.StoreKey("doc-1", []byte("second")))

	got, found, err := v.RetrieveKey("doc-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("second"), got)
}
