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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	data := []byte("opaque blob bytes")
	require.NoError(t, s.Save("b1", data))

	got, found, err := s.Load("b1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, data, got)

	exist, err := s.Exist("b1")
	require.NoError(t, err)
	require.True(t, exist)
}

func TestSaveOverwrites(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save("b1", []byte("first")))
	require.NoError(t, s.Save("b1", []byte("second")))

	got, found, err := s.Load("b1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("second"), got)
}

func TestLoadAbsent(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	got, found, err := s.Load("absent")
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, got)

	exist, err := s.Exist("absent")
	require.NoError(t, err)
	require.False(t, exist)
}

func TestDelete(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save("b1", []byte("bytes")))

	existed, err := s.Delete("b1")
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = s.Delete("b1")
	require.NoError(t, err)
	require.False(t, existed)

	_, found, err := s.Load("b1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRejectsUnsafeID(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.Error(t, s.Save("../../etc/passwd", []byte("x")))
	_, _, err = s.Load("a/b")
	require.Error(t, err)
}
