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

package protocol

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreRequestWireFormat(t *testing.T) {
	raw, err := Marshal(&StoreRequest{BlobID: "b1", Data: []byte("hello")})
	require.NoError(t, err)

	// binary fields are base64 strings on the wire
	var onWire map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &onWire))
	require.Equal(t, "store_request", onWire["type"])
	require.Equal(t, "b1", onWire["blob_id"])
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte("hello")), onWire["data"])

	var back StoreRequest
	require.NoError(t, Unmarshal(raw, MsgStoreRequest, &back))
	require.Equal(t, "b1", back.BlobID)
	require.Equal(t, []byte("hello"), back.Data)
}

func TestAbsentBinaryFieldIsNull(t *testing.T) {
	raw, err := Marshal(&RetrieveResponse{BlobID: "b1", NodeID: "n1", Found: false})
	require.NoError(t, err)

	var onWire map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &onWire))
	require.Nil(t, onWire["data"])
	require.Equal(t, false, onWire["found"])
}

func TestMessageType(t *testing.T) {
	raw, err := Marshal(&ProofRequest{BlobID: "b2", Seed: []byte("xyz")})
	require.NoError(t, err)

	typ, ok := MessageType(raw)
	require.True(t, ok)
	require.Equal(t, MsgProofRequest, typ)

	_, ok = MessageType([]byte("not json at all"))
	require.False(t, ok)

	_, ok = MessageType([]byte(`{"blob_id":"b1"}`))
	require.False(t, ok)
}

func TestUnmarshalRejectsWrongType(t *testing.T) {
	raw, err := Marshal(&DeleteRequest{BlobID: "b3"})
	require.NoError(t, err)

	var req StoreRequest
	require.Error(t, Unmarshal(raw, MsgStoreRequest, &req))

	var del DeleteRequest
	require.NoError(t, Unmarshal(raw, MsgDeleteRequest, &del))
	require.Equal(t, "b3", del.BlobID)
}

func TestRoundTripAllRecords(t *testing.T) {
	seed := []byte{0x00, 0x01, 0xff}

	raw, err := Marshal(&ProofResponse{BlobID: "b", NodeID: "n", Proof: seed, Found: true})
	require.NoError(t, err)
	var pr ProofResponse
	require.NoError(t, Unmarshal(raw, MsgProofResponse, &pr))
	require.Equal(t, seed, pr.Proof)
	require.True(t, pr.Found)

	raw, err = Marshal(&StoreResponse{BlobID: "b", NodeID: "n", Stored: true})
	require.NoError(t, err)
	var sr StoreResponse
	require.NoError(t, Unmarshal(raw, MsgStoreResponse, &sr))
	require.True(t, sr.Stored)
}
