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

// Package protocol defines the message records exchanged between nodes.
//
// Records travel as JSON with a "type" tag; binary fields are base64
// strings on the wire (encoding/json's []byte representation). Messages
// are immutable once constructed and have no lifecycle beyond transport.
package protocol

import (
	"encoding/json"

	"github.com/IzzyFuller/Quloud/errorx"
)

// message type tags
const (
	MsgStoreRequest     = "store_request"
	MsgStoreResponse    = "store_response"
	MsgRetrieveRequest  = "retrieve_request"
	MsgRetrieveResponse = "retrieve_response"
	MsgProofRequest     = "proof_of_storage_request"
	MsgProofResponse    = "proof_of_storage_response"
	MsgDeleteRequest    = "delete_request"
)

// queue names, one request and (except delete) one response queue per
// request category
const (
	QueueStoreRequests     = "quloud.store.requests"
	QueueStoreResponses    = "quloud.store.responses"
	QueueRetrieveRequests  = "quloud.retrieve.requests"
	QueueRetrieveResponses = "quloud.retrieve.responses"
	QueueProofRequests     = "quloud.proof.requests"
	QueueProofResponses    = "quloud.proof.responses"
	QueueDeleteRequests    = "quloud.delete.requests"
)

// Queues lists every queue a deployment declares
var Queues = []string{
	QueueStoreRequests,
	QueueStoreResponses,
	QueueRetrieveRequests,
	QueueRetrieveResponses,
	QueueProofRequests,
	QueueProofResponses,
	QueueDeleteRequests,
}

// StoreRequest asks a node to store a blob
type StoreRequest struct {
	Type   string `json:"type"`
	BlobID string `json:"blob_id"`
	Data   []byte `json:"data"`
}

// StoreResponse confirms a node stored a blob
type StoreResponse struct {
	Type   string `json:"type"`
	BlobID string `json:"blob_id"`
	NodeID string `json:"node_id"`
	Stored bool   `json:"stored"`
}

// RetrieveRequest asks a node for a blob
type RetrieveRequest struct {
	Type   string `json:"type"`
	BlobID string `json:"blob_id"`
}

// RetrieveResponse carries a blob back, or found=false
type RetrieveResponse struct {
	Type   string `json:"type"`
	BlobID string `json:"blob_id"`
	NodeID string `json:"node_id"`
	Data   []byte `json:"data"`
	Found  bool   `json:"found"`
}

// ProofRequest challenges a node to prove it still holds a blob
type ProofRequest struct {
	Type   string `json:"type"`
	BlobID string `json:"blob_id"`
	Seed   []byte `json:"seed"`
}

// ProofResponse carries a proof digest back, or found=false
type ProofResponse struct {
	Type   string `json:"type"`
	BlobID string `json:"blob_id"`
	NodeID string `json:"node_id"`
	Proof  []byte `json:"proof"`
	Found  bool   `json:"found"`
}

// DeleteRequest asks every listening node to erase a blob.
// Intentionally anonymous: no node_id, and no response is ever published.
type DeleteRequest struct {
	Type   string `json:"type"`
	BlobID string `json:"blob_id"`
}

// MessageType peeks at the type tag of a raw message.
// ok=false means the bytes are not a wellformed record; callers treat
// that as noise on a shared channel, not as an application error.
func MessageType(raw []byte) (string, bool) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil || head.Type == "" {
		return "", false
	}
	return head.Type, true
}

// Marshal encodes a record, stamping its type tag
func Marshal(m interface{}) ([]byte, error) {
	switch v := m.(type) {
	case *StoreRequest:
		v.Type = MsgStoreRequest
	case *StoreResponse:
		v.Type = MsgStoreResponse
	case *RetrieveRequest:
		v.Type = MsgRetrieveRequest
	case *RetrieveResponse:
		v.Type = MsgRetrieveResponse
	case *ProofRequest:
		v.Type = MsgProofRequest
	case *ProofResponse:
		v.Type = MsgProofResponse
	case *DeleteRequest:
		v.Type = MsgDeleteRequest
	default:
		return nil, errorx.New(errorx.ErrCodeParam, "unknown message record %T", m)
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return nil, errorx.NewCode(err, errorx.ErrCodeEncoding, "failed to marshal message")
	}
	return raw, nil
}

// Unmarshal decodes raw into dst, checking the type tag matches wantType.
// Field validation beyond the tag stays with the handlers.
func Unmarshal(raw []byte, wantType string, dst interface{}) error {
	gotType, ok := MessageType(raw)
	if !ok {
		return errorx.New(errorx.ErrCodeEncoding, "malformed message")
	}
	if gotType != wantType {
		return errorx.New(errorx.ErrCodeEncoding, "unexpected message type %q, want %q", gotType, wantType)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errorx.NewCode(err, errorx.ErrCodeEncoding, "failed to unmarshal %s", wantType)
	}
	return nil
}
