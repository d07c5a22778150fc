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

// Package types holds the response bodies of the node HTTP api
package types

// StoreResponse answers a blob upload
type StoreResponse struct {
	BlobID string `json:"blob_id"`
	// Acked is how many storage nodes confirmed the replica before the
	// response timeout
	Acked int `json:"acked"`
}

// DeleteResponse answers a blob erasure
type DeleteResponse struct {
	BlobID string `json:"blob_id"`
}

// ChallengeResponse answers a proof-of-storage challenge round
type ChallengeResponse struct {
	BlobID string `json:"blob_id"`
	// Verified is whether the network's proof matched the local copy
	Verified bool `json:"verified"`
}

// StatusResponse describes the running node
type StatusResponse struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	BlobCount int    `json:"blob_count"`
	StartedAt string `json:"started_at"`
}
