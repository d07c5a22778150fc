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

// Package engine runs a storage node: it consumes request messages from
// the bus, applies and strips the node's own encryption layer around the
// blob store, answers proof-of-storage challenges, and honors anonymous
// delete requests with crypto erasure.
package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/IzzyFuller/Quloud/encryptor"
	"github.com/IzzyFuller/Quloud/errorx"
	"github.com/IzzyFuller/Quloud/proof"
	"github.com/IzzyFuller/Quloud/protocol"
	"github.com/IzzyFuller/Quloud/pubsub"
	"github.com/IzzyFuller/Quloud/storage"
)

var logger = logrus.WithField("module", "engine")

// KeyLayer resolves which symmetric key the node wraps stored blobs with.
// The two deployment profiles (per-document, node-keyed) implement it;
// a deployment uses one profile consistently, never both.
type KeyLayer interface {
	// NewKey yields the key for a blob about to be stored.
	// It must not persist anything, CommitKey does that after the
	// ciphertext has landed.
	NewKey(blobID string) ([]byte, error)

	// CommitKey durably associates key with blobID
	CommitKey(blobID string, key []byte) error

	// LoadKey returns the key that opens the node's own layer of blobID,
	// found=false if the node holds no key for it
	LoadKey(blobID string) (key []byte, found bool, err error)

	// Shred irreversibly destroys blobID's key material.
	// A no-op where no per-blob key exists.
	Shred(blobID string) error

	// VerifiableLayer resolves stored ciphertext to the ciphertext layer
	// the challenger holds a copy of and will recompute the proof over
	VerifiableLayer(blobID string, stored []byte) ([]byte, error)
}

// NewEngineOption contains everything an engine needs at construction
type NewEngineOption struct {
	NodeID string

	Encryptor encryptor.Encryptor
	Storage   storage.BlobStorage
	Keys      KeyLayer
	Bus       pubsub.Bus
}

// Engine handles inbound storage-network requests for one node
type Engine struct {
	nodeID string

	enc   encryptor.Encryptor
	store storage.BlobStorage
	keys  KeyLayer
	bus   pubsub.Bus

	startedAt time.Time
}

// NewEngine initiates an Engine
func NewEngine(opt *NewEngineOption) (*Engine, error) {
	if opt.NodeID == "" {
		return nil, errorx.New(errorx.ErrCodeConfig, "missing node id")
	}
	if opt.Encryptor == nil || opt.Storage == nil || opt.Keys == nil || opt.Bus == nil {
		return nil, errorx.New(errorx.ErrCodeConfig, "engine misses a collaborator")
	}

	return &Engine{
		nodeID: opt.NodeID,
		enc:    opt.Encryptor,
		store:  opt.Storage,
		keys:   opt.Keys,
		bus:    opt.Bus,
	}, nil
}

// Start spawns one consumer per request category and returns.
// Consumers stop when ctx is cancelled.
func (e *Engine) Start(ctx context.Context) error {
	e.startedAt = time.Now()

	consumers := map[string]pubsub.Handler{
		protocol.QueueStoreRequests:    e.onStoreRequest(ctx),
		protocol.QueueRetrieveRequests: e.onRetrieveRequest(ctx),
		protocol.QueueProofRequests:    e.onProofRequest(ctx),
		protocol.QueueDeleteRequests:   e.onDeleteRequest,
	}
	for queue, handle := range consumers {
		queue, handle := queue, handle
		go func() {
			if err := pubsub.Consume(ctx, e.bus, queue, handle); err != nil && err != context.Canceled {
				logger.WithError(err).WithField("queue", queue).Error("consumer stopped")
			}
		}()
	}

	logger.WithField("node_id", e.nodeID).Info("engine started")
	return nil
}

// NodeID returns this node's identity on the network
func (e *Engine) NodeID() string {
	return e.nodeID
}

// StartedAt returns when Start was called
func (e *Engine) StartedAt() time.Time {
	return e.startedAt
}

// BlobCount reports how many blobs this node currently persists
func (e *Engine) BlobCount() (int, error) {
	return e.store.Count()
}

// Store wraps data in the node's own encryption layer and persists it.
// The ciphertext lands before the key is committed, so a key vault entry
// never points at a blob that does not exist.
func (e *Engine) Store(blobID string, data []byte) error {
	key, err := e.keys.NewKey(blobID)
	if err != nil {
		return errorx.Wrap(err, "failed to obtain store key")
	}

	ciphertext, err := e.enc.Encrypt(key, data)
	if err != nil {
		return errorx.Wrap(err, "failed to encrypt inbound blob")
	}

	if err := e.store.Save(blobID, ciphertext); err != nil {
		return errorx.Wrap(err, "failed to persist blob")
	}

	if err := e.keys.CommitKey(blobID, key); err != nil {
		return errorx.Wrap(err, "failed to persist blob key")
	}
	return nil
}

// Retrieve strips the node's own layer off a stored blob.
// found=false when either the blob or its key is absent; a blob whose
// key was shredded is gone even while its ciphertext lingers.
func (e *Engine) Retrieve(blobID string) ([]byte, bool, error) {
	ciphertext, found, err := e.store.Load(blobID)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	key, found, err := e.keys.LoadKey(blobID)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	// a node can always open data it sealed itself,
	// failure here means corruption and must surface loudly
	data, err := e.enc.Decrypt(key, ciphertext)
	if err != nil {
		return nil, false, errorx.Wrap(err, "stored blob failed authentication")
	}
	return data, true, nil
}

// ProvideProofOfStorage proves current possession of a blob.
// The digest is computed over the ciphertext layer the challenger holds,
// bound to the caller-supplied seed so captured proofs cannot be replayed.
func (e *Engine) ProvideProofOfStorage(blobID string, seed []byte) ([]byte, bool, error) {
	stored, found, err := e.store.Load(blobID)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	layer, err := e.keys.VerifiableLayer(blobID, stored)
	if err != nil {
		return nil, false, errorx.Wrap(err, "failed to resolve verifiable layer")
	}
	return proof.Compute(layer, seed), true, nil
}

// Delete erases a blob. The key is shredded before the data is removed:
// crypto erasure is the deletion mechanism of record, removing the
// ciphertext is best-effort cleanup. Idempotent.
func (e *Engine) Delete(blobID string) error {
	if err := e.keys.Shred(blobID); err != nil {
		return errorx.Wrap(err, "failed to shred blob key")
	}
	if _, err := e.store.Delete(blobID); err != nil {
		return errorx.Wrap(err, "failed to delete blob data")
	}
	return nil
}
