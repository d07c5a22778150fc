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

// Package owner implements the data owner side of the network: it seals
// blobs under owner keys before anything leaves the process, replicates
// the sealed form to storage nodes, challenges them for proofs of
// storage, and erases blobs everywhere by shredding keys first.
package owner

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/IzzyFuller/Quloud/encryptor"
	"github.com/IzzyFuller/Quloud/errorx"
	"github.com/IzzyFuller/Quloud/keyvault"
	"github.com/IzzyFuller/Quloud/proof"
	"github.com/IzzyFuller/Quloud/protocol"
	"github.com/IzzyFuller/Quloud/pubsub"
	"github.com/IzzyFuller/Quloud/storage"
)

var logger = logrus.WithField("module", "owner")

// DefaultResponseTimeout bounds how long network calls wait for answers
// when the caller does not configure a timeout
const DefaultResponseTimeout = 10 * time.Second

// NewClientOption contains everything a Client needs at construction
type NewClientOption struct {
	Encryptor encryptor.Encryptor
	Storage   storage.BlobStorage
	Vault     keyvault.Vault
	Bus       pubsub.Bus

	// ResponseTimeout bounds waits on response queues, 0 means default
	ResponseTimeout time.Duration
}

// Client is a data owner node's view of the storage network.
// Every blob it ships out is already sealed under an owner key held only
// in the local vault, storage nodes never see plaintext.
type Client struct {
	enc     encryptor.Encryptor
	store   storage.BlobStorage
	vault   keyvault.Vault
	bus     pubsub.Bus
	timeout time.Duration

	storeAcks *inbox[protocol.StoreResponse]
	retrieves *inbox[protocol.RetrieveResponse]
	proofs    *inbox[protocol.ProofResponse]
}

// NewClient initiates a Client
func NewClient(opt *NewClientOption) (*Client, error) {
	if opt.Encryptor == nil || opt.Storage == nil || opt.Vault == nil || opt.Bus == nil {
		return nil, errorx.New(errorx.ErrCodeConfig, "owner client misses a collaborator")
	}

	timeout := opt.ResponseTimeout
	if timeout <= 0 {
		timeout = DefaultResponseTimeout
	}

	return &Client{
		enc:       opt.Encryptor,
		store:     opt.Storage,
		vault:     opt.Vault,
		bus:       opt.Bus,
		timeout:   timeout,
		storeAcks: newInbox[protocol.StoreResponse](),
		retrieves: newInbox[protocol.RetrieveResponse](),
		proofs:    newInbox[protocol.ProofResponse](),
	}, nil
}

// Start spawns one consumer per response queue and returns.
// Consumers stop when ctx is cancelled.
func (c *Client) Start(ctx context.Context) error {
	consumers := map[string]pubsub.Handler{
		protocol.QueueStoreResponses:    c.onStoreResponse,
		protocol.QueueRetrieveResponses: c.onRetrieveResponse,
		protocol.QueueProofResponses:    c.onProofResponse,
	}
	for queue, handle := range consumers {
		queue, handle := queue, handle
		go func() {
			if err := pubsub.Consume(ctx, c.bus, queue, handle); err != nil && err != context.Canceled {
				logger.WithError(err).WithField("queue", queue).Error("consumer stopped")
			}
		}()
	}

	logger.Info("owner client started")
	return nil
}

func (c *Client) onStoreResponse(body []byte) {
	var m protocol.StoreResponse
	if err := protocol.Unmarshal(body, protocol.MsgStoreResponse, &m); err != nil {
		logger.WithError(err).Debug("dropping malformed store response")
		return
	}
	c.storeAcks.deliver(m.BlobID, m)
}

func (c *Client) onRetrieveResponse(body []byte) {
	var m protocol.RetrieveResponse
	if err := protocol.Unmarshal(body, protocol.MsgRetrieveResponse, &m); err != nil {
		logger.WithError(err).Debug("dropping malformed retrieve response")
		return
	}
	c.retrieves.deliver(m.BlobID, m)
}

func (c *Client) onProofResponse(body []byte) {
	var m protocol.ProofResponse
	if err := protocol.Unmarshal(body, protocol.MsgProofResponse, &m); err != nil {
		logger.WithError(err).Debug("dropping malformed proof response")
		return
	}
	c.proofs.deliver(m.BlobID, m)
}

// StoreBlob seals data under a fresh owner key, persists the sealed form
// and its key locally, then replicates the sealed form to the network.
// It returns how many storage acknowledgments arrived before the
// response timeout; fewer than replicas is degraded redundancy, not an
// error. The local copy is durable either way.
func (c *Client) StoreBlob(ctx context.Context, blobID string, data []byte, replicas int) (int, error) {
	if replicas < 0 {
		return 0, errorx.New(errorx.ErrCodeParam, "negative replica count %d", replicas)
	}

	key, err := c.enc.GenerateKey()
	if err != nil {
		return 0, errorx.Wrap(err, "failed to generate owner key")
	}

	ciphertext, err := c.enc.Encrypt(key, data)
	if err != nil {
		return 0, errorx.Wrap(err, "failed to seal blob")
	}

	// sealed form lands before its key so the vault never points at a
	// blob that does not exist
	if err := c.store.Save(blobID, ciphertext); err != nil {
		return 0, errorx.Wrap(err, "failed to persist sealed blob")
	}
	if err := c.vault.StoreKey(blobID, key); err != nil {
		return 0, errorx.Wrap(err, "failed to persist owner key")
	}

	if replicas == 0 {
		return 0, nil
	}

	acks := c.storeAcks.expect(blobID, replicas)
	defer c.storeAcks.forget(blobID, acks)

	raw, err := protocol.Marshal(&protocol.StoreRequest{BlobID: blobID, Data: ciphertext})
	if err != nil {
		return 0, err
	}
	for i := 0; i < replicas; i++ {
		if err := c.bus.Publish(ctx, protocol.QueueStoreRequests, raw); err != nil {
			return 0, errorx.Wrap(err, "failed to publish store request")
		}
	}

	acked := 0
	deadline := time.NewTimer(c.timeout)
	defer deadline.Stop()
	for acked < replicas {
		select {
		case <-ctx.Done():
			return acked, errorx.NewCode(ctx.Err(), errorx.ErrCodeTimeout, "store wait cancelled")
		case <-deadline.C:
			logger.WithFields(logrus.Fields{
				"blob_id": blobID,
				"acked":   acked,
				"want":    replicas,
			}).Warn("store acknowledgments incomplete")
			return acked, nil
		case m := <-acks:
			if m.Stored {
				acked++
			}
		}
	}
	return acked, nil
}

// RetrieveBlob opens the locally held copy of a blob.
// found=false when either the sealed form or its key is absent; a blob
// whose key was shredded is gone even while ciphertext lingers somewhere.
func (c *Client) RetrieveBlob(blobID string) ([]byte, bool, error) {
	ciphertext, found, err := c.store.Load(blobID)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	key, found, err := c.vault.RetrieveKey(blobID)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	data, err := c.enc.Decrypt(key, ciphertext)
	if err != nil {
		return nil, false, errorx.Wrap(err, "sealed blob failed authentication")
	}
	return data, true, nil
}

// RestoreBlob fetches the sealed form back from the network after the
// local copy was lost, re-persists it, and returns the plaintext.
// The owner key must still be in the vault, without it the fetched bytes
// are unrecoverable noise and restoring is pointless.
func (c *Client) RestoreBlob(ctx context.Context, blobID string) ([]byte, error) {
	key, found, err := c.vault.RetrieveKey(blobID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errorx.Wrap(errorx.ErrNotFound, "no owner key for blob %s", blobID)
	}

	ch := c.retrieves.expect(blobID, 1)
	defer c.retrieves.forget(blobID, ch)

	raw, err := protocol.Marshal(&protocol.RetrieveRequest{BlobID: blobID})
	if err != nil {
		return nil, err
	}
	if err := c.bus.Publish(ctx, protocol.QueueRetrieveRequests, raw); err != nil {
		return nil, errorx.Wrap(err, "failed to publish retrieve request")
	}

	m, err := await(ctx, ch, c.timeout)
	if err != nil {
		return nil, err
	}
	if !m.Found {
		return nil, errorx.Wrap(errorx.ErrNotFound, "network holds no copy of blob %s", blobID)
	}

	// authenticate before re-persisting, a node cannot feed us garbage
	data, err := c.enc.Decrypt(key, m.Data)
	if err != nil {
		return nil, errorx.Wrap(err, "restored blob failed authentication")
	}

	if err := c.store.Save(blobID, m.Data); err != nil {
		return nil, errorx.Wrap(err, "failed to re-persist restored blob")
	}
	return data, nil
}

// ExpectedProof computes the proof digest a faithful storage node must
// answer for blobID and seed, from the locally held sealed form.
// found=false when no local copy exists to verify against.
func (c *Client) ExpectedProof(blobID string, seed []byte) ([]byte, bool, error) {
	ciphertext, found, err := c.store.Load(blobID)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return proof.Compute(ciphertext, seed), true, nil
}

// RequestProof challenges the network to prove possession of blobID
// under seed and returns the first answer
func (c *Client) RequestProof(ctx context.Context, blobID string, seed []byte) (*protocol.ProofResponse, error) {
	ch := c.proofs.expect(blobID, 1)
	defer c.proofs.forget(blobID, ch)

	raw, err := protocol.Marshal(&protocol.ProofRequest{BlobID: blobID, Seed: seed})
	if err != nil {
		return nil, err
	}
	if err := c.bus.Publish(ctx, protocol.QueueProofRequests, raw); err != nil {
		return nil, errorx.Wrap(err, "failed to publish proof request")
	}

	m, err := await(ctx, ch, c.timeout)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// VerifyRemote challenges the network with a fresh seed and checks the
// answer against the locally held sealed form. ok=false means the
// answering node does not hold the bytes it should.
func (c *Client) VerifyRemote(ctx context.Context, blobID string) (bool, error) {
	seed, err := proof.NewSeed()
	if err != nil {
		return false, err
	}

	ciphertext, found, err := c.store.Load(blobID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, errorx.Wrap(errorx.ErrNotFound, "no local copy of blob %s to verify against", blobID)
	}

	resp, err := c.RequestProof(ctx, blobID, seed)
	if err != nil {
		return false, err
	}
	if !resp.Found {
		return false, nil
	}
	return proof.Verify(ciphertext, seed, resp.Proof), nil
}

// DeleteBlob erases a blob everywhere. The local key is shredded first,
// which is the erasure of record: once it is gone no surviving
// ciphertext anywhere can ever be opened. Removing local data and
// broadcasting the delete are cleanup. Idempotent, and fire-and-forget
// toward the network by design of the protocol.
func (c *Client) DeleteBlob(ctx context.Context, blobID string) error {
	if err := c.vault.ShredKey(blobID); err != nil {
		return errorx.Wrap(err, "failed to shred owner key")
	}
	if _, err := c.store.Delete(blobID); err != nil {
		return errorx.Wrap(err, "failed to delete local sealed blob")
	}

	raw, err := protocol.Marshal(&protocol.DeleteRequest{BlobID: blobID})
	if err != nil {
		return err
	}
	if err := c.bus.Publish(ctx, protocol.QueueDeleteRequests, raw); err != nil {
		return errorx.Wrap(err, "failed to publish delete request")
	}
	return nil
}

// BlobCount reports how many sealed blobs are currently held locally
func (c *Client) BlobCount() (int, error) {
	return c.store.Count()
}

// LocalBlobs lists the ids of every locally held sealed blob
func (c *Client) LocalBlobs() ([]string, error) {
	return c.store.List()
}

// await blocks until ch yields a value, timeout passes, or ctx is cancelled
func await[T any](ctx context.Context, ch <-chan T, timeout time.Duration) (T, error) {
	var zero T
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	select {
	case <-ctx.Done():
		return zero, errorx.NewCode(ctx.Err(), errorx.ErrCodeTimeout, "response wait cancelled")
	case <-deadline.C:
		return zero, errorx.New(errorx.ErrCodeTimeout, "timed out waiting for response")
	case v := <-ch:
		return v, nil
	}
}
