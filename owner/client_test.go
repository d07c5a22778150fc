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

package owner

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IzzyFuller/Quloud/encryptor/secretbox"
	"github.com/IzzyFuller/Quloud/engine"
	"github.com/IzzyFuller/Quloud/errorx"
	kvmem "github.com/IzzyFuller/Quloud/keyvault/mem"
	"github.com/IzzyFuller/Quloud/proof"
	"github.com/IzzyFuller/Quloud/pubsub/inmem"
	stmem "github.com/IzzyFuller/Quloud/storage/mem"
)

const testTimeout = 3 * time.Second

// network bundles an owner client and one node-keyed storage node on a
// shared in-memory bus, mirroring the smallest real deployment
type network struct {
	client     *Client
	ownerStore *stmem.Storage
	ownerVault *kvmem.Vault

	nodeStore *stmem.Storage
	nodeKey   []byte
}

func newTestNetwork(t *testing.T) (context.Context, *network) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	enc := secretbox.New()
	bus := inmem.New()
	t.Cleanup(bus.Close)

	nodeKey, err := enc.GenerateKey()
	require.NoError(t, err)
	keys, err := engine.NewNodeKeys(nodeKey, enc)
	require.NoError(t, err)

	nodeStore := stmem.New()
	eng, err := engine.NewEngine(&engine.NewEngineOption{
		NodeID:    "storage-node-1",
		Encryptor: enc,
		Storage:   nodeStore,
		Keys:      keys,
		Bus:       bus,
	})
	require.NoError(t, err)
	require.NoError(t, eng.Start(ctx))

	ownerStore := stmem.New()
	ownerVault := kvmem.New()
	client, err := NewClient(&NewClientOption{
		Encryptor:       enc,
		Storage:         ownerStore,
		Vault:           ownerVault,
		Bus:             bus,
		ResponseTimeout: testTimeout,
	})
	require.NoError(t, err)
	require.NoError(t, client.Start(ctx))

	return ctx, &network{
		client:     client,
		ownerStore: ownerStore,
		ownerVault: ownerVault,
		nodeStore:  nodeStore,
		nodeKey:    nodeKey,
	}
}

func TestStoreBlobReplicatesAndAcks(t *testing.T) {
	ctx, n := newTestNetwork(t)

	acked, err := n.client.StoreBlob(ctx, "b1", []byte("family photos"), 2)
	require.NoError(t, err)
	require.Equal(t, 2, acked)

	stored, found, err := n.nodeStore.Load("b1")
	require.NoError(t, err)
	require.True(t, found)
	require.NotContains(t, string(stored), "family photos")
}

func TestStoreBlobLocalOnly(t *testing.T) {
	ctx, n := newTestNetwork(t)

	acked, err := n.client.StoreBlob(ctx, "b1", []byte("draft"), 0)
	require.NoError(t, err)
	require.Zero(t, acked)

	got, found, err := n.client.RetrieveBlob("b1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("draft"), got)

	exists, err := n.nodeStore.Exist("b1")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestStoreBlobNeverShipsPlaintext(t *testing.T) {
	ctx, n := newTestNetwork(t)

	plaintext := []byte("incriminating plaintext")
	acked, err := n.client.StoreBlob(ctx, "b1", plaintext, 1)
	require.NoError(t, err)
	require.Equal(t, 1, acked)

	sealed, found, err := n.ownerStore.Load("b1")
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, bytes.Contains(sealed, plaintext))

	shipped, found, err := n.nodeStore.Load("b1")
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, bytes.Contains(shipped, plaintext))
}

func TestStoreBlobAckTimeout(t *testing.T) {
	// no storage node on the bus, acks can never arrive
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	bus := inmem.New()
	t.Cleanup(bus.Close)

	client, err := NewClient(&NewClientOption{
		Encryptor:       secretbox.New(),
		Storage:         stmem.New(),
		Vault:           kvmem.New(),
		Bus:             bus,
		ResponseTimeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, client.Start(ctx))

	acked, err := client.StoreBlob(ctx, "b1", []byte("data"), 3)
	require.NoError(t, err)
	require.Zero(t, acked)

	// the local copy is durable regardless of replication
	got, found, err := client.RetrieveBlob("b1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("data"), got)
}

func TestRetrieveBlobAbsent(t *testing.T) {
	_, n := newTestNetwork(t)

	_, found, err := n.client.RetrieveBlob("nope")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRestoreBlobAfterLocalLoss(t *testing.T) {
	ctx, n := newTestNetwork(t)

	acked, err := n.client.StoreBlob(ctx, "b1", []byte("precious"), 1)
	require.NoError(t, err)
	require.Equal(t, 1, acked)

	// lose the local sealed copy but keep the key
	existed, err := n.ownerStore.Delete("b1")
	require.NoError(t, err)
	require.True(t, existed)

	got, err := n.client.RestoreBlob(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, []byte("precious"), got)

	got, found, err := n.client.RetrieveBlob("b1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("precious"), got)
}

func TestRestoreBlobWithoutKey(t *testing.T) {
	ctx, n := newTestNetwork(t)

	acked, err := n.client.StoreBlob(ctx, "b1", []byte("precious"), 1)
	require.NoError(t, err)
	require.Equal(t, 1, acked)

	require.NoError(t, n.ownerVault.ShredKey("b1"))

	_, err = n.client.RestoreBlob(ctx, "b1")
	require.Error(t, err)
	require.True(t, errorx.Is(err, errorx.ErrCodeNotFound))
}

func TestRestoreBlobNetworkHoldsNothing(t *testing.T) {
	ctx, n := newTestNetwork(t)

	_, err := n.client.StoreBlob(ctx, "b1", []byte("precious"), 0)
	require.NoError(t, err)

	_, err = n.client.RestoreBlob(ctx, "b1")
	require.Error(t, err)
	require.True(t, errorx.Is(err, errorx.ErrCodeNotFound))
}

func TestProofRoundTrip(t *testing.T) {
	ctx, n := newTestNetwork(t)

	acked, err := n.client.StoreBlob(ctx, "b1", []byte("audited"), 1)
	require.NoError(t, err)
	require.Equal(t, 1, acked)

	seed, err := proof.NewSeed()
	require.NoError(t, err)

	want, found, err := n.client.ExpectedProof("b1", seed)
	require.NoError(t, err)
	require.True(t, found)

	resp, err := n.client.RequestProof(ctx, "b1", seed)
	require.NoError(t, err)
	require.True(t, resp.Found)
	require.Equal(t, want, resp.Proof)

	ok, err := n.client.VerifyRemote(ctx, "b1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRemoteDetectsWrongBytes(t *testing.T) {
	ctx, n := newTestNetwork(t)

	acked, err := n.client.StoreBlob(ctx, "b1", []byte("audited"), 1)
	require.NoError(t, err)
	require.Equal(t, 1, acked)

	// swap the node's copy for a validly node-sealed wrong payload
	enc := secretbox.New()
	wrong, err := enc.Encrypt(n.nodeKey, []byte("not the sealed blob"))
	require.NoError(t, err)
	require.NoError(t, n.nodeStore.Save("b1", wrong))

	ok, err := n.client.VerifyRemote(ctx, "b1")
	require.NoError(t, err)
	require.False(t, ok)
}

// A storage node wired the way the daemon wires one, with a key layer
// bootstrapped from disk, must answer challenges the owner can verify.
func TestVerifyRemoteAgainstBootstrappedNode(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	enc := secretbox.New()
	bus := inmem.New()
	t.Cleanup(bus.Close)

	nodeKey, err := engine.BootstrapNodeKey(t.TempDir(), enc)
	require.NoError(t, err)
	keys, err := engine.NewNodeKeys(nodeKey, enc)
	require.NoError(t, err)

	eng, err := engine.NewEngine(&engine.NewEngineOption{
		NodeID:    "storage-node-1",
		Encryptor: enc,
		Storage:   stmem.New(),
		Keys:      keys,
		Bus:       bus,
	})
	require.NoError(t, err)
	require.NoError(t, eng.Start(ctx))

	client, err := NewClient(&NewClientOption{
		Encryptor:       enc,
		Storage:         stmem.New(),
		Vault:           kvmem.New(),
		Bus:             bus,
		ResponseTimeout: testTimeout,
	})
	require.NoError(t, err)
	require.NoError(t, client.Start(ctx))

	acked, err := client.StoreBlob(ctx, "b1", []byte("held faithfully"), 1)
	require.NoError(t, err)
	require.Equal(t, 1, acked)

	ok, err := client.VerifyRemote(ctx, "b1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRemoteNoLocalCopy(t *testing.T) {
	ctx, n := newTestNetwork(t)

	_, err := n.client.VerifyRemote(ctx, "nope")
	require.Error(t, err)
	require.True(t, errorx.Is(err, errorx.ErrCodeNotFound))
}

func TestExpectedProofAbsent(t *testing.T) {
	_, n := newTestNetwork(t)

	seed, err := proof.NewSeed()
	require.NoError(t, err)

	_, found, err := n.client.ExpectedProof("nope", seed)
	require.NoError(t, err)
	require.False(t, found)
}

func TestDeleteBlobEverywhere(t *testing.T) {
	ctx, n := newTestNetwork(t)

	acked, err := n.client.StoreBlob(ctx, "b1", []byte("forget me"), 1)
	require.NoError(t, err)
	require.Equal(t, 1, acked)

	require.NoError(t, n.client.DeleteBlob(ctx, "b1"))

	// key shredding is the erasure of record
	remains, shredded := n.ownerVault.ShreddedRemains("b1")
	require.True(t, shredded)
	require.NotNil(t, remains)

	_, found, err := n.client.RetrieveBlob("b1")
	require.NoError(t, err)
	require.False(t, found)

	// the broadcast reaches the node asynchronously
	deadline := time.Now().Add(testTimeout)
	for {
		exists, err := n.nodeStore.Exist("b1")
		require.NoError(t, err)
		if !exists {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("storage node still holds deleted blob")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// idempotent
	require.NoError(t, n.client.DeleteBlob(ctx, "b1"))
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(&NewClientOption{})
	require.Error(t, err)
	require.True(t, errorx.Is(err, errorx.ErrCodeConfig))
}

func TestStoreBlobNegativeReplicas(t *testing.T) {
	ctx, n := newTestNetwork(t)

	_, err := n.client.StoreBlob(ctx, "b1", []byte("data"), -1)
	require.Error(t, err)
	require.True(t, errorx.Is(err, errorx.ErrCodeParam))
}
