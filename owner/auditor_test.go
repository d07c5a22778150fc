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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IzzyFuller/Quloud/errorx"
)

func TestAuditOnceAllVerified(t *testing.T) {
	ctx, n := newTestNetwork(t)

	for _, id := range []string{"b1", "b2"} {
		acked, err := n.client.StoreBlob(ctx, id, []byte("payload "+id), 1)
		require.NoError(t, err)
		require.Equal(t, 1, acked)
	}

	a, err := NewAuditor(n.client, time.Minute)
	require.NoError(t, err)

	verified, failed := a.AuditOnce(ctx)
	require.Equal(t, 2, verified)
	require.Zero(t, failed)
}

func TestAuditOnceDetectsLostBlob(t *testing.T) {
	ctx, n := newTestNetwork(t)

	acked, err := n.client.StoreBlob(ctx, "b1", []byte("payload"), 1)
	require.NoError(t, err)
	require.Equal(t, 1, acked)

	// the node silently loses the blob
	existed, err := n.nodeStore.Delete("b1")
	require.NoError(t, err)
	require.True(t, existed)

	verifiedBefore, failedBefore := mustAuditor(t, n).AuditOnce(ctx)
	require.Zero(t, verifiedBefore)
	require.Equal(t, 1, failedBefore)

	// restoring redundancy clears the next sweep
	_, err = n.client.RestoreBlob(ctx, "b1")
	require.Error(t, err) // network holds nothing anymore

	acked, err = n.client.StoreBlob(ctx, "b1", []byte("payload"), 1)
	require.NoError(t, err)
	require.Equal(t, 1, acked)

	verified, failed := mustAuditor(t, n).AuditOnce(ctx)
	require.Equal(t, 1, verified)
	require.Zero(t, failed)
}

func TestAuditorLoopStops(t *testing.T) {
	_, n := newTestNetwork(t)

	a, err := NewAuditor(n.client, 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	a.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		a.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(testTimeout):
		t.Fatal("auditor loop did not stop")
	}
}

func TestNewAuditorValidation(t *testing.T) {
	_, err := NewAuditor(nil, time.Minute)
	require.Error(t, err)
	require.True(t, errorx.Is(err, errorx.ErrCodeConfig))

	_, n := newTestNetwork(t)
	_, err = NewAuditor(n.client, 0)
	require.Error(t, err)
	require.True(t, errorx.Is(err, errorx.ErrCodeConfig))
}

func mustAuditor(t *testing.T, n *network) *Auditor {
	a, err := NewAuditor(n.client, time.Minute)
	require.NoError(t, err)
	return a
}
