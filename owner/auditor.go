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
	"time"

	"github.com/sirupsen/logrus"

	"github.com/IzzyFuller/Quloud/errorx"
)

// Auditor periodically challenges the network to prove it still holds
// every blob the owner knows about. A failed or missing proof is logged,
// deciding what to do about it (restore, re-replicate) stays with the
// operator.
type Auditor struct {
	client   *Client
	interval time.Duration

	doneC chan struct{}
}

// NewAuditor initiates an Auditor challenging the network every interval
func NewAuditor(client *Client, interval time.Duration) (*Auditor, error) {
	if client == nil {
		return nil, errorx.New(errorx.ErrCodeConfig, "auditor misses a client")
	}
	if interval <= 0 {
		return nil, errorx.New(errorx.ErrCodeConfig, "non-positive audit interval %s", interval)
	}

	return &Auditor{
		client:   client,
		interval: interval,
		doneC:    make(chan struct{}),
	}, nil
}

// Start spawns the audit loop and returns. The loop stops when ctx is
// cancelled; Stop waits for it to finish.
func (a *Auditor) Start(ctx context.Context) {
	go a.loop(ctx)
}

// Stop blocks until the audit loop has exited
func (a *Auditor) Stop() {
	<-a.doneC
}

func (a *Auditor) loop(ctx context.Context) {
	defer close(a.doneC)

	logger.WithField("interval", a.interval).Info("proof auditor started")
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("proof auditor stopped")
			return
		case <-ticker.C:
			a.AuditOnce(ctx)
		}
	}
}

// AuditOnce challenges the network once for every locally held blob and
// returns how many proofs verified and how many did not. Transport
// errors on individual blobs are logged and counted as failures, one
// unreachable blob must not abort the sweep.
func (a *Auditor) AuditOnce(ctx context.Context) (verified, failed int) {
	ids, err := a.client.LocalBlobs()
	if err != nil {
		logger.WithError(err).Error("failed to list blobs for audit")
		return 0, 0
	}

	for _, id := range ids {
		ok, err := a.client.VerifyRemote(ctx, id)
		if err != nil {
			logger.WithError(err).WithField("blob_id", id).Warn("audit challenge failed")
			failed++
			continue
		}
		if !ok {
			logger.WithField("blob_id", id).Warn("network failed proof of storage")
			failed++
			continue
		}
		verified++
	}

	if failed > 0 {
		logger.WithFields(logrus.Fields{
			"verified": verified,
			"failed":   failed,
		}).Warn("audit sweep found failures")
	} else {
		logger.WithField("verified", verified).Debug("audit sweep clean")
	}
	return verified, failed
}
