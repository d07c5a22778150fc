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

package engine

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/IzzyFuller/Quloud/protocol"
	"github.com/IzzyFuller/Quloud/pubsub"
)

// Inbound messages that fail to parse are noise on a shared channel:
// dropped without a response, logged at debug only. Handler-internal
// failures are logged and produce no response either, redelivery is the
// bus's concern.

func (e *Engine) onStoreRequest(ctx context.Context) pubsub.Handler {
	return func(body []byte) {
		var req protocol.StoreRequest
		if err := protocol.Unmarshal(body, protocol.MsgStoreRequest, &req); err != nil || req.BlobID == "" {
			logger.Debug("dropping malformed store request")
			return
		}

		if err := e.Store(req.BlobID, req.Data); err != nil {
			logger.WithError(err).WithField("blob_id", req.BlobID).Error("store failed")
			return
		}

		e.respond(ctx, protocol.QueueStoreResponses, &protocol.StoreResponse{
			BlobID: req.BlobID,
			NodeID: e.nodeID,
			Stored: true,
		})

		logger.WithFields(logrus.Fields{
			"blob_id": req.BlobID,
			"bytes":   len(req.Data),
		}).Debug("blob stored")
	}
}

func (e *Engine) onRetrieveRequest(ctx context.Context) pubsub.Handler {
	return func(body []byte) {
		var req protocol.RetrieveRequest
		if err := protocol.Unmarshal(body, protocol.MsgRetrieveRequest, &req); err != nil || req.BlobID == "" {
			logger.Debug("dropping malformed retrieve request")
			return
		}

		data, found, err := e.Retrieve(req.BlobID)
		if err != nil {
			// decrypt failure on self-sealed data means corruption
			logger.WithError(err).WithField("blob_id", req.BlobID).Error("retrieve failed")
			return
		}

		e.respond(ctx, protocol.QueueRetrieveResponses, &protocol.RetrieveResponse{
			BlobID: req.BlobID,
			NodeID: e.nodeID,
			Data:   data,
			Found:  found,
		})
	}
}

func (e *Engine) onProofRequest(ctx context.Context) pubsub.Handler {
	return func(body []byte) {
		var req protocol.ProofRequest
		if err := protocol.Unmarshal(body, protocol.MsgProofRequest, &req); err != nil || req.BlobID == "" {
			logger.Debug("dropping malformed proof request")
			return
		}

		digest, found, err := e.ProvideProofOfStorage(req.BlobID, req.Seed)
		if err != nil {
			logger.WithError(err).WithField("blob_id", req.BlobID).Error("proof failed")
			return
		}

		e.respond(ctx, protocol.QueueProofResponses, &protocol.ProofResponse{
			BlobID: req.BlobID,
			NodeID: e.nodeID,
			Proof:  digest,
			Found:  found,
		})
	}
}

// onDeleteRequest is fire-and-forget: deletion is anonymous, publishing
// an acknowledgment would leak which party requested erasure
func (e *Engine) onDeleteRequest(body []byte) {
	var req protocol.DeleteRequest
	if err := protocol.Unmarshal(body, protocol.MsgDeleteRequest, &req); err != nil || req.BlobID == "" {
		logger.Debug("dropping malformed delete request")
		return
	}

	if err := e.Delete(req.BlobID); err != nil {
		logger.WithError(err).WithField("blob_id", req.BlobID).Error("delete failed")
		return
	}
	logger.WithField("blob_id", req.BlobID).Debug("blob erased")
}

func (e *Engine) respond(ctx context.Context, queue string, msg interface{}) {
	raw, err := protocol.Marshal(msg)
	if err != nil {
		logger.WithError(err).Error("failed to marshal response")
		return
	}
	if err := e.bus.Publish(ctx, queue, raw); err != nil {
		logger.WithError(err).WithField("queue", queue).Error("failed to publish response")
	}
}
