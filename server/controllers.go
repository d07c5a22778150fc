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

package server

import (
	"context"
	"io"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/IzzyFuller/Quloud/errorx"
	"github.com/IzzyFuller/Quloud/pkgs/file"
	"github.com/IzzyFuller/Quloud/server/types"
)

// storeBlob uploads a blob, seals it and replicates it to the network
func (s *Server) storeBlob(ictx iris.Context) {
	blobID := ictx.URLParam("id")
	if !file.IsValidID(blobID) {
		responseError(ictx, errorx.New(errorx.ErrCodeParam, "invalid blob id"))
		return
	}
	replicas := ictx.URLParamIntDefault("replicas", s.replicas)

	data, err := io.ReadAll(ictx.Request().Body)
	if err != nil {
		responseError(ictx, errorx.NewCode(err, errorx.ErrCodeParam, "failed to read request body"))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ictx.OnConnectionClose(func(iris.Context) { cancel() })

	acked, err := s.owner.StoreBlob(ctx, blobID, data, replicas)
	if err != nil {
		responseError(ictx, errorx.Wrap(err, "failed to store blob"))
		return
	}
	responseJSON(ictx, types.StoreResponse{
		BlobID: blobID,
		Acked:  acked,
	})
}

// retrieveBlob downloads the plaintext of a locally held blob
func (s *Server) retrieveBlob(ictx iris.Context) {
	blobID := ictx.URLParam("id")
	if !file.IsValidID(blobID) {
		responseError(ictx, errorx.New(errorx.ErrCodeParam, "invalid blob id"))
		return
	}

	data, found, err := s.owner.RetrieveBlob(blobID)
	if err != nil {
		responseError(ictx, errorx.Wrap(err, "failed to retrieve blob"))
		return
	}
	if !found {
		responseError(ictx, errorx.Wrap(errorx.ErrNotFound, "blob %s", blobID))
		return
	}
	responseBytes(ictx, data)
}

// restoreBlob fetches a blob back from the network after local loss
func (s *Server) restoreBlob(ictx iris.Context) {
	blobID := ictx.URLParam("id")
	if !file.IsValidID(blobID) {
		responseError(ictx, errorx.New(errorx.ErrCodeParam, "invalid blob id"))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ictx.OnConnectionClose(func(iris.Context) { cancel() })

	data, err := s.owner.RestoreBlob(ctx, blobID)
	if err != nil {
		responseError(ictx, errorx.Wrap(err, "failed to restore blob"))
		return
	}
	responseBytes(ictx, data)
}

// deleteBlob erases a blob locally and across the network
func (s *Server) deleteBlob(ictx iris.Context) {
	blobID := ictx.URLParam("id")
	if !file.IsValidID(blobID) {
		responseError(ictx, errorx.New(errorx.ErrCodeParam, "invalid blob id"))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ictx.OnConnectionClose(func(iris.Context) { cancel() })

	if err := s.owner.DeleteBlob(ctx, blobID); err != nil {
		responseError(ictx, errorx.Wrap(err, "failed to delete blob"))
		return
	}
	responseJSON(ictx, types.DeleteResponse{BlobID: blobID})
}

// requestChallenge runs one proof-of-storage round against the network
func (s *Server) requestChallenge(ictx iris.Context) {
	blobID := ictx.URLParam("id")
	if !file.IsValidID(blobID) {
		responseError(ictx, errorx.New(errorx.ErrCodeParam, "invalid blob id"))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ictx.OnConnectionClose(func(iris.Context) { cancel() })

	verified, err := s.owner.VerifyRemote(ctx, blobID)
	if err != nil {
		responseError(ictx, errorx.Wrap(err, "failed to challenge network"))
		return
	}
	responseJSON(ictx, types.ChallengeResponse{
		BlobID:   blobID,
		Verified: verified,
	})
}

// getStatus describes the running node
func (s *Server) getStatus(ictx iris.Context) {
	count, err := s.status.BlobCount()
	if err != nil {
		responseError(ictx, errorx.Wrap(err, "failed to count blobs"))
		return
	}
	responseJSON(ictx, types.StatusResponse{
		Name:      s.name,
		Type:      s.serverType,
		BlobCount: count,
		StartedAt: s.startedAt.Format(time.RFC3339),
	})
}
