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
	"time"

	"github.com/kataras/iris/v12"
	"github.com/sirupsen/logrus"

	"github.com/IzzyFuller/Quloud/config"
	"github.com/IzzyFuller/Quloud/errorx"
)

// OwnerHandler defines the blob apis an owner node exposes over HTTP.
// The owner client implements the following methods.
type OwnerHandler interface {
	StoreBlob(ctx context.Context, blobID string, data []byte, replicas int) (int, error)
	RetrieveBlob(blobID string) ([]byte, bool, error)
	RestoreBlob(ctx context.Context, blobID string) ([]byte, error)
	VerifyRemote(ctx context.Context, blobID string) (bool, error)
	DeleteBlob(ctx context.Context, blobID string) error
}

// StatusHandler reports what a node holds, both node types implement it
type StatusHandler interface {
	BlobCount() (int, error)
}

// NewServerOption contains everything a Server needs at construction
type NewServerOption struct {
	ListenAddress string
	ServerType    string
	Name          string

	// Owner is required when ServerType is the owner type
	Owner  OwnerHandler
	Status StatusHandler

	// DefaultReplicas is used when an upload does not name a replica count
	DefaultReplicas int
}

// Server http server
type Server struct {
	app *iris.Application

	listenAddr string
	serverType string
	name       string

	owner    OwnerHandler
	status   StatusHandler
	replicas int

	startedAt time.Time
}

// New initiate Server
func New(opt *NewServerOption) (*Server, error) {
	if opt.ListenAddress == "" {
		return nil, errorx.New(errorx.ErrCodeConfig, "misssing config: listenAddress")
	}
	if opt.Status == nil {
		return nil, errorx.New(errorx.ErrCodeConfig, "missing status handler")
	}
	if opt.ServerType == config.NodeTypeOwner && opt.Owner == nil {
		return nil, errorx.New(errorx.ErrCodeConfig, "missing owner handler")
	}

	server := &Server{
		app:        iris.New(),
		listenAddr: opt.ListenAddress,
		serverType: opt.ServerType,
		name:       opt.Name,
		owner:      opt.Owner,
		status:     opt.Status,
		replicas:   opt.DefaultReplicas,
	}
	return server, nil
}

// setRoute define the routing of node's server
func (s *Server) setRoute() (err error) {
	v1 := s.app.Party("/v1")
	nodeParty := v1.Party("/node")
	nodeParty.Get("/status", s.getStatus)

	switch s.serverType {
	// storage node answers nothing but status over HTTP,
	// blob traffic rides the message bus
	case config.NodeTypeStorage:
	// data owner node
	case config.NodeTypeOwner:
		blobParty := v1.Party("/blob")
		blobParty.Post("/store", s.storeBlob)
		blobParty.Get("/retrieve", s.retrieveBlob)
		blobParty.Post("/restore", s.restoreBlob)
		blobParty.Post("/delete", s.deleteBlob)

		challParty := v1.Party("/challenge")
		challParty.Get("/request", s.requestChallenge)
	default:
		err = errorx.New(errorx.ErrCodeConfig, "wrong config: server.server-type")
	}
	s.app.OnAnyErrorCode(func(ictx iris.Context) {
		responseError(ictx, errorx.New(errorx.ErrCodeNotFound, "request url not found"))
	})
	return err
}

// Serve runs and blocks current routine
func (s *Server) Serve(ctx context.Context) error {
	if err := s.setRoute(); err != nil {
		return err
	}
	s.startedAt = time.Now()

	go func() {
		<-ctx.Done()
		logrus.Info("server stops ...")
		s.app.Shutdown(context.TODO())
	}()

	logrus.Infof("server starts, and listens port %s", s.listenAddr)
	if err := s.app.Listen(s.listenAddr); err != nil {
		//error occurs when start server
		return err
	}

	return ctx.Err()
}
