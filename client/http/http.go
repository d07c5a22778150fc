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

// Package http is the sdk talking to a node's HTTP api
package http

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"path"
	"strconv"

	"github.com/IzzyFuller/Quloud/errorx"
	httpkg "github.com/IzzyFuller/Quloud/pkgs/http"
	servertypes "github.com/IzzyFuller/Quloud/server/types"
)

const (
	apiVersion = "v1"
)

type Client struct {
	baseAddr url.URL
}

// New new a client by server address
func New(addr string) (Client, error) {
	base, err := url.Parse(addr)
	if err != nil {
		return Client{}, errorx.NewCode(err, errorx.ErrCodeParam, "invalid addr")
	}
	base.Path = path.Join(base.Path, apiVersion)
	c := Client{
		baseAddr: *base,
	}
	return c, nil
}

// StoreOptions define the parameters required to upload a blob
type StoreOptions struct {
	BlobID string

	// Replicas < 0 lets the node use its configured default
	Replicas int
}

// Store uploads a blob
func (c *Client) Store(ctx context.Context, data []byte, opt StoreOptions) (
	servertypes.StoreResponse, error) {

	url := c.baseAddr
	joinPath(&url, "blob", "store")

	q := url.Query()
	q.Add("id", opt.BlobID)
	if opt.Replicas >= 0 {
		q.Add("replicas", strconv.Itoa(opt.Replicas))
	}
	url.RawQuery = q.Encode()

	var resp servertypes.StoreResponse
	if err := httpkg.PostResponse(ctx, url.String(), bytes.NewReader(data), &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Retrieve downloads a blob's plaintext
func (c *Client) Retrieve(ctx context.Context, blobID string) ([]byte, error) {
	url := c.baseAddr
	joinPath(&url, "blob", "retrieve")

	q := url.Query()
	q.Add("id", blobID)
	url.RawQuery = q.Encode()

	reader, err := httpkg.Get(ctx, url.String())
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errorx.NewCode(err, errorx.ErrCodeInternal, "failed to read blob body")
	}
	return data, nil
}

// Restore fetches a blob back from the network after local loss
func (c *Client) Restore(ctx context.Context, blobID string) ([]byte, error) {
	url := c.baseAddr
	joinPath(&url, "blob", "restore")

	q := url.Query()
	q.Add("id", blobID)
	url.RawQuery = q.Encode()

	reader, err := httpkg.Post(ctx, url.String(), nil)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errorx.NewCode(err, errorx.ErrCodeInternal, "failed to read blob body")
	}
	return data, nil
}

// Delete erases a blob locally and across the network
func (c *Client) Delete(ctx context.Context, blobID string) (servertypes.DeleteResponse, error) {
	url := c.baseAddr
	joinPath(&url, "blob", "delete")

	q := url.Query()
	q.Add("id", blobID)
	url.RawQuery = q.Encode()

	var resp servertypes.DeleteResponse
	if err := httpkg.PostResponse(ctx, url.String(), nil, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Challenge runs one proof-of-storage round against the network
func (c *Client) Challenge(ctx context.Context, blobID string) (servertypes.ChallengeResponse, error) {
	url := c.baseAddr
	joinPath(&url, "challenge", "request")

	q := url.Query()
	q.Add("id", blobID)
	url.RawQuery = q.Encode()

	var resp servertypes.ChallengeResponse
	if err := httpkg.GetResponse(ctx, url.String(), &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Status describes the running node
func (c *Client) Status(ctx context.Context) (servertypes.StatusResponse, error) {
	url := c.baseAddr
	joinPath(&url, "node", "status")

	var resp servertypes.StatusResponse
	if err := httpkg.GetResponse(ctx, url.String(), &resp); err != nil {
		return resp, err
	}
	return resp, nil
}
