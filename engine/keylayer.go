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
	"github.com/IzzyFuller/Quloud/encryptor"
	"github.com/IzzyFuller/Quloud/errorx"
	"github.com/IzzyFuller/Quloud/keyvault"
	"github.com/IzzyFuller/Quloud/pkgs/file"
)

// perDocumentKeys is the owner-profile key layer: every blob gets a fresh
// key, kept in the vault. The node's encryption layer is the owner layer
// itself, so the stored ciphertext is exactly what a verifier holding the
// owner's copy recomputes proofs over.
type perDocumentKeys struct {
	vault keyvault.Vault
	enc   encryptor.Encryptor
}

// NewPerDocumentKeys builds the per-document key layer over a vault
func NewPerDocumentKeys(vault keyvault.Vault, enc encryptor.Encryptor) KeyLayer {
	return &perDocumentKeys{vault: vault, enc: enc}
}

func (p *perDocumentKeys) NewKey(blobID string) ([]byte, error) {
	return p.enc.GenerateKey()
}

func (p *perDocumentKeys) CommitKey(blobID string, key []byte) error {
	return p.vault.StoreKey(blobID, key)
}

func (p *perDocumentKeys) LoadKey(blobID string) ([]byte, bool, error) {
	return p.vault.RetrieveKey(blobID)
}

func (p *perDocumentKeys) Shred(blobID string) error {
	return p.vault.ShredKey(blobID)
}

func (p *perDocumentKeys) VerifiableLayer(blobID string, stored []byte) ([]byte, error) {
	// single layer: what is stored is what the verifier holds
	return stored, nil
}

// nodeKeys is the storage-node-profile key layer: one long-lived node key
// seals everything the node stores as a second layer over the owner's
// ciphertext. Proofs and retrievals strip exactly that layer, exposing
// the owner's ciphertext and never plaintext.
type nodeKeys struct {
	key []byte
	enc encryptor.Encryptor
}

// NewNodeKeys builds the node-keyed layer from an existing node key
func NewNodeKeys(key []byte, enc encryptor.Encryptor) (KeyLayer, error) {
	if len(key) != encryptor.KeySize {
		return nil, errorx.New(errorx.ErrCodeKeyLength,
			"node key has %d bytes, want %d", len(key), encryptor.KeySize)
	}
	return &nodeKeys{key: key, enc: enc}, nil
}

func (n *nodeKeys) NewKey(blobID string) ([]byte, error) {
	return n.key, nil
}

func (n *nodeKeys) CommitKey(blobID string, key []byte) error {
	return nil
}

func (n *nodeKeys) LoadKey(blobID string) ([]byte, bool, error) {
	return n.key, true, nil
}

// Shred is a no-op: destroying the node key would erase every blob the
// node holds, deletion in this profile removes data only
func (n *nodeKeys) Shred(blobID string) error {
	return nil
}

func (n *nodeKeys) VerifiableLayer(blobID string, stored []byte) ([]byte, error) {
	// the verifier holds the owner ciphertext under this node's layer
	return n.enc.Decrypt(n.key, stored)
}

// BootstrapNodeKey loads the node key from dir, generating and persisting
// a fresh one on first start. Explicit startup step, never a lazy
// first-use side effect.
func BootstrapNodeKey(dir string, enc encryptor.Encryptor) ([]byte, error) {
	existed, err := file.IsFileExisted(dir, file.NodeKeyFileName)
	if err != nil {
		return nil, errorx.NewCode(err, errorx.ErrCodeConfig, "failed to probe node key file")
	}

	if existed {
		key, err := file.ReadFile(dir, file.NodeKeyFileName)
		if err != nil {
			return nil, errorx.NewCode(err, errorx.ErrCodeConfig, "failed to read node key")
		}
		if len(key) != encryptor.KeySize {
			return nil, errorx.New(errorx.ErrCodeKeyLength,
				"node key file holds %d bytes, want %d", len(key), encryptor.KeySize)
		}
		return key, nil
	}

	key, err := enc.GenerateKey()
	if err != nil {
		return nil, errorx.Wrap(err, "failed to generate node key")
	}
	if err := file.WriteFile(dir, file.NodeKeyFileName, key, 0600); err != nil {
		return nil, errorx.NewCode(err, errorx.ErrCodeConfig, "failed to persist node key")
	}
	logger.WithField("dir", dir).Info("generated fresh node key")
	return key, nil
}
