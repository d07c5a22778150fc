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

package config

// StorageConf configures a storage node. Storage nodes are always
// node-keyed: one bootstrapped key wraps every inbound blob as a second
// layer, and proofs strip that layer so owners can verify them against
// the ciphertext they hold. Per-document keys belong to the owner side.
type StorageConf struct {
	Name          string
	ListenAddress string

	// StoragePath is where node-sealed blobs live
	StoragePath string

	// KeyPath is the directory holding the bootstrapped node key
	KeyPath string

	Amqp *AmqpConf
}
