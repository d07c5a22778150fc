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

type OwnerConf struct {
	Name          string
	ListenAddress string

	// StoragePath is where locally held sealed blobs live
	StoragePath string

	// Replicas is how many store requests each upload fans out, 0 keeps
	// blobs local only
	Replicas int

	// ResponseTimeoutSec bounds waits on network answers, 0 picks the
	// library default
	ResponseTimeoutSec int

	Vault   *VaultConf
	Amqp    *AmqpConf
	Monitor *OwnerMonitorConf
}

type OwnerMonitorConf struct {
	// AuditSwitch is "on" to challenge the network periodically
	AuditSwitch string

	// AuditIntervalSec is how often the auditor sweeps, in seconds
	AuditIntervalSec int
}
