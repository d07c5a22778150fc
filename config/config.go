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

import (
	"errors"

	"github.com/spf13/viper"
)

// The application can be running as a data owner node or a storage node.
const NodeTypeOwner = "owner"
const NodeTypeStorage = "storage"

var (
	// distinguish the mode of the application
	serverType string
	logConf    *Log
	// the configuration when running as a data owner node
	ownerConf *OwnerConf
	// the configuration when running as a storage node
	storageConf *StorageConf
)

// VaultConf selects where the owner's per-blob keys live
type VaultConf struct {
	// Type is "local" (one file per key) or "leveldb"
	Type string
	Path string
}

// AmqpConf points at the message broker nodes talk over
type AmqpConf struct {
	Address string
}

type Log struct {
	Level string
	Path  string
}

// InitConfig, load and parses configuration file
func InitConfig(config string) error {
	v := viper.New()
	v.SetConfigFile(config)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	var err error
	logConf = new(Log)
	err = v.Sub("log").Unmarshal(logConf)
	if err != nil {
		return err
	}
	serverType = v.Get("type").(string)
	if serverType == NodeTypeOwner {
		ownerConf = new(OwnerConf)
		err = v.Sub(NodeTypeOwner).Unmarshal(ownerConf)
	} else if serverType == NodeTypeStorage {
		storageConf = new(StorageConf)
		err = v.Sub(NodeTypeStorage).Unmarshal(storageConf)
	} else {
		return errors.New("unSupported Node Type")
	}
	return err
}

// GetServerType
func GetServerType() string {
	return serverType
}

// GetStorageConf
func GetStorageConf() *StorageConf {
	return storageConf
}

// GetOwnerConf
func GetOwnerConf() *OwnerConf {
	return ownerConf
}

// GetLogConf
func GetLogConf() *Log {
	return logConf
}

// GetListenAddress returns the HTTP listen address of whichever node
// type is configured
func GetListenAddress() string {
	if serverType == NodeTypeOwner {
		return ownerConf.ListenAddress
	} else if serverType == NodeTypeStorage {
		return storageConf.ListenAddress
	}
	return ""
}

// GetAmqpConf returns the broker configuration of whichever node type
// is configured
func GetAmqpConf() *AmqpConf {
	if serverType == NodeTypeOwner {
		return ownerConf.Amqp
	} else if serverType == NodeTypeStorage {
		return storageConf.Amqp
	}
	return nil
}
