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

package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/IzzyFuller/Quloud/config"
	"github.com/IzzyFuller/Quloud/encryptor"
	"github.com/IzzyFuller/Quloud/encryptor/secretbox"
	"github.com/IzzyFuller/Quloud/engine"
	"github.com/IzzyFuller/Quloud/errorx"
	"github.com/IzzyFuller/Quloud/keyvault"
	ldbvault "github.com/IzzyFuller/Quloud/keyvault/ldb"
	localvault "github.com/IzzyFuller/Quloud/keyvault/local"
	"github.com/IzzyFuller/Quloud/owner"
	"github.com/IzzyFuller/Quloud/protocol"
	"github.com/IzzyFuller/Quloud/pubsub"
	amqpbus "github.com/IzzyFuller/Quloud/pubsub/amqp"
	"github.com/IzzyFuller/Quloud/server"
	"github.com/IzzyFuller/Quloud/storage"
	localstorage "github.com/IzzyFuller/Quloud/storage/local"
)

var (
	configPath string
)

func appExit(err error) {
	logrus.WithError(err).Error("app exit")
	os.Exit(-1)
}

func init() {
	flag.StringVarP(&configPath, "conf", "c", "conf/config.toml",
		"path of the configuration file")
	flag.Parse()

	logrus.SetLevel(logrus.DebugLevel)

	config.InitConfig(configPath)
}

// main the function where execution of the program begins
func main() {

	logStd, level := initLog(config.GetLogConf())
	logrus.SetOutput(logStd)
	logrus.SetLevel(level)

	ctx, cancel := context.WithCancel(context.Background())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, os.Kill, syscall.SIGTERM)
	go func() {
		<-quit
		logrus.Info("stopping ...")
		cancel()
	}()

	bus := mustGetBus(config.GetAmqpConf())
	defer bus.Close()
	enc := secretbox.New()

	var serverOption *server.NewServerOption
	switch config.GetServerType() {
	case config.NodeTypeOwner:
		serverOption = startOwner(ctx, config.GetOwnerConf(), enc, bus)
	case config.NodeTypeStorage:
		serverOption = startStorage(ctx, config.GetStorageConf(), enc, bus)
	default:
		appExit(errors.New("error server type"))
	}

	// start http server
	if srv, err := server.New(serverOption); err != nil {
		logrus.WithError(err).Error("failed to initiate server")
		cancel()
	} else {
		if err := srv.Serve(ctx); err != nil && err != context.Canceled {
			logrus.WithError(err).Error("failed to start server")
			cancel()
		}
	}
}

// startOwner wires and starts a data owner node
func startOwner(ctx context.Context, conf *config.OwnerConf, enc encryptor.Encryptor, bus *amqpbus.Bus) *server.NewServerOption {
	client, err := owner.NewClient(&owner.NewClientOption{
		Encryptor:       enc,
		Storage:         mustGetStorage(conf.StoragePath),
		Vault:           mustGetVault(conf.Vault),
		Bus:             bus,
		ResponseTimeout: time.Duration(conf.ResponseTimeoutSec) * time.Second,
	})
	if err != nil {
		appExit(err)
	}
	if err := client.Start(ctx); err != nil {
		appExit(err)
	}

	if conf.Monitor != nil && conf.Monitor.AuditSwitch == "on" {
		interval := time.Duration(conf.Monitor.AuditIntervalSec) * time.Second
		auditor, err := owner.NewAuditor(client, interval)
		if err != nil {
			appExit(err)
		}
		auditor.Start(ctx)
	}

	return &server.NewServerOption{
		ListenAddress:   conf.ListenAddress,
		ServerType:      config.NodeTypeOwner,
		Name:            conf.Name,
		Owner:           client,
		Status:          client,
		DefaultReplicas: conf.Replicas,
	}
}

// startStorage wires and starts a storage node
func startStorage(ctx context.Context, conf *config.StorageConf, enc encryptor.Encryptor, bus pubsub.Bus) *server.NewServerOption {
	nodeID := conf.Name
	if nodeID == "" {
		nodeID = uuid.NewString()
	}

	eng, err := engine.NewEngine(&engine.NewEngineOption{
		NodeID:    nodeID,
		Encryptor: enc,
		Storage:   mustGetStorage(conf.StoragePath),
		Keys:      mustGetNodeKeys(conf.KeyPath, enc),
		Bus:       bus,
	})
	if err != nil {
		appExit(err)
	}
	if err := eng.Start(ctx); err != nil {
		appExit(err)
	}

	return &server.NewServerOption{
		ListenAddress: conf.ListenAddress,
		ServerType:    config.NodeTypeStorage,
		Name:          nodeID,
		Status:        eng,
	}
}

// mustGetBus dials the message broker nodes talk over and declares
// every queue of the protocol
func mustGetBus(conf *config.AmqpConf) *amqpbus.Bus {
	if conf == nil || conf.Address == "" {
		appExit(errors.New("missing config: amqp.address"))
	}

	bus, err := amqpbus.Dial(conf.Address)
	if err != nil {
		appExit(errorx.Wrap(err, "failed to dial broker"))
	}
	if err := bus.DeclareQueues(protocol.Queues); err != nil {
		appExit(errorx.Wrap(err, "failed to declare queues"))
	}
	return bus
}

// mustGetStorage initiates local blob storage
func mustGetStorage(path string) storage.BlobStorage {
	s, err := localstorage.New(path)
	if err != nil {
		appExit(errorx.Wrap(err, "failed to create storage"))
	}
	return s
}

// mustGetVault initiates the key vault holding owner or per-blob keys
func mustGetVault(conf *config.VaultConf) keyvault.Vault {
	if conf == nil {
		appExit(errors.New("missing config: vault"))
	}

	var v keyvault.Vault
	var err error
	switch conf.Type {
	case "local":
		v, err = localvault.New(conf.Path)
	case "leveldb":
		v, err = ldbvault.New(conf.Path)
	default:
		appExit(errors.New("invalid vault type: " + conf.Type))
	}
	if err != nil {
		appExit(errorx.Wrap(err, "failed to create vault"))
	}
	return v
}

// mustGetNodeKeys bootstraps the storage node's long-lived key and
// builds its key layer. Storage nodes never run per-document keys: a
// second per-blob layer over the owner's ciphertext would yield proofs
// no owner could verify.
func mustGetNodeKeys(keyPath string, enc encryptor.Encryptor) engine.KeyLayer {
	key, err := engine.BootstrapNodeKey(keyPath, enc)
	if err != nil {
		appExit(errorx.Wrap(err, "failed to bootstrap node key"))
	}
	keys, err := engine.NewNodeKeys(key, enc)
	if err != nil {
		appExit(errorx.Wrap(err, "failed to create node key layer"))
	}
	return keys
}

// initLog loads logger
func initLog(conf *config.Log) (io.Writer, logrus.Level) {
	if conf == nil {
		appExit(errors.New("missing log config"))
	}
	path := conf.Path
	if path == "" {
		return os.Stderr, logrus.DebugLevel
	}
	if strings.LastIndex(path, "/") != len([]rune(path))-1 {
		path = path + "/"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.Mkdir(path, 0777); err != nil {
			return os.Stderr, logrus.DebugLevel
		}
	}
	fileName := path + "server.log"

	level, err := logrus.ParseLevel(conf.Level)
	if err != nil {
		level = logrus.InfoLevel
	}

	writer, _ := rotatelogs.New(
		fileName+".%Y%m%d%H%M",
		rotatelogs.WithLinkName(fileName),
		rotatelogs.WithMaxAge(time.Duration(720)*time.Hour),
		rotatelogs.WithRotationTime(time.Duration(24)*time.Hour),
	)

	return writer, level
}
