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

// Package pubsub abstracts the asynchronous message bus nodes talk over.
//
// Queues have competing-consumer semantics: each published message is
// delivered to one subscriber of the queue. Acknowledgment and redelivery
// are owned by the bus implementation, never by the consuming core.
package pubsub

import (
	"context"

	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("module", "pubsub")

// Publisher sends raw message bytes to a named queue
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// Subscriber delivers raw message bytes from a named queue.
// The returned channel is closed when ctx is cancelled or the bus shuts down.
type Subscriber interface {
	Subscribe(ctx context.Context, queue string) (<-chan []byte, error)
}

// Bus is both ends of the message transport
type Bus interface {
	Publisher
	Subscriber
}

// Handler processes one inbound message. Handlers never return errors to
// the bus: a message they cannot use is dropped.
type Handler func(body []byte)

// Consume blocks on queue, dispatching every delivery to handle, until
// ctx is cancelled or the subscription closes
func Consume(ctx context.Context, sub Subscriber, queue string, handle Handler) error {
	deliveries, err := sub.Subscribe(ctx, queue)
	if err != nil {
		return err
	}

	logger.WithField("queue", queue).Debug("consuming")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case body, ok := <-deliveries:
			if !ok {
				logger.WithField("queue", queue).Info("subscription closed")
				return nil
			}
			handle(body)
		}
	}
}
