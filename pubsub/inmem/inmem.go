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

// Package inmem is an in-process message bus with queue semantics,
// used by tests and single-process deployments.
package inmem

import (
	"context"
	"sync"

	"github.com/IzzyFuller/Quloud/errorx"
)

const queueDepth = 256

// Bus routes messages between goroutines through named buffered queues.
// All subscribers of a queue compete for its messages.
type Bus struct {
	mu     sync.Mutex
	queues map[string]chan []byte
	closed bool
}

// New creates an empty bus
func New() *Bus {
	return &Bus{queues: make(map[string]chan []byte)}
}

// Publish enqueues body on queue, blocking if the queue is full
func (b *Bus) Publish(ctx context.Context, queue string, body []byte) error {
	q, err := b.queue(queue)
	if err != nil {
		return err
	}

	cp := make([]byte, len(body))
	copy(cp, body)

	select {
	case q <- cp:
		return nil
	case <-ctx.Done():
		return errorx.NewCode(ctx.Err(), errorx.ErrCodeTransport, "publish cancelled")
	}
}

// Subscribe returns the shared delivery channel of queue.
// Cancellation of ctx does not close the channel (other subscribers may
// still be draining it); consumers stop via their own select on ctx.
func (b *Bus) Subscribe(ctx context.Context, queue string) (<-chan []byte, error) {
	q, err := b.queue(queue)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Close closes every queue channel. Publishing after Close is an error.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, q := range b.queues {
		close(q)
	}
}

func (b *Bus) queue(name string) (chan []byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, errorx.New(errorx.ErrCodeTransport, "bus is closed")
	}
	q, ok := b.queues[name]
	if !ok {
		q = make(chan []byte, queueDepth)
		b.queues[name] = q
	}
	return q, nil
}
