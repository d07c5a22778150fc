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

package owner

import "sync"

// inbox routes asynchronous responses to whoever is waiting for them,
// keyed by blob id. Responses arriving with nobody waiting are dropped,
// late answers after a timeout must not pile up.
type inbox[T any] struct {
	mu      sync.Mutex
	waiters map[string][]chan T
}

func newInbox[T any]() *inbox[T] {
	return &inbox[T]{waiters: make(map[string][]chan T)}
}

// expect registers interest in responses for blobID.
// buffer sizes the channel so deliver never blocks the bus consumer.
func (b *inbox[T]) expect(blobID string, buffer int) chan T {
	ch := make(chan T, buffer)

	b.mu.Lock()
	b.waiters[blobID] = append(b.waiters[blobID], ch)
	b.mu.Unlock()
	return ch
}

// forget withdraws a waiter previously handed out by expect
func (b *inbox[T]) forget(blobID string, ch chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ws := b.waiters[blobID]
	for i, w := range ws {
		if w == ch {
			b.waiters[blobID] = append(ws[:i], ws[i+1:]...)
			break
		}
	}
	if len(b.waiters[blobID]) == 0 {
		delete(b.waiters, blobID)
	}
}

// deliver fans v out to every current waiter for blobID, never blocking
func (b *inbox[T]) deliver(blobID string, v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.waiters[blobID] {
		select {
		case ch <- v:
		default:
		}
	}
}
