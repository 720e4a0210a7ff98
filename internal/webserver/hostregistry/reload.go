// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hostregistry

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// ReloadBus delivers reload signals to this process from wherever
// configuration changes are detected (out of scope for this package;
// see spec.md §6 — config file parsing is external). Abstracted as an
// interface so tests can substitute an in-memory bus instead of a real
// Redis deployment.
type ReloadBus interface {
	Subscribe(ctx context.Context, channel string) (<-chan string, func())
}

// RedisReloadBus implements ReloadBus over a real Redis pub/sub channel.
type RedisReloadBus struct {
	client *redis.Client
}

// NewRedisReloadBus constructs a bus against the Redis instance at addr.
func NewRedisReloadBus(addr string) *RedisReloadBus {
	return &RedisReloadBus{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Subscribe returns a channel of raw message payloads and a cancel
// function that unsubscribes and releases the underlying connection.
func (b *RedisReloadBus) Subscribe(ctx context.Context, channel string) (<-chan string, func()) {
	sub := b.client.Subscribe(ctx, channel)
	out := make(chan string, 1)
	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				out <- msg.Payload
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, func() { _ = sub.Close() }
}

// WatchReloads subscribes to channel on bus and calls r.Reload() each
// time a message arrives, until ctx is cancelled. Errors from Reload are
// logged, not propagated, since a failed reload should not take down an
// already-serving registry.
func (r *Registry) WatchReloads(ctx context.Context, bus ReloadBus, channel string) {
	msgs, cancel := bus.Subscribe(ctx, channel)
	go func() {
		defer cancel()
		for range msgs {
			if err := r.Reload(); err != nil {
				log.Printf("hostregistry: reload failed: %v", err)
				continue
			}
			fmt.Println("hostregistry: reload complete")
		}
	}()
}
