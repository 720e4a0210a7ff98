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

package handler

import (
	"webcore/internal/webserver/executor"
	"webcore/internal/webserver/hostregistry"
	"webcore/internal/webserver/module"
	"webcore/internal/webserver/responsecache"
	"webcore/internal/webserver/transport"
)

// Factory builds one Handler per connection/request. It holds the
// process-wide components a handler needs but never owns itself: the
// per-worker hot cache, the module registry, the response cache, and the
// CPU executor pool.
type Factory struct {
	hotCache  *hostregistry.HotCache
	modules   *module.Registry
	respCache *responsecache.Cache
	pool      *executor.Pool
	localPort int
}

// NewFactory constructs a Factory. localPort is used to canonicalize a
// Host header that arrives without an explicit port.
func NewFactory(hotCache *hostregistry.HotCache, modules *module.Registry, respCache *responsecache.Cache, pool *executor.Pool, localPort int) *Factory {
	return &Factory{
		hotCache:  hotCache,
		modules:   modules,
		respCache: respCache,
		pool:      pool,
		localPort: localPort,
	}
}

// NewHandler builds a fresh Handler bound to one connection's downstream
// and event base. The caller drives it with OnHeaders/OnBody/OnEOM/...
func (f *Factory) NewHandler(downstream transport.Downstream, eventBase transport.EventBase) *Handler {
	return newHandler(f.hotCache, f.modules, f.respCache, f.pool, f.localPort, downstream, eventBase)
}
