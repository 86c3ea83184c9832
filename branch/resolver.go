/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package branch

import (
	"context"
	"sync/atomic"
)

// Source yields a branch id for a call, if it has one.
type Source interface {
	Lookup(ctx context.Context) (ID, bool)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (ID, bool)

func (f SourceFunc) Lookup(ctx context.Context) (ID, bool) { return f(ctx) }

var (
	// ContextSource reads the id stored with WithContext.
	ContextSource Source = SourceFunc(FromContext)

	// SessionSource reads the process-wide session. Meant for application
	// boundaries that still rely on a global current branch.
	SessionSource Source = SourceFunc(func(context.Context) (ID, bool) { return CurrentSession() })
)

// Resolver picks the branch id for a create: the explicit override when set,
// otherwise the first source that has one.
type Resolver struct {
	override *atomic.Int64
	sources  []Source
}

// NewResolver returns a resolver consulting sources in order. With no
// sources only the override is used.
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{override: new(atomic.Int64), sources: sources}
}

// SetOverride fixes the id for every later Resolve. Setting zero clears it.
func (r *Resolver) SetOverride(id ID) {
	r.override.Store(int64(id))
}

// Override returns the explicit id, if set.
func (r *Resolver) Override() (ID, bool) {
	id := ID(r.override.Load())
	return id, id.Valid()
}

// Resolve returns the branch id to stamp on a new record or ErrNoContext.
func (r *Resolver) Resolve(ctx context.Context) (ID, error) {
	if id, ok := r.Override(); ok {
		return id, nil
	}
	for _, s := range r.sources {
		if s == nil {
			continue
		}
		if id, ok := s.Lookup(ctx); ok && id.Valid() {
			return id, nil
		}
	}
	return 0, ErrNoContext
}

// WithSources returns a resolver sharing r's override but consulting sources.
func (r *Resolver) WithSources(sources ...Source) *Resolver {
	return &Resolver{override: r.override, sources: sources}
}
