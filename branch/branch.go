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
	"errors"
	"sync/atomic"
)

// Column is the column that carries the branch id on scoped tables.
const Column = "branch_id"

// ErrNoContext is returned when a scoped create has no branch id to use.
var ErrNoContext = errors.New("no branch context")

// ID identifies a branch. Zero means "no branch".
type ID int64

func (id ID) Valid() bool { return id != 0 }

// Scopable is implemented by models whose rows belong to a branch.
type Scopable interface {
	SetBranchID(id ID)
}

// Scoped can be embedded in a Bun model to make it Scopable.
type Scoped struct {
	BranchID ID `bun:"branch_id,notnull" json:"branch_id"`
}

func (s *Scoped) SetBranchID(id ID) { s.BranchID = id }

func (s *Scoped) Branch() ID { return s.BranchID }

type ctxKey struct{}

// WithContext returns a context carrying id.
func WithContext(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the branch id stored by WithContext.
func FromContext(ctx context.Context) (ID, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(ctxKey{}).(ID)
	return id, ok && id.Valid()
}

// session is the process-wide "current branch", set by the hosting
// application (typically at login) and read only through SessionSource.
var session atomic.Int64

// SetSession sets the process-wide current branch.
func SetSession(id ID) { session.Store(int64(id)) }

// ClearSession unsets the process-wide current branch.
func ClearSession() { session.Store(0) }

// CurrentSession returns the process-wide current branch, if any.
func CurrentSession() (ID, bool) {
	id := ID(session.Load())
	return id, id.Valid()
}
