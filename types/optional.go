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

package types

// Optional holds a value together with an explicit set/unset flag, so that a
// zero value (limit 0, empty projection) is never confused with "not given".
type Optional[V any] struct {
	value V
	set   bool
}

// Some returns an Optional holding v.
func Some[V any](v V) Optional[V] {
	return Optional[V]{value: v, set: true}
}

// None returns an unset Optional.
func None[V any]() Optional[V] {
	return Optional[V]{}
}

func (o Optional[V]) Get() (V, bool) {
	return o.value, o.set
}

func (o Optional[V]) IsSet() bool {
	return o.set
}

// OrElse returns the held value, or def when unset.
func (o Optional[V]) OrElse(def V) V {
	if o.set {
		return o.value
	}
	return def
}
