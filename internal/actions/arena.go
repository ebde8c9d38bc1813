/*
Copyright 2026 The Climate Action Tool Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package actions

// Handle is an opaque reference to an undoable target. The zero Handle is
// never issued.
type Handle uint64

// Arena issues handles for targets identified by key and tracks whether each
// target still exists. A retired handle stays retired; issuing the same key
// again yields a new handle.
type Arena struct {
	next  Handle
	live  map[Handle]string
	byKey map[string]Handle
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{live: make(map[Handle]string), byKey: make(map[string]Handle)}
}

// Issue returns the live handle for key, creating one if needed.
func (a *Arena) Issue(key string) Handle {
	if h, ok := a.byKey[key]; ok {
		return h
	}
	a.next++
	a.live[a.next] = key
	a.byKey[key] = a.next
	return a.next
}

// Key returns the key of a live handle.
func (a *Arena) Key(h Handle) (string, bool) {
	key, ok := a.live[h]
	return key, ok
}

// Alive reports whether h refers to an existing target.
func (a *Arena) Alive(h Handle) bool {
	_, ok := a.live[h]
	return ok
}

// Retire marks h dead.
func (a *Arena) Retire(h Handle) {
	if key, ok := a.live[h]; ok {
		delete(a.live, h)
		delete(a.byKey, key)
	}
}

// RetireKey retires the live handle for key, if any.
func (a *Arena) RetireKey(key string) {
	if h, ok := a.byKey[key]; ok {
		a.Retire(h)
	}
}

// RetireAll retires every handle.
func (a *Arena) RetireAll() {
	clear(a.live)
	clear(a.byKey)
}

// Live returns the number of live handles.
func (a *Arena) Live() int { return len(a.live) }
