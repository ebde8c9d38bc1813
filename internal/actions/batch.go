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

import (
	"fmt"
	"strings"
)

// Batch groups actions into one history entry. Execute and Redo run in
// order, Undo in reverse.
type Batch struct {
	Name    string
	actions []Action
}

// NewBatch returns a batch of actions, skipping nil ones.
func NewBatch(name string, actions ...Action) *Batch {
	b := &Batch{Name: name}
	b.Add(actions...)
	return b
}

// Add appends actions to the batch.
func (b *Batch) Add(actions ...Action) {
	for _, a := range actions {
		if a != nil {
			b.actions = append(b.actions, a)
		}
	}
}

// Len returns the number of grouped actions.
func (b *Batch) Len() int { return len(b.actions) }

// Execute runs every action. On failure the already executed ones are undone.
func (b *Batch) Execute() error {
	for i, a := range b.actions {
		if err := a.Execute(); err != nil {
			b.rollback(i)
			return err
		}
	}
	return nil
}

func (b *Batch) rollback(done int) {
	for i := done - 1; i >= 0; i-- {
		_ = b.actions[i].Undo()
	}
}

// Undo reverts every action. On failure the already reverted ones are redone,
// so the batch stays applied.
func (b *Batch) Undo() error {
	for i := len(b.actions) - 1; i >= 0; i-- {
		if err := b.actions[i].Undo(); err != nil {
			for _, a := range b.actions[i+1:] {
				_ = a.Redo()
			}
			return err
		}
	}
	return nil
}

// Redo replays every action. On failure the already replayed ones are undone.
func (b *Batch) Redo() error {
	for i, a := range b.actions {
		if err := a.Redo(); err != nil {
			b.rollback(i)
			return err
		}
	}
	return nil
}

// Obsolete reports whether any member lost its target; a partial batch
// cannot be replayed.
func (b *Batch) Obsolete() bool {
	for _, a := range b.actions {
		if a.Obsolete() {
			return true
		}
	}
	return false
}

func (b *Batch) Cleanup() {
	for _, a := range b.actions {
		a.Cleanup()
	}
}

func (b *Batch) String() string {
	names := make([]string, len(b.actions))
	for i, a := range b.actions {
		names[i] = fmt.Sprint(a)
	}
	return fmt.Sprintf("%s[%s]", b.Name, strings.Join(names, ", "))
}
