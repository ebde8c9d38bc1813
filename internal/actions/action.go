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

// Package actions implements the undo/redo history of the graph editor.
//
// Actions refer to their targets through Arena handles instead of pointers,
// so an action whose target was removed outside the history reports itself
// obsolete and is skipped.
package actions

// Action is one undoable edit.
type Action interface {
	// Execute performs the action the first time.
	Execute() error
	// Undo reverses it.
	Undo() error
	// Redo re-applies it after an undo.
	Redo() error
	// Obsolete reports whether the action's target no longer exists.
	Obsolete() bool
	// Cleanup releases whatever the action holds once it leaves the history.
	Cleanup()
}

// Func adapts plain functions to an Action. Nil functions are no-ops and a
// nil RedoFn falls back to ExecuteFn.
type Func struct {
	Name       string
	ExecuteFn  func() error
	UndoFn     func() error
	RedoFn     func() error
	ObsoleteFn func() bool
	CleanupFn  func()
}

func call(f func() error) error {
	if f == nil {
		return nil
	}
	return f()
}

func (f *Func) Execute() error { return call(f.ExecuteFn) }
func (f *Func) Undo() error    { return call(f.UndoFn) }

func (f *Func) Redo() error {
	if f.RedoFn == nil {
		return call(f.ExecuteFn)
	}
	return f.RedoFn()
}

func (f *Func) Obsolete() bool { return f.ObsoleteFn != nil && f.ObsoleteFn() }

func (f *Func) Cleanup() {
	if f.CleanupFn != nil {
		f.CleanupFn()
	}
}

func (f *Func) String() string { return f.Name }
