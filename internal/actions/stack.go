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

	"github.com/go-logr/logr"

	"github.com/climact/climate-action-tool/internal/logging"
)

// DefaultMaxUndo bounds the undo history unless configured otherwise.
const DefaultMaxUndo = 50

// Stack holds the undo and redo histories. It is not safe for concurrent use.
type Stack struct {
	undo    []Action
	redo    []Action
	maxUndo int
	log     logr.Logger
}

// StackOption configures a Stack.
type StackOption func(*Stack)

// WithMaxUndo bounds the undo history. Values below one keep the default.
func WithMaxUndo(n int) StackOption {
	return func(s *Stack) {
		if n > 0 {
			s.maxUndo = n
		}
	}
}

// WithLogger sets the logger used for history tracing.
func WithLogger(l logr.Logger) StackOption { return func(s *Stack) { s.log = l } }

// NewStack returns an empty history.
func NewStack(opts ...StackOption) *Stack {
	s := &Stack{maxUndo: DefaultMaxUndo, log: logging.Log()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxUndo returns the history bound.
func (s *Stack) MaxUndo() int { return s.maxUndo }

// Do executes a and records it. A failed action is not recorded.
func (s *Stack) Do(a Action) error {
	s.clearRedo()
	if err := a.Execute(); err != nil {
		a.Cleanup()
		return fmt.Errorf("executing %v: %w", a, err)
	}
	s.push(a)
	return nil
}

// Record adds an action that has already been executed.
func (s *Stack) Record(a Action) {
	s.clearRedo()
	s.push(a)
}

func (s *Stack) push(a Action) {
	s.undo = append(s.undo, a)
	for len(s.undo) > s.maxUndo {
		pruned := s.undo[0]
		s.undo[0] = nil
		s.undo = s.undo[1:]
		pruned.Cleanup()
		s.log.V(logging.TRACE).Info("Pruned action from history", "action", fmt.Sprint(pruned))
	}
}

// Undo reverses the most recent live action. Obsolete actions on top of the
// history are dropped and cleaned up on the way. It reports whether anything
// was undone.
func (s *Stack) Undo() (bool, error) {
	a, ok := popLive(&s.undo)
	if !ok {
		return false, nil
	}
	if err := a.Undo(); err != nil {
		s.undo = append(s.undo, a)
		return false, fmt.Errorf("undoing %v: %w", a, err)
	}
	s.redo = append(s.redo, a)
	s.log.V(logging.DEBUG).Info("Undo", "action", fmt.Sprint(a))
	return true, nil
}

// Redo re-applies the most recently undone live action.
func (s *Stack) Redo() (bool, error) {
	a, ok := popLive(&s.redo)
	if !ok {
		return false, nil
	}
	if err := a.Redo(); err != nil {
		s.redo = append(s.redo, a)
		return false, fmt.Errorf("redoing %v: %w", a, err)
	}
	s.undo = append(s.undo, a)
	s.log.V(logging.DEBUG).Info("Redo", "action", fmt.Sprint(a))
	return true, nil
}

func popLive(stack *[]Action) (Action, bool) {
	for len(*stack) > 0 {
		last := len(*stack) - 1
		a := (*stack)[last]
		(*stack)[last] = nil
		*stack = (*stack)[:last]
		if !a.Obsolete() {
			return a, true
		}
		a.Cleanup()
	}
	return nil, false
}

func (s *Stack) clearRedo() {
	for _, a := range s.redo {
		a.Cleanup()
	}
	s.redo = nil
}

// Wipe drops both histories.
func (s *Stack) Wipe() {
	for _, a := range s.undo {
		a.Cleanup()
	}
	s.undo = nil
	s.clearRedo()
}

// CanUndo reports whether the undo history holds a live action.
func (s *Stack) CanUndo() bool { return hasLive(s.undo) }

// CanRedo reports whether the redo history holds a live action.
func (s *Stack) CanRedo() bool { return hasLive(s.redo) }

func hasLive(stack []Action) bool {
	for _, a := range stack {
		if !a.Obsolete() {
			return true
		}
	}
	return false
}

// Len returns the undo and redo history lengths.
func (s *Stack) Len() (undo, redo int) { return len(s.undo), len(s.redo) }
