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

package logging

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels passed to logr's V().
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

var (
	mu  sync.RWMutex
	log = logr.Discard()
)

// Log returns the process-wide logger. It discards everything until SetLogger is called.
func Log() logr.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLogger replaces the process-wide logger.
func SetLogger(l logr.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// ParseLevel maps a level name to a logr verbosity.
func ParseLevel(level string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return INFO, nil
	case "debug":
		return DEBUG, nil
	case "trace":
		return TRACE, nil
	default:
		return 0, fmt.Errorf("unsupported log level %q (want info, debug or trace)", level)
	}
}

// New builds a zap-backed logr.Logger. Development loggers write human readable
// console output, production loggers write JSON to stderr.
func New(level string, development bool) (logr.Logger, error) {
	v, err := ParseLevel(level)
	if err != nil {
		return logr.Discard(), err
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	// zapr maps V(n) to zap level -n
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-v))
	cfg.OutputPaths = []string{"stderr"}

	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("building zap logger: %w", err)
	}
	return zapr.NewLogger(zl), nil
}

// NewTestLogger installs a verbose development logger writing to stderr and returns it.
func NewTestLogger() logr.Logger {
	l, err := New("trace", true)
	if err != nil {
		l = logr.Discard()
	}
	SetLogger(l)
	return l
}

// FromContext returns the logger stored in ctx, or the process-wide logger.
func FromContext(ctx context.Context) logr.Logger {
	if l, err := logr.FromContext(ctx); err == nil {
		return l
	}
	return Log()
}

// IntoContext returns a copy of ctx carrying l.
func IntoContext(ctx context.Context, l logr.Logger) context.Context {
	return logr.NewContext(ctx, l)
}
