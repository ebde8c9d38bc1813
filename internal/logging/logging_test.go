package logging

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		want    int
		wantErr bool
	}{
		{name: "empty defaults to info", level: "", want: INFO},
		{name: "info", level: "info", want: INFO},
		{name: "debug mixed case", level: " Debug ", want: DEBUG},
		{name: "trace", level: "trace", want: TRACE},
		{name: "unknown", level: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", false)
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	l := NewTestLogger().WithName("ctx")
	ctx := IntoContext(context.Background(), l)
	assert.Equal(t, l, FromContext(ctx))
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	SetLogger(logr.Discard())
	assert.Equal(t, logr.Discard(), FromContext(context.Background()))
}
