package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFields(t *testing.T) {
	tests := []struct {
		name string
		kv   []string
		want map[string]string
	}{
		{
			name: "trims keys and values",
			kv:   []string{"  replica  ", "  mentor  "},
			want: map[string]string{"replica": "mentor"},
		},
		{
			name: "skips blank values and keys",
			kv:   []string{"category", "   ", "  ", "investors", "replica", "buddy"},
			want: map[string]string{"replica": "buddy"},
		},
		{
			name: "drops a dangling key",
			kv:   []string{"replica", "buddy", "category"},
			want: map[string]string{"replica": "buddy"},
		},
		{
			name: "nothing",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make(map[string]string)
			for _, f := range Fields(tt.kv...) {
				got[f.Key] = f.String
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWith(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	With(zap.New(core), zap.String("foo", "bar")).Info("test log")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "bar", entries[0].ContextMap()["foo"])

	fallback := With(nil, zap.String("baz", "qux"))
	require.NotNil(t, fallback)
	assert.NotPanics(t, func() { fallback.Info("another log") })

	plain := zap.New(core)
	assert.Same(t, plain, With(plain))
}

func TestWithAI(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithAI(zap.New(core), "gemini", " ").Info("reply")

	ctx := observed.All()[0].ContextMap()
	assert.Equal(t, "gemini", ctx[FieldProvider])
	assert.NotContains(t, ctx, FieldModel)
}

func TestSessionFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	zap.New(core).Info("processed", MessageFields("m1", "matchmaker", "investors")...)
	zap.New(core).Info("no replica", SessionFields("", "general")...)

	entries := observed.All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{
		FieldMessageID: "m1",
		FieldReplica:   "matchmaker",
		FieldCategory:  "investors",
	}, entries[0].ContextMap())
	assert.Equal(t, map[string]interface{}{FieldCategory: "general"}, entries[1].ContextMap())
}

func TestNew(t *testing.T) {
	for _, opts := range []Options{{}, {JSON: true, Debug: true, Output: "stderr"}} {
		log, err := New(opts)
		require.NoError(t, err)
		assert.Equal(t, opts.Debug, log.Core().Enabled(zapcore.DebugLevel))
	}
}
