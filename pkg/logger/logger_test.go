package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*BaseLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewLogger(zap.New(core), "[shop]"), logs
}

func TestBaseLogger_Prefix(t *testing.T) {
	log, logs := observed()

	log.Log("fetched %d items", 3)
	log.WithPrefix("[products]").Log("done")
	log.SetPrefix("")
	log.Warn("bare")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "[shop] fetched 3 items", entries[0].Message)
	assert.Equal(t, "[shop] [products] done", entries[1].Message)
	assert.Equal(t, "bare", entries[2].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
}

func TestNew(t *testing.T) {
	for _, cfg := range []*Config{
		nil,
		DefaultConfig(),
		{Level: "debug", Format: "json", Output: "stdout"},
	} {
		z, err := New(cfg)
		require.NoError(t, err)
		assert.NotNil(t, z)
	}

	_, err := New(&Config{Output: t.TempDir()})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "hello     ", PadRight("hello", 10))
	assert.Equal(t, "verylongword", PadRight("verylongword", 2))
	assert.Equal(t, "exactlen", PadRight("exactlen", 8))
}

func TestCountLines(t *testing.T) {
	lines := CountLines(map[string]int{"Something": 5, "Cool": 20, "Shop": 1, "Pages": 5})
	assert.Equal(t, []string{
		"::   + Cool        : 20",
		"::   + Pages       : 5",
		"::   + Something   : 5",
		"::   + Shop        : 1",
	}, lines)
}

func TestStageLogger(t *testing.T) {
	log, logs := observed()
	log.SetPrefix("")
	stage := NewStageLogger(log)

	stage.StageStart("Fetching Countries", 0)
	stage.StageItemCount(map[string]int{"Products": 2, "Shop": 1})

	entries := logs.All()
	require.Len(t, entries, 5)
	assert.Equal(t, "Stage 0 :: Fetching Countries", entries[0].Message)
	assert.Equal(t, "        ::  ", entries[1].Message)
	assert.Equal(t, "        :: 3 Items Processed In This Stage:", entries[2].Message)
	assert.Equal(t, "        ::   + Products    : 2", entries[3].Message)
	assert.Equal(t, "        ::   + Shop        : 1", entries[4].Message)
}
