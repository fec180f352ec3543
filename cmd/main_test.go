package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestExitCodeLogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	err := errors.New("recording failed: ffmpeg exited")
	assert.Equal(t, 1, exitCode(logger, err))

	entries := logs.FilterMessage("goglass failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, err.Error(), entries[0].ContextMap()["error"])
}

func TestExitCodeSuccess(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	assert.Equal(t, 0, exitCode(zap.New(core), nil))
	assert.Zero(t, logs.Len())
}
