package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	logger.Debug("hidden")
	logger.Info("shown", "count", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "count=3")
}

func TestProgress_Done(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Packed 2 sprites")
	assert.Contains(t, buf.String(), "Packed 2 sprites (")
}

func TestLoggerFromContext(t *testing.T) {
	assert.Same(t, log.Default(), loggerFromContext(context.Background()))

	logger := newLogger(&bytes.Buffer{}, log.DebugLevel)
	assert.Same(t, logger, loggerFromContext(withLogger(context.Background(), logger)))
}
