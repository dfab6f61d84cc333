package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/recyclebin/pkg/logger"
)

func TestContextWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithTextFormatter())

	ctx := logger.ContextWithAttrs(context.Background(), slog.String("command", "purge"))
	ctx = logger.ContextWithAttrs(ctx, logger.Store("recycle"))
	log.With(logger.Component("cli")).InfoContext(ctx, "done")

	out := buf.String()
	assert.Contains(t, out, "command=purge")
	assert.Contains(t, out, "store=recycle")
	assert.Contains(t, out, "component=cli")

	assert.Equal(t, context.Background(), logger.ContextWithAttrs(context.Background()))
}

func TestDecoratorSkipsDisabledLevels(t *testing.T) {
	t.Parallel()

	calls := 0
	extractor := func(context.Context) (slog.Attr, bool) {
		calls++
		return slog.String("k", "v"), true
	}

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithLevel(slog.LevelWarn),
		logger.WithContextExtractors(extractor, nil),
	)
	log.Info("hidden")
	log.Warn("shown")

	assert.Equal(t, 1, calls)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"k":"v"`)
}
