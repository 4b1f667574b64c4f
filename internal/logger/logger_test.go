package logger

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]log.Level{
		"debug":   log.DebugLevel,
		"info":    log.InfoLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"bogus":   log.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestComponentLoggersCarryFields(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter("debug", &buf)
	t.Cleanup(func() { Initialize("info") })

	Repository("voter").Info("stored")
	Tally().Warn("partial")

	out := buf.String()
	assert.Contains(t, out, "repository=voter")
	assert.Contains(t, out, "component=tally")
}

func TestGetConcurrentWithInitialize(t *testing.T) {
	mu.Lock()
	Logger = nil
	mu.Unlock()
	t.Cleanup(func() { Initialize("info") })

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NotNil(t, Get())
		}()
		go func() {
			defer wg.Done()
			InitializeWithWriter("error", io.Discard)
		}()
	}
	wg.Wait()

	require.NotNil(t, Get())
}
