//go:build !windows

package stderr

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCapture_LogsLines(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	restore, err := Capture(zap.New(core))
	require.NoError(t, err)

	fmt.Fprintln(os.Stderr, "ALSA lib pcm.c:8526: underrun occurred")
	fmt.Fprintln(os.Stderr, "   ")
	restore()
	restore()

	entries := logs.FilterMessage("stderr").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ALSA lib pcm.c:8526: underrun occurred", entries[0].ContextMap()["line"])
}
