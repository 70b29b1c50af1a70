package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/segue/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelReader(t *testing.T) {
	done := make(chan struct{})
	r := cancelReader{r: strings.NewReader("hello\n"), done: done}

	buf := make([]byte, 16)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(buf[:n]))

	close(done)
	_, err = r.Read(buf)
	assert.ErrorIs(t, err, errInterrupted)
	assert.True(t, isInterrupted(err))
	assert.False(t, isInterrupted(io.EOF))
}

func TestRunChat_CancelledIsCleanExit(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err = RunChat(ctx, app, ChatOptions{Input: strings.NewReader("never read\n"), Output: &out})
	require.NoError(t, err)
	assert.Contains(t, out.String(), ">>> Interrupted.")
	assert.Empty(t, app.Chat.Messages())
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger("chatty")
	assert.Error(t, err)
}
