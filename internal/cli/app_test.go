package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/segue/internal/logging"
	"github.com/aretw0/segue/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() Config {
	cfg := DefaultConfig()
	cfg.Settings.Backend = BackendMemory
	cfg.Chat.Path = ""
	cfg.Chat.Character = "Seraphina"
	cfg.Generator.Provider = "none"
	return cfg
}

func TestNewApp_Memory(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(ctx, memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	defer app.Close()

	outcome := app.Engine.Invoke(ctx, []string{"style=noir", "the", "docks"})
	assert.Equal(t, domain.OutcomeInserted, outcome)

	msgs := app.Chat.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Seraphina", msgs[0].Name)
	assert.Equal(t, "[scene transition unavailable] note: the docks | style: noir", msgs[0].Mes)
	assert.Nil(t, app.Images)
}

func TestNewApp_FileBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := memoryConfig()
	cfg.Settings.Backend = BackendFile
	cfg.Settings.Path = filepath.Join(dir, "settings.json")
	cfg.Chat.Path = filepath.Join(dir, "chat.json")

	app, err := NewApp(ctx, cfg, logging.NewNop())
	require.NoError(t, err)

	require.NoError(t, app.Engine.Initialize(ctx))
	assert.Equal(t, domain.OutcomeInserted, app.Engine.Transition(ctx, domain.Request{}))
	require.NoError(t, app.Close())

	_, err = os.Stat(cfg.Settings.Path)
	assert.NoError(t, err, "settings flushed on close")
	data, err := os.ReadFile(cfg.Chat.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scene transition unavailable")
}

func TestNewApp_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	cfg := memoryConfig()
	cfg.Settings.Backend = BackendRedis
	cfg.Settings.Redis.Address = mr.Addr()

	app, err := NewApp(ctx, cfg, logging.NewNop())
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.Engine.Initialize(ctx))
	assert.True(t, mr.Exists("segue:settings:"+domain.SettingsKey))
}

func TestNewApp_ImageBackendWired(t *testing.T) {
	cfg := memoryConfig()
	cfg.Image.Source = "comfy"
	cfg.Image.Command = "true"

	app, err := NewApp(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.Images)
	assert.Equal(t, "comfy", app.Images.Source())
}

func TestHandler_Metrics(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(ctx, memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	defer app.Close()

	h := Handler(app, true)

	req := httptest.NewRequest("POST", "/transition", strings.NewReader(`{"note":"dawn"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/metrics", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), `segue_transitions_total{result="inserted"} 1`)
	assert.Contains(t, string(body), "segue_transitions_degraded_total 1")
}

func TestRunChat_Headless(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(ctx, memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	defer app.Close()

	in := strings.NewReader("We should leave.\n/scene max=40 background=no the old mill\n/quit\n")
	var out bytes.Buffer

	err = RunChat(ctx, app, ChatOptions{Headless: true, User: "Ana", Input: in, Output: &out})
	require.NoError(t, err)

	msgs := app.Chat.Messages()
	require.Len(t, msgs, 2)
	assert.True(t, msgs[0].IsUser)
	assert.Equal(t, "Ana", msgs[0].Name)
	assert.Equal(t, "Seraphina", msgs[1].Name)
	assert.Contains(t, out.String(), domain.OutcomeInserted.String())
}
