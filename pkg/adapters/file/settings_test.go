package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/segue/pkg/adapters/file"
	"github.com/aretw0/segue/pkg/domain"
	"github.com/aretw0/segue/pkg/ports"
	"github.com/aretw0/segue/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure SettingsStore implements the ports.
var (
	_ ports.SettingsStore    = (*file.SettingsStore)(nil)
	_ ports.DebouncedFlusher = (*file.SettingsStore)(nil)
)

func TestSettingsStore_Contract(t *testing.T) {
	store := file.NewSettingsStore(filepath.Join(t.TempDir(), "settings.json"))
	tests.RunSettingsStoreContract(t, store)
}

func TestSettingsStore_FlushPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	store := file.NewSettingsStore(path)
	require.NoError(t, store.Save(ctx, domain.SettingsKey, domain.Settings{
		InstructionTemplate:   "Move on, {{char}}.",
		AutoTriggerBackground: true,
	}.Blob()))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "save alone must not write")

	require.NoError(t, store.Flush())

	reopened := file.NewSettingsStore(path)
	blob, err := reopened.Load(ctx, domain.SettingsKey)
	require.NoError(t, err)
	assert.Equal(t, "Move on, {{char}}.", blob[domain.KeyInstructionTemplate])
	assert.Equal(t, true, blob[domain.KeyAutoTriggerBackground])
}

func TestSettingsStore_DebouncedFlush(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.json")
	store := file.NewSettingsStore(path, file.WithDebounce(10*time.Millisecond))

	require.NoError(t, store.Save(ctx, domain.SettingsKey, map[string]any{domain.KeyAutoTriggerBackground: true}))
	store.RequestFlush()
	store.RequestFlush()

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, store.Close())
}

func TestSettingsStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := file.NewSettingsStore(path).Load(context.Background(), domain.SettingsKey)
	assert.ErrorContains(t, err, "failed to unmarshal")
}
