package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/segue/pkg/domain"
	"github.com/aretw0/segue/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSettingsStoreContract runs a suite of tests to verify that a SettingsStore
// implementation adheres to the interface contract.
func RunSettingsStoreContract(t *testing.T, store ports.SettingsStore) {
	t.Helper()
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405.000000")

	t.Run("Load Missing", func(t *testing.T) {
		_, err := store.Load(ctx, key+"-missing")
		assert.ErrorIs(t, err, domain.ErrSettingsNotFound)
	})

	t.Run("Save and Load", func(t *testing.T) {
		blob := map[string]any{
			domain.KeyInstructionTemplate:   "Go somewhere new, {{char}}.",
			domain.KeyAutoTriggerBackground: true,
		}
		require.NoError(t, store.Save(ctx, key, blob))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "Go somewhere new, {{char}}.", loaded[domain.KeyInstructionTemplate])
		assert.Equal(t, true, loaded[domain.KeyAutoTriggerBackground])
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, map[string]any{domain.KeyAutoTriggerBackground: false}))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, false, loaded[domain.KeyAutoTriggerBackground])
		assert.NotContains(t, loaded, domain.KeyInstructionTemplate)
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		loaded["mutated"] = "yes"

		again, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.NotContains(t, again, "mutated")
	})
}
