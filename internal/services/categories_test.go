package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanzas/internal/apperror"
	"finanzas/internal/records/memory"
)

func TestCategoryServiceLifecycle(t *testing.T) {
	store := memory.New()
	svc := NewCategoryService(store)
	ctx := context.Background()

	key, err := svc.Add(ctx, "Mascotas", "🐕")
	require.NoError(t, err)
	assert.Equal(t, "mascotas", key)

	// The mutation persisted through the settings store.
	registry, err := svc.Registry(ctx)
	require.NoError(t, err)
	assert.True(t, registry.Has("mascotas"))

	require.NoError(t, svc.Update(ctx, key, "Animales", "🐈"))
	registry, err = svc.Registry(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Animales", registry.Label(key))

	require.NoError(t, svc.Remove(ctx, key))
	registry, err = svc.Registry(ctx)
	require.NoError(t, err)
	assert.False(t, registry.Has(key))
}

func TestCategoryServiceErrors(t *testing.T) {
	svc := NewCategoryService(memory.New())
	ctx := context.Background()

	_, err := svc.Add(ctx, "   ", "x")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = svc.Add(ctx, "Mascotas", "🐕")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "mascotas", "🐈") // same derived key
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	err = svc.Update(ctx, "ghost", "x", "y")
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	err = svc.Remove(ctx, "ghost")
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
