package transform_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeshift/pkg/transform"
)

func TestBuiltinRegistry(t *testing.T) {
	t.Parallel()

	reg := transform.Builtin()

	assert.Equal(t, []string{
		transform.NameFindRequire,
		transform.NameIdentity,
		transform.NameRemoveImport,
		transform.NameRenameRequire,
		transform.NameRequireToImport,
	}, reg.Names())

	for _, tr := range reg.All() {
		assert.NotEmpty(t, tr.Description, tr.Name)
	}

	tr, err := reg.Get(transform.NameFindRequire)
	require.NoError(t, err)
	assert.Equal(t, transform.NameFindRequire, tr.Name)
	require.Len(t, tr.Params, 1)
	assert.Equal(t, transform.DefaultRequireTarget, tr.Params[0].Default)
}

func TestRegistryErrors(t *testing.T) {
	t.Parallel()

	reg := transform.NewRegistry()

	_, err := reg.Get("missing")
	require.ErrorIs(t, err, transform.ErrUnknownTransform)

	require.NoError(t, reg.Register(&transform.Transform{Name: "custom"}))
	require.ErrorIs(t, reg.Register(&transform.Transform{Name: "custom"}), transform.ErrDuplicateTransform)
	require.Error(t, reg.Register(&transform.Transform{}))
	require.Error(t, reg.Register(nil))

	assert.Equal(t, []string{"custom"}, reg.Names())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	t.Parallel()

	reg := transform.Builtin()

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 100 {
				_, err := reg.Get(transform.NameIdentity)
				assert.NoError(t, err)
				assert.Len(t, reg.All(), 5)
			}
		}()
	}

	wg.Wait()
}
