package native

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glcanvas/geom"
)

func TestHeadlessIsAlwaysRegistered(t *testing.T) {
	assert.Contains(t, Variants(), "headless")
	assert.NotEmpty(t, Best())
}

func TestCreateUnknownVariant(t *testing.T) {
	_, err := Create(Config{Variant: "vulkan"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoVariant)
}

func TestCreateFailureIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	Register("failing", func(Config) (Context, error) { return nil, boom })
	t.Cleanup(func() { variants.Unregister("failing") })

	_, err := Create(Config{Variant: "failing"})
	assert.ErrorIs(t, err, ErrCreateFailed)
	assert.ErrorIs(t, err, boom)
}

func TestHeadlessContext(t *testing.T) {
	ctx, err := Create(Config{Variant: "headless", Width: 32, Height: 16})
	require.NoError(t, err)
	defer ctx.Close()

	w, h := ctx.Size()
	assert.Equal(t, 32, w)
	assert.Equal(t, 16, h)
	assert.Equal(t, gputypes.GLBackendGLES, ctx.Flavour())
	require.NotNil(t, ctx.Functions())

	assert.False(t, ctx.IsActive())
	assert.False(t, ctx.SetSwapInterval(1), "swap interval set while inactive")
	require.True(t, ctx.MakeActive())
	assert.True(t, ctx.IsActive())
	assert.True(t, ctx.SetSwapInterval(2))
	assert.Equal(t, 2, ctx.SwapInterval())
	assert.Nil(t, ctx.ExtensionFunction("glDebugMessageCallback"))

	ctx.SwapBuffers()
	ctx.SwapBuffers()
	assert.Equal(t, 2, ctx.(*Headless).Frames())

	ctx.UpdateWindowPosition(geom.NewRect(10, 10, 64, 48))
	w, h = ctx.Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 48, h)

	ctx.Deactivate()
	assert.False(t, ctx.IsActive())
}

func TestOnlyOneHeadlessContextIsActive(t *testing.T) {
	a, err := Create(Config{Variant: "headless"})
	require.NoError(t, err)
	b, err := Create(Config{Variant: "headless", ShareWith: a})
	require.NoError(t, err)

	require.True(t, a.MakeActive())
	require.True(t, b.MakeActive())
	assert.False(t, a.IsActive())
	assert.True(t, b.IsActive())
	assert.Same(t, a.(*Headless).Sim(), b.(*Headless).Sim(), "shared context has its own simulator")

	a.Deactivate()
	assert.True(t, b.IsActive(), "deactivating an inactive context deactivated another")

	require.NoError(t, b.Close())
	assert.False(t, b.MakeActive(), "closed context became active")
	require.NoError(t, a.Close())
}

func TestCreateDefaults(t *testing.T) {
	var got Config
	Register("recording", func(cfg Config) (Context, error) {
		got = cfg
		return newHeadless(cfg)
	})
	t.Cleanup(func() { variants.Unregister("recording") })

	ctx, err := Create(Config{Variant: "recording"})
	require.NoError(t, err)
	defer ctx.Close()
	assert.Equal(t, Default(), got.Format)
	assert.Equal(t, 1, got.Width)
	assert.Equal(t, 1, got.Height)
}
