package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuiltinAssets(t *testing.T) {
	d, err := Open("", zap.NewNop())
	require.NoError(t, err)

	clip, ok := d.TryGetAudio("Hollow_Bass")
	require.True(t, ok)
	buf, format, err := clip.Clip()
	require.NoError(t, err)
	assert.Equal(t, 22050, int(format.SampleRate))
	assert.Greater(t, buf.Len(), 10000)

	for _, name := range []string{"sphere", "floor"} {
		_, ok := d.TryGetMaterial(name)
		assert.True(t, ok, name)
	}
	_, ok = d.TryGetMesh("sphere")
	assert.True(t, ok)
}

func TestOpenMissingDir(t *testing.T) {
	_, err := Open(t.TempDir()+"/nope", zap.NewNop())
	assert.Error(t, err)
}
