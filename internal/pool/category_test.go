package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Projectile", Projectile},
		{"projectiles", Projectile},
		{"vfx", VFX},
		{" AudioSource ", AudioSource},
		{"audiosources", AudioSource},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseCategory("music")
	assert.Error(t, err)
}

func TestCategoryNames(t *testing.T) {
	assert.Equal(t, "Projectiles", Projectile.AnchorName())
	assert.Equal(t, "AudioSources", AudioSource.AnchorName())
	assert.Equal(t, "VFX", VFX.String())

	bad := Category(42)
	assert.False(t, bad.Valid())
	assert.Equal(t, "Category(42)", bad.String())
	assert.Empty(t, bad.AnchorName())
	assert.Len(t, Categories(), 3)
}
