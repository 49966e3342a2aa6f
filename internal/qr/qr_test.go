package qr

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPNG(t *testing.T) {
	data, err := PNG("http://localhost:8080/confirm/1", 128)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 128, img.Bounds().Dx())
	require.Equal(t, 128, img.Bounds().Dy())
}

func TestPNG_DefaultSize(t *testing.T) {
	data, err := PNG("x", 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, DefaultSize, img.Bounds().Dx())
}

func TestPNG_Empty(t *testing.T) {
	_, err := PNG("", 128)
	require.ErrorIs(t, err, ErrEmptyPayload)
}
