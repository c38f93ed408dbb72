package qrcode_test

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/utadmin/pkg/qrcode"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("returns error when content is empty", func(t *testing.T) {
		t.Parallel()
		result, err := qrcode.Generate("", 256)
		require.Nil(t, result)
		assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
	})

	t.Run("returns error when content is whitespace only", func(t *testing.T) {
		t.Parallel()
		result, err := qrcode.Generate("   \t\n", 256)
		require.Nil(t, result)
		assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
	})

	t.Run("generates PNG of requested size", func(t *testing.T) {
		t.Parallel()
		result, err := qrcode.Generate("otpauth://totp/UT-Admin%20Panel:alice@example.com?secret=JBSWY3DPEHPK3PXP", 256)
		require.NoError(t, err)
		require.NotEmpty(t, result)

		img, err := png.Decode(bytes.NewReader(result))
		require.NoError(t, err, "result should be a valid PNG image")
		assert.Equal(t, 256, img.Bounds().Dx())
		assert.Equal(t, 256, img.Bounds().Dy())
	})

	t.Run("falls back to default size for non-positive sizes", func(t *testing.T) {
		t.Parallel()
		for _, size := range []int{0, -10} {
			result, err := qrcode.Generate("https://example.com", size)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(result))
			require.NoError(t, err)
			assert.Equal(t, 256, img.Bounds().Dx())
			assert.Equal(t, 256, img.Bounds().Dy())
		}
	})

	t.Run("returns error when content exceeds QR capacity", func(t *testing.T) {
		t.Parallel()
		result, err := qrcode.Generate(strings.Repeat("x", 8000), 256)
		require.Nil(t, result)
		assert.ErrorIs(t, err, qrcode.ErrFailedToGenerateQRCode)
	})
}

func TestGenerateBase64Image(t *testing.T) {
	t.Parallel()

	t.Run("returns error when content is empty", func(t *testing.T) {
		t.Parallel()
		result, err := qrcode.GenerateBase64Image("", 256)
		require.Empty(t, result)
		assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
	})

	t.Run("produces a decodable PNG data URI", func(t *testing.T) {
		t.Parallel()
		result, err := qrcode.GenerateBase64Image("https://example.com", 256)
		require.NoError(t, err)

		const prefix = "data:image/png;base64,"
		require.True(t, strings.HasPrefix(result, prefix), "result should be a data URI")

		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(result, prefix))
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(decoded))
		require.NoError(t, err)
		assert.Equal(t, 256, img.Bounds().Dx())
		assert.Equal(t, 256, img.Bounds().Dy())
	})
}
