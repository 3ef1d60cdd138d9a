// SPDX-License-Identifier: MIT

package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoFormatExpr_WithQuality(t *testing.T) {
	expr, err := VideoFormatExpr("720p", true)
	require.NoError(t, err)
	assert.Equal(t,
		"bestvideo[height<=720][ext=mp4]+bestaudio[ext=m4a]/bestvideo[height<=720]+bestaudio/best[height<=720]",
		expr,
	)
}

func TestVideoFormatExpr_WithoutFFmpeg(t *testing.T) {
	expr, err := VideoFormatExpr("1080p", false)
	require.NoError(t, err)
	assert.Equal(t, "best[height<=1080][ext=mp4]/best[height<=1080]", expr)
}

func TestVideoFormatExpr_Default(t *testing.T) {
	expr, err := VideoFormatExpr("", true)
	require.NoError(t, err)
	assert.Equal(t, "bestvideo[ext=mp4]+bestaudio[ext=m4a]/bestvideo+bestaudio/best", expr)

	expr, err = VideoFormatExpr("", false)
	require.NoError(t, err)
	assert.Equal(t, "best[ext=mp4]/best", expr)
}

func TestVideoFormatExpr_Invalid(t *testing.T) {
	for _, id := range []string{"hd", "p", "-1p", "0p"} {
		_, err := VideoFormatExpr(id, true)
		assert.ErrorIs(t, err, ErrUnknownQuality, "quality %q", id)
	}
}

func TestAudioQualityKbps(t *testing.T) {
	got, err := AudioQualityKbps("320kbps")
	require.NoError(t, err)
	assert.Equal(t, "320", got)

	got, err = AudioQualityKbps("")
	require.NoError(t, err)
	assert.Equal(t, "192", got)

	_, err = AudioQualityKbps("loud")
	assert.ErrorIs(t, err, ErrUnknownQuality)
}
