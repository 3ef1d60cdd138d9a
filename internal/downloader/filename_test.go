// SPDX-License-Identifier: MIT
package downloader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "My Video", "My Video"},
		{"reserved characters", `a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"trailing dots and spaces", "clip.. ", "clip"},
		{"empty", "", "video"},
		{"only reserved", "???", "___"},
		{"unicode preserved", "日本語タイトル", "日本語タイトル"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestSanitizeFilename_CapsLength(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("a", 500))
	assert.Len(t, got, 200)
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://example.com/watch?v=1"))
	assert.NoError(t, ValidateURL("http://example.com"))

	for _, bad := range []string{"", "notaurl", "ftp://example.com/x", "https://", "://missing"} {
		assert.ErrorIs(t, ValidateURL(bad), ErrInvalidRequest, bad)
	}
}
