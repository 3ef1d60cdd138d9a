// SPDX-License-Identifier: MIT

package quality

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownQuality is returned when a quality identifier cannot be parsed.
var ErrUnknownQuality = fmt.Errorf("unknown quality identifier")

// ParseHeight extracts the pixel height from a video quality ID like "720p".
func ParseHeight(qualityID string) (int, error) {
	h, err := strconv.Atoi(strings.TrimSuffix(qualityID, "p"))
	if err != nil || h <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownQuality, qualityID)
	}
	return h, nil
}

// ParseBitrate extracts the kbps value from an audio quality ID like "192kbps".
func ParseBitrate(qualityID string) (int, error) {
	b, err := strconv.Atoi(strings.TrimSuffix(qualityID, "kbps"))
	if err != nil || b <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownQuality, qualityID)
	}
	return b, nil
}

// VideoFormatExpr builds the yt-dlp format selection expression for a video
// download capped at the given quality tier. An empty qualityID selects the
// best available quality. Without ffmpeg, separately-fetched streams cannot
// be merged, so the expression degrades to single-stream selections.
func VideoFormatExpr(qualityID string, ffmpegAvailable bool) (string, error) {
	if qualityID == "" {
		if ffmpegAvailable {
			return "bestvideo[ext=mp4]+bestaudio[ext=m4a]/bestvideo+bestaudio/best", nil
		}
		return "best[ext=mp4]/best", nil
	}

	h, err := ParseHeight(qualityID)
	if err != nil {
		return "", err
	}
	if ffmpegAvailable {
		return fmt.Sprintf(
			"bestvideo[height<=%d][ext=mp4]+bestaudio[ext=m4a]/bestvideo[height<=%d]+bestaudio/best[height<=%d]",
			h, h, h,
		), nil
	}
	return fmt.Sprintf("best[height<=%d][ext=mp4]/best[height<=%d]", h, h), nil
}

// AudioQualityKbps returns the target bitrate for audio extraction as the
// string yt-dlp expects, defaulting to 192 when no quality is requested.
func AudioQualityKbps(qualityID string) (string, error) {
	if qualityID == "" {
		return "192", nil
	}
	b, err := ParseBitrate(qualityID)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(b), nil
}
