// SPDX-License-Identifier: MIT

// Package quality maps the heterogeneous format lists reported for a video
// onto a fixed catalog of user-facing quality tiers, and translates a chosen
// tier into a yt-dlp format selection expression.
package quality

// MediaType distinguishes the two download paths.
type MediaType string

const (
	Video MediaType = "video"
	Audio MediaType = "audio"
)

// VideoTier is one catalog entry for video quality, keyed by vertical resolution.
type VideoTier struct {
	ID     string
	Label  string
	Height int
}

// AudioTier is one catalog entry for audio quality, keyed by bitrate in kbps.
type AudioTier struct {
	ID      string
	Label   string
	Bitrate int
}

// VideoTiers is the fixed video catalog, highest quality first.
var VideoTiers = []VideoTier{
	{ID: "2160p", Label: "4K (2160p)", Height: 2160},
	{ID: "1440p", Label: "2K (1440p)", Height: 1440},
	{ID: "1080p", Label: "Full HD (1080p)", Height: 1080},
	{ID: "720p", Label: "HD (720p)", Height: 720},
	{ID: "480p", Label: "SD (480p)", Height: 480},
	{ID: "360p", Label: "Low (360p)", Height: 360},
	{ID: "240p", Label: "Very Low (240p)", Height: 240},
	{ID: "144p", Label: "Minimum (144p)", Height: 144},
}

// AudioTiers is the fixed audio catalog, highest quality first.
var AudioTiers = []AudioTier{
	{ID: "320kbps", Label: "High (320 kbps)", Bitrate: 320},
	{ID: "256kbps", Label: "Good (256 kbps)", Bitrate: 256},
	{ID: "192kbps", Label: "Medium (192 kbps)", Bitrate: 192},
	{ID: "128kbps", Label: "Standard (128 kbps)", Bitrate: 128},
	{ID: "96kbps", Label: "Low (96 kbps)", Bitrate: 96},
	{ID: "64kbps", Label: "Very Low (64 kbps)", Bitrate: 64},
}

// fallbackAudioTier is emitted when no audio codec is detected at all, so the
// audio path always offers at least one option.
var fallbackAudioTier = AudioTiers[3] // 128kbps
