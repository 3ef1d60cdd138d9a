// SPDX-License-Identifier: MIT

package quality

import (
	"fmt"
	"sort"
)

// NoCodec is the sentinel the extractor reports for an absent codec.
const NoCodec = "none"

// Format is the subset of a stream variant's metadata the matcher needs.
// Any field may be zero: absent values never cause an error, they simply
// exclude the variant from matching.
type Format struct {
	Height int     // vertical resolution in pixels, 0 if unknown
	VCodec string  // video codec, "" or "none" when absent
	ACodec string  // audio codec, "" or "none" when absent
	ABR    float64 // audio bitrate in kbps, 0 if unknown
	TBR    float64 // total bitrate in kbps, 0 if unknown
}

// HasVideo reports whether the variant carries a real video stream.
func (f Format) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != NoCodec
}

// HasAudio reports whether the variant carries a real audio stream.
func (f Format) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != NoCodec
}

// EffectiveBitrate returns the audio-specific bitrate, falling back to the
// total bitrate when the former is absent.
func (f Format) EffectiveBitrate() float64 {
	if f.ABR > 0 {
		return f.ABR
	}
	return f.TBR
}

// Option is a catalog tier confirmed satisfiable by at least one format.
type Option struct {
	QualityID  string    `json:"quality_id"`
	Label      string    `json:"label"`
	Resolution string    `json:"resolution,omitempty"`
	Height     int       `json:"height,omitempty"`
	Bitrate    int       `json:"bitrate,omitempty"`
	Type       MediaType `json:"format_type"`
}

// Matching tolerances between a tier's nominal target and an actually
// available value.
const (
	heightTolerance  = 100 // pixels
	bitrateTolerance = 50  // kbps
)

// SelectVideoQualities returns the catalog tiers satisfiable by the given
// formats, highest quality first. Each available height satisfies at most one
// tier: the tier whose nominal height it is closest to, within tolerance.
func SelectVideoQualities(formats []Format) []Option {
	seen := make(map[int]bool)
	heights := make([]int, 0, len(formats))
	for _, f := range formats {
		if f.Height > 0 && f.HasVideo() && !seen[f.Height] {
			seen[f.Height] = true
			heights = append(heights, f.Height)
		}
	}
	// Sorted candidate order keeps equal-distance ties deterministic.
	sort.Ints(heights)

	taken := make(map[int]bool)
	options := make([]Option, 0, len(VideoTiers))
	for _, tier := range VideoTiers {
		best := -1
		bestDist := 0
		for _, h := range heights {
			if taken[h] {
				continue // consumed by a higher tier
			}
			d := abs(h - tier.Height)
			if best == -1 || d < bestDist {
				best, bestDist = h, d
			}
		}
		if best == -1 || bestDist > heightTolerance {
			continue
		}
		taken[best] = true
		options = append(options, Option{
			QualityID:  tier.ID,
			Label:      tier.Label,
			Resolution: fmt.Sprintf("%dp", best),
			Height:     best,
			Type:       Video,
		})
	}
	return options
}

// SelectAudioQualities returns every catalog tier whose nominal bitrate is
// within tolerance of the best available audio bitrate, highest first. When
// nothing matches, the 128 kbps tier is returned alone so the audio path is
// never empty. That fallback is a deliberate policy: a source with no codec
// metadata is still offered a standard-quality audio download.
func SelectAudioQualities(formats []Format) []Option {
	var maxBitrate float64
	for _, f := range formats {
		if !f.HasAudio() {
			continue
		}
		if br := f.EffectiveBitrate(); br > maxBitrate {
			maxBitrate = br
		}
	}

	options := make([]Option, 0, len(AudioTiers))
	for _, tier := range AudioTiers {
		if float64(tier.Bitrate) <= maxBitrate+bitrateTolerance {
			options = append(options, Option{
				QualityID: tier.ID,
				Label:     tier.Label,
				Bitrate:   tier.Bitrate,
				Type:      Audio,
			})
		}
	}

	if len(options) == 0 {
		options = append(options, Option{
			QualityID: fallbackAudioTier.ID,
			Label:     fallbackAudioTier.Label,
			Bitrate:   fallbackAudioTier.Bitrate,
			Type:      Audio,
		})
	}
	return options
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
