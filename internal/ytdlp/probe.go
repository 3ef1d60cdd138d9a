// SPDX-License-Identifier: MIT

package ytdlp

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

const probeTimeout = 5 * time.Second

// FFmpegAvailable reports whether the transcoding tool is reachable. Probed
// once per process; the result decides whether merge and audio-extraction
// options are requested at all.
func (c *Client) FFmpegAvailable() bool {
	c.ffmpegOnce.Do(func() {
		if _, err := exec.LookPath(c.ffmpegPath); err == nil {
			c.ffmpegOK = true
			return
		}
		// PATH lookup can fail for relative binaries; try running it.
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		c.ffmpegOK = exec.CommandContext(ctx, c.ffmpegPath, "-version").Run() == nil // #nosec G204 -- binary path from config
		if !c.ffmpegOK {
			c.logger.Warn().
				Str("event", "ffmpeg.unavailable").
				Str("path", c.ffmpegPath).
				Msg("ffmpeg not found, downloads degrade to single-stream formats")
		}
	})
	return c.ffmpegOK
}

// Version returns the extractor tool's version string, or an error when the
// tool is not reachable.
func (c *Client) Version(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.ytdlpPath, "--version") // #nosec G204 -- binary path from config
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", &ToolError{Tool: "yt-dlp", Err: err}
	}
	return strings.TrimSpace(out.String()), nil
}
