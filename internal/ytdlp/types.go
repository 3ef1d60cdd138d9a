// SPDX-License-Identifier: MIT

package ytdlp

import "fmt"

// Format is one stream variant as reported by the extractor's JSON dump.
// Every field is optional on the wire; zero values mean "not reported".
type Format struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	FPS            float64 `json:"fps"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	ABR            float64 `json:"abr"`
	TBR            float64 `json:"tbr"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	FormatNote     string  `json:"format_note"`
	Resolution     string  `json:"resolution"`
}

// Info is the metadata object the extractor returns for a video URL.
type Info struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    float64  `json:"duration"`
	Thumbnail   string   `json:"thumbnail"`
	Uploader    string   `json:"uploader"`
	UploaderURL string   `json:"uploader_url"`
	ViewCount   int64    `json:"view_count"`
	LikeCount   int64    `json:"like_count"`
	UploadDate  string   `json:"upload_date"`
	WebpageURL  string   `json:"webpage_url"`
	Formats     []Format `json:"formats"`
}

// DurationFormatted renders the duration as H:MM:SS, or M:SS under an hour.
func (i Info) DurationFormatted() string {
	total := int(i.Duration)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// DownloadOptions describe one download invocation of the external tool.
type DownloadOptions struct {
	URL            string
	Format         string // format selection expression
	OutputTemplate string // yt-dlp output template, e.g. dir/%(title)s_ab12cd34.%(ext)s
	MergeFormat    string // container for merged streams, "" requests no merge
	ExtractAudio   bool   // re-encode the download to an audio file
	AudioFormat    string // target audio codec when extracting, e.g. "mp3"
	AudioQuality   string // target bitrate in kbps when extracting, e.g. "192"
	Progress       *ProgressState
}

// ToolError is the uniform failure carried across the external-tool boundary.
// It keeps the tool's trailing output for diagnosis without leaking the
// process-level error type to callers.
type ToolError struct {
	Tool   string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s failed: %v: %s", e.Tool, e.Err, e.Output)
	}
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }
