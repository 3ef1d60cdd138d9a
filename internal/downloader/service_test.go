// SPDX-License-Identifier: MIT
package downloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agarwalchetan/YT-Downloader/internal/quality"
	"github.com/Agarwalchetan/YT-Downloader/internal/ytdlp"
)

type fakeExtractor struct {
	info       *ytdlp.Info
	infoErr    error
	ffmpeg     bool
	version    string
	versionErr error

	downloadErr  error
	lastOpts     ytdlp.DownloadOptions
	writeExt     string // extension of the stub file written on Download
	writeTitle   string
	downloadCnt  int
	skipOutput   bool // report success without producing a file
}

func (f *fakeExtractor) ExtractInfo(context.Context, string) (*ytdlp.Info, error) {
	return f.info, f.infoErr
}

func (f *fakeExtractor) Download(_ context.Context, opts ytdlp.DownloadOptions) error {
	f.downloadCnt++
	f.lastOpts = opts
	if f.downloadErr != nil {
		return f.downloadErr
	}
	if f.skipOutput {
		return nil
	}
	// The output template is dir/%(title)s_<uid>.%(ext)s; substitute like the
	// real tool would.
	name := filepath.Base(opts.OutputTemplate)
	name = strings.Replace(name, "%(title)s", f.writeTitle, 1)
	name = strings.Replace(name, "%(ext)s", strings.TrimPrefix(f.writeExt, "."), 1)
	path := filepath.Join(filepath.Dir(opts.OutputTemplate), name)
	return os.WriteFile(path, []byte("media"), 0o644)
}

func (f *fakeExtractor) FFmpegAvailable() bool { return f.ffmpeg }

func (f *fakeExtractor) Version(context.Context) (string, error) {
	return f.version, f.versionErr
}

type fakeScheduler struct {
	paths  []string
	delays []time.Duration
}

func (s *fakeScheduler) ScheduleDeletion(path string, delay time.Duration) {
	s.paths = append(s.paths, path)
	s.delays = append(s.delays, delay)
}

func newTestService(t *testing.T, ex *fakeExtractor) (*Service, *fakeScheduler, string) {
	t.Helper()
	dir := t.TempDir()
	sched := &fakeScheduler{}
	svc := NewService(ex, sched, Options{DownloadDir: dir, DownloadGrace: 300 * time.Second})
	return svc, sched, dir
}

func TestInfo_BuildsDetails(t *testing.T) {
	ex := &fakeExtractor{info: &ytdlp.Info{
		ID:          "abc123",
		Title:       "Some Video",
		Description: strings.Repeat("x", 600),
		Duration:    75,
		Uploader:    "chan",
		WebpageURL:  "https://example.com/v/abc123",
		Formats: []ytdlp.Format{
			{Height: 1080, VCodec: "avc1", ACodec: "none", TBR: 4000, Resolution: "1920x1080", FormatNote: "1080p", FPS: 30},
			{Height: 720, VCodec: "avc1", ACodec: "none", TBR: 2000},
			{VCodec: "none", ACodec: "opus", ABR: 160, FormatNote: "medium"},
		},
	}}
	svc, _, _ := newTestService(t, ex)

	details, err := svc.Info(context.Background(), "https://example.com/watch?v=abc123")
	require.NoError(t, err)

	assert.Equal(t, "abc123", details.ID)
	assert.Len(t, details.Description, 500)
	assert.Equal(t, "1:15", details.DurationFormatted)
	require.NotNil(t, details.BestVideo)
	assert.Equal(t, "1920x1080", details.BestVideo.Resolution)
	assert.Equal(t, 30.0, details.BestVideo.FPS)
	require.NotNil(t, details.BestAudio)
	assert.Equal(t, "medium", details.BestAudio.FormatNote)

	ids := make([]string, 0, len(details.VideoQualities))
	for _, q := range details.VideoQualities {
		ids = append(ids, q.QualityID)
	}
	assert.Equal(t, []string{"1080p", "720p"}, ids)
	require.NotEmpty(t, details.AudioQualities)
}

func TestInfo_TruncatesDescriptionAtRuneBoundary(t *testing.T) {
	// A multi-byte rune straddling the cut point must be dropped whole, not
	// split into an invalid byte sequence.
	ex := &fakeExtractor{info: &ytdlp.Info{
		ID:          "abc",
		Title:       "t",
		Description: strings.Repeat("x", 499) + "日本語",
	}}
	svc, _, _ := newTestService(t, ex)

	details, err := svc.Info(context.Background(), "https://example.com/v")
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(details.Description))
	assert.LessOrEqual(t, len(details.Description), 500)
	assert.Equal(t, strings.Repeat("x", 499), details.Description)
}

func TestInfo_InvalidURL(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeExtractor{})
	_, err := svc.Info(context.Background(), "ftp://example.com/x")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestInfo_ExtractionError(t *testing.T) {
	ex := &fakeExtractor{infoErr: errors.New("boom")}
	svc, _, _ := newTestService(t, ex)
	_, err := svc.Info(context.Background(), "https://example.com/x")
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestDownload_Video(t *testing.T) {
	ex := &fakeExtractor{ffmpeg: true, writeTitle: "My Clip", writeExt: ".mp4"}
	svc, sched, dir := newTestService(t, ex)

	res, err := svc.Download(context.Background(), Request{
		URL:     "https://example.com/watch?v=1",
		Type:    quality.Video,
		Quality: "720p",
	})
	require.NoError(t, err)

	assert.Contains(t, ex.lastOpts.Format, "bestvideo[height<=720][ext=mp4]")
	assert.Equal(t, "mp4", ex.lastOpts.MergeFormat)
	assert.Equal(t, "My Clip.mp4", res.Filename)
	assert.Equal(t, int64(5), res.Size)
	assert.Equal(t, dir, filepath.Dir(res.Path))

	require.Len(t, sched.paths, 1)
	assert.Equal(t, res.Path, sched.paths[0])
	assert.Equal(t, 300*time.Second, sched.delays[0])
}

func TestDownload_VideoWithoutFFmpeg(t *testing.T) {
	ex := &fakeExtractor{ffmpeg: false, writeTitle: "clip", writeExt: ".mp4"}
	svc, _, _ := newTestService(t, ex)

	_, err := svc.Download(context.Background(), Request{
		URL: "https://example.com/v", Type: quality.Video, Quality: "480p",
	})
	require.NoError(t, err)

	assert.Equal(t, "best[height<=480][ext=mp4]/best[height<=480]", ex.lastOpts.Format)
	assert.Empty(t, ex.lastOpts.MergeFormat)
}

func TestDownload_Audio(t *testing.T) {
	ex := &fakeExtractor{ffmpeg: true, writeTitle: "tune", writeExt: ".mp3"}
	svc, _, _ := newTestService(t, ex)

	res, err := svc.Download(context.Background(), Request{
		URL: "https://example.com/v", Type: quality.Audio, Quality: "192kbps",
	})
	require.NoError(t, err)

	assert.Equal(t, "bestaudio/best", ex.lastOpts.Format)
	assert.True(t, ex.lastOpts.ExtractAudio)
	assert.Equal(t, "mp3", ex.lastOpts.AudioFormat)
	assert.Equal(t, "192", ex.lastOpts.AudioQuality)
	assert.Equal(t, "tune.mp3", res.Filename)
}

func TestDownload_AudioWithoutFFmpeg(t *testing.T) {
	// Without ffmpeg there is no extraction step and the native container
	// comes back unchanged.
	ex := &fakeExtractor{ffmpeg: false, writeTitle: "tune", writeExt: ".webm"}
	svc, _, _ := newTestService(t, ex)

	res, err := svc.Download(context.Background(), Request{
		URL: "https://example.com/v", Type: quality.Audio,
	})
	require.NoError(t, err)

	assert.False(t, ex.lastOpts.ExtractAudio)
	assert.Equal(t, "tune.webm", res.Filename)
}

func TestDownload_SanitizesFilename(t *testing.T) {
	ex := &fakeExtractor{ffmpeg: true, writeTitle: "ab?cd", writeExt: ".mp4"}
	svc, _, _ := newTestService(t, ex)

	res, err := svc.Download(context.Background(), Request{
		URL: "https://example.com/v", Type: quality.Video,
	})
	require.NoError(t, err)
	assert.Equal(t, "ab_cd.mp4", res.Filename)
}

func TestDownload_InvalidType(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeExtractor{})
	_, err := svc.Download(context.Background(), Request{
		URL: "https://example.com/v", Type: "playlist",
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestDownload_UnknownQuality(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeExtractor{ffmpeg: true})
	_, err := svc.Download(context.Background(), Request{
		URL: "https://example.com/v", Type: quality.Video, Quality: "best",
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.ErrorIs(t, err, quality.ErrUnknownQuality)

	_, err = svc.Download(context.Background(), Request{
		URL: "https://example.com/v", Type: quality.Audio, Quality: "highkbps",
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.ErrorIs(t, err, quality.ErrUnknownQuality)
}

func TestDownload_NonCatalogHeightAccepted(t *testing.T) {
	// Any parseable "<N>p" height is a valid cap, not just catalog tiers.
	ex := &fakeExtractor{ffmpeg: true, writeTitle: "clip", writeExt: ".mp4"}
	svc, _, _ := newTestService(t, ex)

	_, err := svc.Download(context.Background(), Request{
		URL: "https://example.com/v", Type: quality.Video, Quality: "9000p",
	})
	require.NoError(t, err)
	assert.Contains(t, ex.lastOpts.Format, "bestvideo[height<=9000][ext=mp4]")
}

func TestDownload_ToolFailure(t *testing.T) {
	ex := &fakeExtractor{downloadErr: errors.New("exit status 1")}
	svc, sched, _ := newTestService(t, ex)

	_, err := svc.Download(context.Background(), Request{
		URL: "https://example.com/v", Type: quality.Video,
	})
	assert.ErrorIs(t, err, ErrDownload)
	assert.Empty(t, sched.paths)
}

func TestDownload_MissingOutput(t *testing.T) {
	ex := &fakeExtractor{skipOutput: true}
	svc, sched, _ := newTestService(t, ex)

	_, err := svc.Download(context.Background(), Request{
		URL: "https://example.com/v", Type: quality.Video,
	})
	assert.ErrorIs(t, err, ErrDownload)
	assert.Contains(t, err.Error(), "no output file")
	assert.Empty(t, sched.paths)
}

func TestStatus(t *testing.T) {
	ex := &fakeExtractor{ffmpeg: true, version: "2025.08.11"}
	svc, _, _ := newTestService(t, ex)

	st := svc.Status(context.Background())
	assert.True(t, st.Backend)
	assert.True(t, st.FFmpeg)
	assert.True(t, st.YTDLP)
	assert.Equal(t, "2025.08.11", st.YTDLPVersion)
}

func TestStatus_ToolsUnavailable(t *testing.T) {
	ex := &fakeExtractor{versionErr: errors.New("not found")}
	svc, _, _ := newTestService(t, ex)

	st := svc.Status(context.Background())
	assert.True(t, st.Backend)
	assert.False(t, st.FFmpeg)
	assert.False(t, st.YTDLP)
	assert.Empty(t, st.YTDLPVersion)
}
