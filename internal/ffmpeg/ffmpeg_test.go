package ffmpeg

import (
	"os"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
)

// skipIfNoFFmpeg skips the test if ffmpeg is not available
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH - install with: brew install ffmpeg")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH - install with: brew install ffmpeg")
	}
}

func TestExecutorCreation(t *testing.T) {
	skipIfNoFFmpeg(t)

	logger := zerolog.New(os.Stderr)
	e, err := New(logger, "", 4)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	if e.ffmpegPath == "" {
		t.Error("ffmpeg path is empty")
	}
	if e.ffprobePath == "" {
		t.Error("ffprobe path is empty")
	}
}

func TestExecutorMissingBinary(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	if _, err := New(logger, "definitely-not-ffmpeg-binary", 0); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestParseEncoderList(t *testing.T) {
	const sample = `Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC
 V....D h264_nvenc           NVIDIA NVENC H.264 encoder
 V....D mpeg4                MPEG-4 part 2
 A....D aac                  AAC (Advanced Audio Coding)
`
	encoders := parseEncoderList(sample)
	want := map[string]bool{"libx264": true, "h264_nvenc": true}
	if len(encoders) != 2 {
		t.Fatalf("parsed %v, want libx264 and h264_nvenc", encoders)
	}
	for _, enc := range encoders {
		if !want[enc] {
			t.Errorf("unexpected encoder %q", enc)
		}
	}
}

func TestSelectEncoder(t *testing.T) {
	cases := []struct {
		name      string
		available []string
		preferred string
		want      string
	}{
		{"hardware first", []string{"libx264", "h264_nvenc"}, "", "h264_nvenc"},
		{"software fallback", []string{"libx264"}, "", "libx264"},
		{"nothing detected", nil, "", "libx264"},
		{"preferred wins", []string{"libx264", "h264_nvenc", "h264_qsv"}, "h264_qsv", "h264_qsv"},
		{"preferred unavailable", []string{"libx264"}, "h264_nvenc", "libx264"},
	}
	for _, c := range cases {
		if got := SelectEncoder(c.available, c.preferred); got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestDetectEncoders(t *testing.T) {
	skipIfNoFFmpeg(t)

	logger := zerolog.New(os.Stderr)
	e, err := New(logger, "", 0)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	encoders, err := e.DetectEncoders(t.Context())
	if err != nil {
		t.Fatalf("DetectEncoders: %v", err)
	}
	// Every real ffmpeg build ships libx264 or at least one h264 encoder.
	if len(encoders) == 0 {
		t.Error("no h264 encoders detected")
	}
}
