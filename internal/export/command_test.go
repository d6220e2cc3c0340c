package export

import (
	"strings"
	"testing"

	"github.com/kikiluvv/slopstudio/internal/layer"
	"github.com/kikiluvv/slopstudio/internal/timeline"
)

func baseOptions() Options {
	return Options{
		OutputPath: "/tmp/out.mp4",
		Width:      720,
		Height:     1280,
		FPS:        30,
		Quality:    QualityHigh,
		Encoder:    "h264_nvenc",
	}
}

func imageSnapshot(id, path string, start, end float64, fit layer.FitMode) layer.Snapshot {
	l := layer.NewImageLayer(id, "", start, end)
	l.Path = path
	l.FitMode = fit
	l.X, l.Y = 0, 120
	l.Width, l.Height = 720, 1050
	return l.Snapshot()
}

func joined(args []string) string { return strings.Join(args, " ") }

func TestBuildArgsSolidBackground(t *testing.T) {
	snap := timeline.Snapshot{TotalDuration: 12}
	args := BuildArgs(snap, "/tmp/subs.ass", baseOptions())
	cmd := joined(args)

	if !strings.Contains(cmd, "lavfi") || !strings.Contains(cmd, "color=c=black:size=720x1280:duration=12") {
		t.Errorf("solid background input missing: %s", cmd)
	}
	// No overlays means the subtitle filter rides on -vf.
	if !strings.Contains(cmd, "-vf ass='/tmp/subs.ass'") {
		t.Errorf("plain subtitle filter missing: %s", cmd)
	}
	if args[len(args)-1] != "/tmp/out.mp4" {
		t.Errorf("output path must be last, got %q", args[len(args)-1])
	}
}

func TestBuildArgsImageOverlayChain(t *testing.T) {
	snap := timeline.Snapshot{
		TotalDuration: 9,
		Layers: []layer.Snapshot{
			imageSnapshot("image_1", "/assets/a.jpg", 0, 3, layer.FitCover),
			imageSnapshot("image_2", "/assets/b.jpg", 3, 6, layer.FitCover),
		},
	}
	args := BuildArgs(snap, "/tmp/subs.ass", baseOptions())
	cmd := joined(args)

	// Each image loops for the full duration so its overlay window can
	// enable anywhere on the global clock.
	if strings.Count(cmd, "-loop 1 -t 9 -i") != 2 {
		t.Errorf("looped image inputs wrong: %s", cmd)
	}
	for _, want := range []string{
		"scale=720:1050:force_original_aspect_ratio=increase,crop=720:1050",
		"overlay=0:120:format=auto:enable='between(t,0,3)'",
		"overlay=0:120:format=auto:enable='between(t,3,6)'",
		"[vout]",
	} {
		if !strings.Contains(cmd, want) {
			t.Errorf("filter chain missing %q: %s", want, cmd)
		}
	}
	if !strings.Contains(cmd, "-map [vout]") {
		t.Errorf("final pad not mapped: %s", cmd)
	}
	// The subtitle stage is the last filter before the output pad.
	fc := cmd[strings.Index(cmd, "-filter_complex"):]
	if !strings.Contains(fc, "ass='/tmp/subs.ass'[vout]") {
		t.Errorf("subtitle stage not last: %s", fc)
	}
}

func TestBuildArgsFitModes(t *testing.T) {
	cases := []struct {
		fit  layer.FitMode
		want string
	}{
		{layer.FitStretch, "scale=720:1050[img0]"},
		{layer.FitFit, "force_original_aspect_ratio=decrease"},
		{layer.FitFill, "force_original_aspect_ratio=increase"},
		{layer.FitOriginal, "scale=-1:-1"},
	}
	for _, c := range cases {
		snap := timeline.Snapshot{
			TotalDuration: 5,
			Layers:        []layer.Snapshot{imageSnapshot("image_1", "/a.jpg", 0, 5, c.fit)},
		}
		cmd := joined(BuildArgs(snap, "/tmp/s.ass", baseOptions()))
		if !strings.Contains(cmd, c.want) {
			t.Errorf("fit %s: missing %q in %s", c.fit, c.want, cmd)
		}
	}
	// Centered overlay expressions for the non-cropping aspect modes.
	snap := timeline.Snapshot{
		TotalDuration: 5,
		Layers:        []layer.Snapshot{imageSnapshot("image_1", "/a.jpg", 0, 5, layer.FitFit)},
	}
	cmd := joined(BuildArgs(snap, "/tmp/s.ass", baseOptions()))
	if !strings.Contains(cmd, "overlay=0+(720-w)/2:120+(1050-h)/2") {
		t.Errorf("fit mode not centered: %s", cmd)
	}
}

func TestBuildArgsFadeEnvelope(t *testing.T) {
	snap := timeline.Snapshot{
		TotalDuration:   9,
		ImageTransition: timeline.Transition{Type: timeline.TransitionZoomIn, Duration: 0.5},
		Layers:          []layer.Snapshot{imageSnapshot("image_1", "/a.jpg", 3, 6, layer.FitCover)},
	}
	cmd := joined(BuildArgs(snap, "/tmp/s.ass", baseOptions()))

	// Every transition type exports as a fade pair on the layer window.
	if !strings.Contains(cmd, "fade=t=in:st=3:d=0.5") {
		t.Errorf("fade-in missing: %s", cmd)
	}
	if !strings.Contains(cmd, "fade=t=out:st=5.5:d=0.5") {
		t.Errorf("fade-out missing: %s", cmd)
	}

	snap.ImageTransition = timeline.Transition{Type: timeline.TransitionNone}
	cmd = joined(BuildArgs(snap, "/tmp/s.ass", baseOptions()))
	if strings.Contains(cmd, "fade=") {
		t.Errorf("fade emitted with no transition: %s", cmd)
	}
}

func TestBuildArgsAudioMix(t *testing.T) {
	opts := baseOptions()
	opts.BackgroundMusic = "/audio/music.mp3"
	opts.MusicVolume = 0.5
	opts.VoiceOver = "/audio/voice.wav"
	opts.VoiceVolume = 1.0

	snap := timeline.Snapshot{TotalDuration: 10}
	cmd := joined(BuildArgs(snap, "/tmp/s.ass", opts))

	for _, want := range []string{
		"-i /audio/music.mp3",
		"-i /audio/voice.wav",
		"volume=0.5[ma]",
		"volume=1[va]",
		"amix=inputs=2:duration=longest[aout]",
		"-map [aout]",
		"-c:a aac -b:a 128k",
	} {
		if !strings.Contains(cmd, want) {
			t.Errorf("audio mix missing %q: %s", want, cmd)
		}
	}
}

func TestBuildArgsMusicOnly(t *testing.T) {
	opts := baseOptions()
	opts.BackgroundMusic = "/audio/music.mp3"
	cmd := joined(BuildArgs(timeline.Snapshot{TotalDuration: 10}, "/tmp/s.ass", opts))

	if strings.Contains(cmd, "amix") {
		t.Errorf("amix used for single track: %s", cmd)
	}
	if !strings.Contains(cmd, "-c:a aac") {
		t.Errorf("audio codec missing: %s", cmd)
	}
}

func TestVideoParamsQualityTiers(t *testing.T) {
	high := joined(videoParams(QualityHigh, "h264_nvenc", 30))
	for _, want := range []string{"-preset p7", "-cq 18", "-b:v 6M", "-maxrate 8M", "-g 60", "-pix_fmt yuv420p"} {
		if !strings.Contains(high, want) {
			t.Errorf("nvenc high missing %q: %s", want, high)
		}
	}
	medium := joined(videoParams(QualityMedium, "h264_nvenc", 30))
	if !strings.Contains(medium, "-preset p4") || !strings.Contains(medium, "-b:v 2M") {
		t.Errorf("nvenc medium wrong: %s", medium)
	}
	low := joined(videoParams(QualityLow, "h264_nvenc", 30))
	if !strings.Contains(low, "-b:v 500k") {
		t.Errorf("nvenc low wrong: %s", low)
	}

	x264 := joined(videoParams(QualityHigh, "libx264", 30))
	if !strings.Contains(x264, "-crf 18") || !strings.Contains(x264, "-preset slow") {
		t.Errorf("x264 high wrong: %s", x264)
	}
}

func TestBuildArgsBackgroundVideoScaled(t *testing.T) {
	opts := baseOptions()
	opts.BackgroundVideo = "/clips/bg.mp4"
	snap := timeline.Snapshot{
		TotalDuration: 8,
		Layers:        []layer.Snapshot{imageSnapshot("image_1", "/a.jpg", 0, 8, layer.FitCover)},
	}
	cmd := joined(BuildArgs(snap, "/tmp/s.ass", opts))

	if !strings.Contains(cmd, "-i /clips/bg.mp4") {
		t.Errorf("background clip input missing: %s", cmd)
	}
	if !strings.Contains(cmd, "[0:v]scale=720:1280[bg]") {
		t.Errorf("background not scaled to canvas: %s", cmd)
	}
	if strings.Contains(cmd, "lavfi") {
		t.Errorf("solid color generated alongside background clip: %s", cmd)
	}
}
