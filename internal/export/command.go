package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kikiluvv/slopstudio/internal/layer"
	"github.com/kikiluvv/slopstudio/internal/timeline"
)

// Quality selects an encoding parameter bundle.
type Quality string

const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
)

// Options configures one export run. Asset paths are assumed reachable;
// the render preflight drops unreachable ones before the command is built.
type Options struct {
	OutputPath string
	Width      int
	Height     int
	FPS        int
	Quality    Quality
	Encoder    string

	BackgroundVideo string
	BackgroundMusic string
	MusicVolume     float64
	VoiceOver       string
	VoiceVolume     float64
}

// BuildArgs assembles the full ffmpeg argument list for an export. The
// layout follows a fixed input order: background (clip or generated solid
// color), one looped input per image layer, then audio tracks. The filter
// graph overlays each image with its fit-mode scaling and timing window,
// burns the subtitle script last, and mixes audio when present.
func BuildArgs(snap timeline.Snapshot, assPath string, opts Options) []string {
	var args []string
	total := snap.TotalDuration

	inputIdx := 0
	hasBgVideo := opts.BackgroundVideo != ""
	if hasBgVideo {
		args = append(args, "-i", opts.BackgroundVideo)
	} else {
		args = append(args, "-f", "lavfi", "-i",
			fmt.Sprintf("color=c=black:size=%dx%d:duration=%s", opts.Width, opts.Height, ffNum(total)))
	}
	inputIdx++

	// One looped input per image layer so overlays can be enabled on
	// their own time windows against a continuous stream.
	type imageInput struct {
		index int
		layer layer.Snapshot
	}
	var images []imageInput
	for _, ls := range snap.Layers {
		if ls.Type != string(layer.KindImage) || ls.ImagePath == "" {
			continue
		}
		args = append(args, "-loop", "1", "-t", ffNum(total), "-i", ls.ImagePath)
		images = append(images, imageInput{index: inputIdx, layer: ls})
		inputIdx++
	}

	musicIdx, voiceIdx := -1, -1
	if opts.BackgroundMusic != "" {
		args = append(args, "-i", opts.BackgroundMusic)
		musicIdx = inputIdx
		inputIdx++
	}
	if opts.VoiceOver != "" {
		args = append(args, "-i", opts.VoiceOver)
		voiceIdx = inputIdx
		inputIdx++
	}

	var filters []string
	current := "[0:v]"
	if hasBgVideo {
		filters = append(filters, fmt.Sprintf("[0:v]scale=%d:%d[bg]", opts.Width, opts.Height))
		current = "[bg]"
	}

	for i, img := range images {
		filters = append(filters, overlayStage(img.layer, img.index, i, current, snap.ImageTransition))
		current = fmt.Sprintf("[v%d]", i)
	}

	assFilter := fmt.Sprintf("ass='%s'", escapeFilterPath(assPath))
	if len(filters) > 0 {
		filters = append(filters, fmt.Sprintf("%s%s[vout]", current, assFilter))
		args = append(args, "-filter_complex", strings.Join(filters, ";"))
		args = append(args, "-map", "[vout]")
	} else {
		args = append(args, "-vf", assFilter)
	}

	args = append(args, audioArgs(musicIdx, voiceIdx, opts)...)
	args = append(args, videoParams(opts.Quality, opts.Encoder, opts.FPS)...)
	args = append(args, "-t", ffNum(total))
	args = append(args, opts.OutputPath)
	return args
}

// overlayStage builds one scale+fade+overlay filter stage for an image
// layer. The scaling expressions produce the same geometry as the raster
// preview's fit placement.
func overlayStage(ls layer.Snapshot, inputIdx, stage int, current string, trans timeline.Transition) string {
	x := ffNum(ls.X)
	y := ffNum(ls.Y)
	w := int(ls.Width)
	h := int(ls.Height)
	enable := fmt.Sprintf("enable='between(t,%s,%s)'", ffNum(ls.StartTime), ffNum(ls.EndTime))

	// Every transition type approximates to a fade envelope on the
	// layer's own window; the preview's richer per-type motion does not
	// survive the filter graph.
	var pre string
	if trans.Active() {
		fadeOutStart := ls.EndTime - trans.Duration
		if fadeOutStart < ls.StartTime {
			fadeOutStart = ls.StartTime
		}
		pre = fmt.Sprintf("fade=t=in:st=%s:d=%s,fade=t=out:st=%s:d=%s,",
			ffNum(ls.StartTime), ffNum(trans.Duration), ffNum(fadeOutStart), ffNum(trans.Duration))
	}

	in := fmt.Sprintf("[%d:v]%s", inputIdx, pre)
	pad := fmt.Sprintf("[img%d]", stage)
	out := fmt.Sprintf("[v%d]", stage)

	switch layer.FitMode(ls.FitMode) {
	case layer.FitStretch:
		return fmt.Sprintf("%sscale=%d:%d%s;%s%soverlay=%s:%s:format=auto:%s%s",
			in, w, h, pad, current, pad, x, y, enable, out)
	case layer.FitFit:
		return fmt.Sprintf("%sscale=%d:%d:force_original_aspect_ratio=decrease%s;%s%soverlay=%s+(%d-w)/2:%s+(%d-h)/2:format=auto:%s%s",
			in, w, h, pad, current, pad, x, w, y, h, enable, out)
	case layer.FitFill:
		return fmt.Sprintf("%sscale=%d:%d:force_original_aspect_ratio=increase%s;%s%soverlay=%s+(%d-w)/2:%s+(%d-h)/2:format=auto:%s%s",
			in, w, h, pad, current, pad, x, w, y, h, enable, out)
	case layer.FitOriginal:
		return fmt.Sprintf("%sscale=-1:-1%s;%s%soverlay=%s:%s:format=auto:%s%s",
			in, pad, current, pad, x, y, enable, out)
	default: // cover
		return fmt.Sprintf("%sscale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d%s;%s%soverlay=%s:%s:format=auto:%s%s",
			in, w, h, w, h, pad, current, pad, x, y, enable, out)
	}
}

// audioArgs maps and mixes the optional music and voice tracks.
func audioArgs(musicIdx, voiceIdx int, opts Options) []string {
	switch {
	case musicIdx >= 0 && voiceIdx >= 0:
		mix := fmt.Sprintf(
			"[%d:a]volume=%s[ma];[%d:a]volume=%s[va];[ma][va]amix=inputs=2:duration=longest[aout]",
			musicIdx, ffNum(volumeOrFull(opts.MusicVolume)),
			voiceIdx, ffNum(volumeOrFull(opts.VoiceVolume)))
		return []string{"-filter_complex", mix, "-map", "[aout]", "-c:a", "aac", "-b:a", "128k"}
	case musicIdx >= 0:
		return []string{
			"-filter_complex", fmt.Sprintf("[%d:a]volume=%s[aout]", musicIdx, ffNum(volumeOrFull(opts.MusicVolume))),
			"-map", "[aout]", "-c:a", "aac", "-b:a", "128k",
		}
	case voiceIdx >= 0:
		return []string{
			"-filter_complex", fmt.Sprintf("[%d:a]volume=%s[aout]", voiceIdx, ffNum(volumeOrFull(opts.VoiceVolume))),
			"-map", "[aout]", "-c:a", "aac", "-b:a", "128k",
		}
	}
	return nil
}

func volumeOrFull(v float64) float64 {
	if v <= 0 || v > 1 {
		return 1
	}
	return v
}

// videoParams returns the codec parameter bundle for a quality tier.
// NVENC keeps its native rate-control flags; libx264 maps the same tiers
// onto CRF and presets; other hardware encoders get plain bitrates.
func videoParams(q Quality, encoder string, fps int) []string {
	if encoder == "" {
		encoder = "libx264"
	}
	gop := strconv.Itoa(fps * 2)

	switch encoder {
	case "h264_nvenc":
		switch q {
		case QualityHigh:
			return []string{
				"-c:v", encoder,
				"-preset", "p7", "-tune", "hq", "-profile:v", "high",
				"-rc", "vbr", "-cq", "18",
				"-b:v", "6M", "-maxrate", "8M", "-bufsize", "12M",
				"-g", gop, "-bf", "3", "-refs", "5",
				"-pix_fmt", "yuv420p",
			}
		case QualityMedium:
			return []string{"-c:v", encoder, "-preset", "p4", "-tune", "hq", "-b:v", "2M", "-pix_fmt", "yuv420p"}
		default:
			return []string{"-c:v", encoder, "-preset", "p4", "-tune", "hq", "-b:v", "500k", "-pix_fmt", "yuv420p"}
		}
	case "libx264":
		switch q {
		case QualityHigh:
			return []string{
				"-c:v", encoder,
				"-preset", "slow", "-profile:v", "high", "-crf", "18",
				"-maxrate", "8M", "-bufsize", "12M",
				"-g", gop, "-bf", "3", "-refs", "5",
				"-pix_fmt", "yuv420p",
			}
		case QualityMedium:
			return []string{"-c:v", encoder, "-preset", "medium", "-crf", "23", "-pix_fmt", "yuv420p"}
		default:
			return []string{"-c:v", encoder, "-preset", "fast", "-crf", "28", "-pix_fmt", "yuv420p"}
		}
	default:
		switch q {
		case QualityHigh:
			return []string{"-c:v", encoder, "-b:v", "6M", "-maxrate", "8M", "-bufsize", "12M", "-g", gop, "-pix_fmt", "yuv420p"}
		case QualityMedium:
			return []string{"-c:v", encoder, "-b:v", "2M", "-pix_fmt", "yuv420p"}
		default:
			return []string{"-c:v", encoder, "-b:v", "500k", "-pix_fmt", "yuv420p"}
		}
	}
}

// ffNum formats a float for filter expressions without a trailing ".0".
func ffNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// escapeFilterPath escapes a path for use inside a quoted filter option.
func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.ReplaceAll(p, ":", "\\:")
}
