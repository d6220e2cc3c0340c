package ffmpeg

import (
	"bufio"
	"context"
	"os/exec"
	"strings"
)

// hardwareEncoders in preference order. libx264 is the software fallback
// when none are available.
var hardwareEncoders = []string{
	"h264_nvenc",
	"h264_qsv",
	"h264_amf",
	"h264_videotoolbox",
}

// FallbackEncoder is the software encoder used when no hardware encoder
// is present.
const FallbackEncoder = "libx264"

// DetectEncoders lists the h264 encoders the local ffmpeg build supports.
func (e *Executor) DetectEncoders(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, e.ffmpegPath, "-hide_banner", "-encoders")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, err
	}
	return parseEncoderList(string(output)), nil
}

// parseEncoderList extracts video encoder names from `ffmpeg -encoders`
// output. Lines look like " V....D h264_nvenc    NVIDIA NVENC H.264".
func parseEncoderList(output string) []string {
	var encoders []string
	inTable := false
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "------") {
			inTable = true
			continue
		}
		if !inTable {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "V") {
			continue
		}
		if strings.Contains(fields[1], "h264") || fields[1] == FallbackEncoder {
			encoders = append(encoders, fields[1])
		}
	}
	return encoders
}

// SelectEncoder picks the encoder to use. A non-empty preferred name wins
// when available; otherwise the first supported hardware encoder, then
// libx264.
func SelectEncoder(available []string, preferred string) string {
	have := make(map[string]bool, len(available))
	for _, enc := range available {
		have[enc] = true
	}
	if preferred != "" && have[preferred] {
		return preferred
	}
	for _, enc := range hardwareEncoders {
		if have[enc] {
			return enc
		}
	}
	return FallbackEncoder
}
