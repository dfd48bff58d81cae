package sink

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pdewald/asciimate/pkg/errors"
)

// DefaultFPS is the playback rate videos are assembled at.
const DefaultFPS = 30

// VideoOptions configures AssembleVideo.
type VideoOptions struct {
	// FPS is the playback frame rate (DefaultFPS when zero).
	FPS int

	// Width and Height, when both set, scale the video to that resolution,
	// padding with black to preserve aspect ratio.
	Width  int
	Height int
}

// AssembleVideo concatenates the PNG frames in framesDir into a video at
// out using ffmpeg. Requires ffmpeg on PATH; a missing binary or a failed
// encode returns a VIDEO_ERROR.
func AssembleVideo(ctx context.Context, framesDir, out string, opts VideoOptions) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return errors.Wrap(errors.ErrCodeVideo, err, "ffmpeg not found on PATH")
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}

	args := []string{
		"-y",
		"-framerate", fmt.Sprint(fps),
		"-i", filepath.Join(framesDir, framePattern),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
	}
	// libx264 requires even dimensions; scale keeps aspect, pad fills.
	filter := "scale=trunc(iw/2)*2:trunc(ih/2)*2"
	if opts.Width > 0 && opts.Height > 0 {
		filter = fmt.Sprintf(
			"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
			opts.Width, opts.Height, opts.Width, opts.Height)
	}
	args = append(args, "-vf", filter, out)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.ErrCodeVideo, err, "ffmpeg failed: %s", lastLine(stderr.String()))
	}
	return nil
}

// lastLine extracts the final non-empty line of ffmpeg's stderr, which is
// where it reports the actual failure.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
