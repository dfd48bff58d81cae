// Package sink writes animation frames to storage and assembles them into
// a video. Frames are emitted as numbered PNGs so an external encoder can
// pick them up in order.
package sink

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pdewald/asciimate/pkg/errors"
)

// framePattern names frames so lexical order equals frame order.
const framePattern = "frame_%04d.png"

// Sink receives frames in emission order.
type Sink interface {
	// Write stores one frame under its index.
	Write(index int, frame image.Image) error

	// Close finalizes the sink after the last frame.
	Close() error
}

// DirSink writes each frame as a PNG into a directory.
type DirSink struct {
	dir string
}

// NewDirSink creates the directory if needed and returns a sink over it.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncode, err, "create frame directory %s", dir)
	}
	return &DirSink{dir: dir}, nil
}

// Dir returns the directory frames are written to.
func (s *DirSink) Dir() string { return s.dir }

// FramePath returns the path a frame index is written to.
func (s *DirSink) FramePath(index int) string {
	return filepath.Join(s.dir, fmt.Sprintf(framePattern, index))
}

// Write encodes one frame as a PNG.
func (s *DirSink) Write(index int, frame image.Image) error {
	f, err := os.Create(s.FramePath(index))
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "create frame %d", index)
	}
	defer f.Close()

	if err := png.Encode(f, frame); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "encode frame %d", index)
	}
	return nil
}

// Close is a no-op; each frame is flushed as it is written.
func (s *DirSink) Close() error { return nil }

// NullSink discards all frames. Useful for benchmarking generation.
type NullSink struct{}

func (NullSink) Write(int, image.Image) error { return nil }
func (NullSink) Close() error                 { return nil }
