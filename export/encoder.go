package export

import (
	"fmt"
	"io"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Encoder pipes raw RGBA frames into an ffmpeg process producing an H.264
// mp4. Frames are written in presentation order at a fixed rate; Close
// flushes the pipe and waits for ffmpeg to finish the container.
type Encoder struct {
	writer    *io.PipeWriter
	errc      chan error
	frameSize int
}

// NewEncoder starts ffmpeg reading rawvideo from a pipe. ffmpegPath
// overrides the binary looked up on PATH when non-empty.
func NewEncoder(width, height, fps int, outputFile, ffmpegPath string) *Encoder {
	pipeReader, pipeWriter := io.Pipe()

	inputArgs := ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": fps,
	}
	outputArgs := ffmpeg.KwArgs{
		"c:v":     "libx264",
		"pix_fmt": "yuv420p",
		"crf":     18,
	}

	cmd := ffmpeg.Input("pipe:", inputArgs).
		Output(outputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if ffmpegPath != "" {
		cmd = cmd.SetFfmpegPath(ffmpegPath)
	}

	e := &Encoder{
		writer:    pipeWriter,
		errc:      make(chan error, 1),
		frameSize: width * height * 4,
	}
	go func() {
		e.errc <- cmd.Run()
	}()
	return e
}

// WriteFrame submits one tightly packed RGBA frame.
func (e *Encoder) WriteFrame(pixels []byte) error {
	if len(pixels) != e.frameSize {
		return fmt.Errorf("frame is %d bytes, want %d", len(pixels), e.frameSize)
	}
	_, err := e.writer.Write(pixels)
	return err
}

// Close signals end of stream and waits for ffmpeg to exit.
func (e *Encoder) Close() error {
	e.writer.Close()
	return <-e.errc
}

// FlipRows mirrors a raw RGBA frame vertically in place. GL framebuffer
// readback is bottom-up while video expects top-down rows.
func FlipRows(pixels []byte, width, height int) {
	rowSize := width * 4
	tmp := make([]byte, rowSize)
	for y := 0; y < height/2; y++ {
		top := pixels[y*rowSize : (y+1)*rowSize]
		bottom := pixels[(height-1-y)*rowSize : (height-y)*rowSize]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}
