package renderer

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"

	"github.com/richinsley/goglass/frame"
	"github.com/richinsley/goglass/options"
)

// Frame represents a single rendered frame's data, ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

const numBuffers = 3

var errEncoderStopped = errors.New("encoder stopped accepting frames")

func getArgs(opts *options.SceneOptions, width, height int) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"format":  "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", width, height),
		"r":       opts.FPS,
	}

	// glReadPixels rows are bottom-up.
	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}
	switch runtime.GOOS {
	case "darwin":
		outputArgs["c:v"] = "h264_videotoolbox"
		outputArgs["b:v"] = "25M"
	default:
		outputArgs["c:v"] = "libx264"
		outputArgs["crf"] = 18
	}
	return
}

// runEncoder is the consumer. It starts ffmpeg and writes frames from
// frameChan to its stdin. abort is closed if ffmpeg stops reading.
func (r *Renderer) runEncoder(opts *options.SceneOptions, frameChan <-chan *Frame, abort chan<- struct{}, doneChan chan<- error) {
	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := getArgs(opts, r.width, r.height)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(opts.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	if opts.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(opts.FFMPEGPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		pipeReader.Close()
		errc <- err
	}()

	var writeErr error
	for f := range frameChan {
		if _, err := pipeWriter.Write(f.Pixels); err != nil {
			r.logger.Error("error writing frame to ffmpeg", zap.Int64("pts", f.PTS), zap.Error(err))
			writeErr = err
			close(abort)
			break
		}
	}
	for range frameChan {
	}

	pipeWriter.Close()
	err := <-errc
	if err == nil && writeErr != nil {
		err = fmt.Errorf("%w: %v", errEncoderStopped, writeErr)
	}
	doneChan <- err
}

// RunRecord renders duration*fps frames at a fixed timestep and encodes
// them to opts.OutputFile.
func (r *Renderer) RunRecord(d *frame.Driver, opts *options.SceneOptions) error {
	r.logger.Info("starting record mode",
		zap.String("output", opts.OutputFile),
		zap.Float64("duration", opts.Duration),
		zap.Int("fps", opts.FPS),
		zap.Int("width", r.width),
		zap.Int("height", r.height))

	frameChan := make(chan *Frame, numBuffers)
	abort := make(chan struct{})
	encoderDoneChan := make(chan error, 1)

	go r.runEncoder(opts, frameChan, abort, encoderDoneChan)

	totalFrames := int(opts.Duration * float64(opts.FPS))
	timeStep := 1.0 / float64(opts.FPS)
	d.Reset(0)

produce:
	for i := 0; i < totalFrames; i++ {
		d.Tick(float64(i) * timeStep)
		f := &Frame{Pixels: r.readPixels(), PTS: int64(i)}
		select {
		case frameChan <- f:
		case <-abort:
			r.logger.Warn("encoder stopped early", zap.Int("frame", i))
			break produce
		}
		if i > 0 && i%opts.FPS == 0 {
			r.logger.Debug("record progress", zap.Int("frame", i), zap.Int("total", totalFrames))
		}
	}

	close(frameChan)
	if err := <-encoderDoneChan; err != nil {
		return fmt.Errorf("encoding %s failed: %w", opts.OutputFile, err)
	}
	r.logger.Info("record finished", zap.String("output", opts.OutputFile), zap.Int("frames", totalFrames))
	return nil
}
