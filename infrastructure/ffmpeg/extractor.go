package ffmpeg

import (
	"context"
	"fmt"
	"strconv"

	"extract-mp3/domain/video"

	ffmpeggo "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
)

// Extractor implements video.AudioExtractor using ffmpeg
type Extractor struct {
	ffmpegPath string
	runner     CommandRunner
	logger     *zap.Logger
}

// ExtractorOption is a functional option for configuring Extractor
type ExtractorOption func(*Extractor)

// WithExtractorFFmpegPath sets a custom ffmpeg executable path
func WithExtractorFFmpegPath(path string) ExtractorOption {
	return func(e *Extractor) {
		if path != "" {
			e.ffmpegPath = path
		}
	}
}

// WithExtractorCommandRunner sets a custom command runner (for testing)
func WithExtractorCommandRunner(runner CommandRunner) ExtractorOption {
	return func(e *Extractor) {
		e.runner = runner
	}
}

// WithExtractorLogger sets the logger used for command tracing
func WithExtractorLogger(logger *zap.Logger) ExtractorOption {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates a new FFmpeg-based audio extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// BuildArgs returns the ffmpeg arguments that encode the requested audio
// stream of req's source to outputPath as MP3
func BuildArgs(req *video.AudioExtractionRequest, outputPath string) []string {
	inputArgs := ffmpeggo.KwArgs{}
	if req.HasTimestamps() {
		inputArgs["ss"] = req.StartTime.String()
		inputArgs["to"] = req.EndTime.String()
	}

	outputArgs := ffmpeggo.KwArgs{
		"map":    fmt.Sprintf("0:a:%d", req.StreamOrdinal),
		"vn":     nil,
		"acodec": "libmp3lame",
		"ab":     req.Bitrate,
		"ar":     strconv.Itoa(req.SampleRate),
		"f":      "mp3",
	}

	return ffmpeggo.
		Input(req.SourceVideoPath, inputArgs).
		Output(outputPath, outputArgs).
		OverWriteOutput().
		GetArgs()
}

// Extract implements video.AudioExtractor
func (e *Extractor) Extract(ctx context.Context, req *video.AudioExtractionRequest, outputPath string) error {
	args := BuildArgs(req, outputPath)
	e.logger.Debug("running ffmpeg", zap.String("binary", e.ffmpegPath), zap.Strings("args", args))

	if err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg audio extraction failed: %w", err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (e *Extractor) VerifyInstalled(ctx context.Context) error {
	_, err := e.runner.Output(ctx, e.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure Extractor implements video.AudioExtractor
var _ video.AudioExtractor = (*Extractor)(nil)
