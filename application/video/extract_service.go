package video

import (
	"context"
	"fmt"
	"time"

	"extract-mp3/domain/video"

	"go.uber.org/zap"
)

// ExtractResult contains the result of an audio extraction operation
type ExtractResult struct {
	OutputPath  string
	SizeBytes   int64
	SampleRate  int
	Duration    time.Duration
	StreamIndex int
}

// ExtractDependencies are the ports ExtractService drives
type ExtractDependencies struct {
	Extractor   video.AudioExtractor
	Opener      video.MediaOpener
	FileChecker video.FileChecker
	Locker      video.OutputLocker
	Stager      video.OutputStager
	Verifier    video.OutputVerifier
	Logger      *zap.Logger
}

// ExtractService coordinates audio extraction operations
type ExtractService struct {
	deps       ExtractDependencies
	logger     *zap.Logger
	bitrate    string
	sampleRate int
}

// NewExtractService creates a new ExtractService. Empty bitrate and zero
// sample rate fall back to the domain defaults.
func NewExtractService(deps ExtractDependencies, bitrate string, sampleRate int) *ExtractService {
	if bitrate == "" {
		bitrate = video.DefaultAudioBitrate
	}
	if sampleRate == 0 {
		sampleRate = video.DefaultSampleRate
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractService{
		deps:       deps,
		logger:     logger,
		bitrate:    bitrate,
		sampleRate: sampleRate,
	}
}

// ExtractInput represents the input for an audio extraction operation
type ExtractInput struct {
	SourcePath string
	OutputPath string // Optional, defaults to <source base>.mp3 in the working directory
	Bitrate    string // Optional, uses service default if empty
	SampleRate int    // Optional, uses service default if zero
	StartTime  string // Optional HH:MM:SS, requires EndTime
	EndTime    string // Optional HH:MM:SS, requires StartTime
}

func (s *ExtractService) buildRequest(input ExtractInput) (*video.AudioExtractionRequest, error) {
	bitrate := input.Bitrate
	if bitrate == "" {
		bitrate = s.bitrate
	}
	sampleRate := input.SampleRate
	if sampleRate == 0 {
		sampleRate = s.sampleRate
	}

	switch {
	case input.StartTime == "" && input.EndTime == "":
		return video.NewAudioExtractionRequest(input.SourcePath, input.OutputPath, bitrate, sampleRate)
	case input.StartTime != "" && input.EndTime != "":
		return video.NewAudioExtractionRequestWithTimestamps(input.SourcePath, input.OutputPath, bitrate, sampleRate, input.StartTime, input.EndTime)
	default:
		return nil, fmt.Errorf("start and end times must be given together")
	}
}

// Extract encodes the audio track of input.SourcePath to an MP3 at the output path.
// The source and its audio stream are released on every return path, and the
// output path is only replaced once the new file has been verified.
func (s *ExtractService) Extract(ctx context.Context, input ExtractInput) (*ExtractResult, error) {
	if !s.deps.FileChecker.Exists(input.SourcePath) {
		return nil, fmt.Errorf("%w: %s", video.ErrSourceNotFound, input.SourcePath)
	}

	req, err := s.buildRequest(input)
	if err != nil {
		return nil, err
	}

	source, err := s.deps.Opener.Open(ctx, req.SourceVideoPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := source.Close(); cerr != nil {
			s.logger.Warn("failed to release media source", zap.String("path", req.SourceVideoPath), zap.Error(cerr))
		}
	}()

	stream, err := source.AudioStream()
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	req.StreamOrdinal = stream.Ordinal()

	s.logger.Debug("selected audio stream",
		zap.Int("index", stream.Info().Index),
		zap.String("codec", stream.Info().CodecName),
		zap.Int("sample_rate", stream.Info().SampleRate),
		zap.Int("channels", stream.Info().Channels),
	)

	tempPath, err := s.deps.Stager.TempPath(req.OutputPath)
	if err != nil {
		return nil, err
	}

	release, err := s.deps.Locker.Lock(ctx, req.OutputPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if uerr := release(); uerr != nil {
			s.logger.Warn("failed to release output lock", zap.String("path", req.OutputPath), zap.Error(uerr))
		}
	}()

	committed := false
	defer func() {
		if committed {
			return
		}
		if derr := s.deps.Stager.Discard(tempPath); derr != nil {
			s.logger.Warn("failed to remove partial output", zap.String("path", tempPath), zap.Error(derr))
		}
	}()

	start := time.Now()
	if err := s.deps.Extractor.Extract(ctx, req, tempPath); err != nil {
		return nil, err
	}

	info, err := s.deps.Verifier.Verify(tempPath)
	if err != nil {
		return nil, fmt.Errorf("verify extracted audio: %w", err)
	}

	if err := s.deps.Stager.Commit(tempPath, req.OutputPath); err != nil {
		return nil, err
	}
	committed = true

	s.logger.Info("audio extracted",
		zap.String("source", req.SourceVideoPath),
		zap.String("output", req.OutputPath),
		zap.Int("stream_index", stream.Info().Index),
		zap.Int64("bytes", info.SizeBytes),
		zap.Duration("audio_duration", info.Duration),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &ExtractResult{
		OutputPath:  req.OutputPath,
		SizeBytes:   info.SizeBytes,
		SampleRate:  info.SampleRate,
		Duration:    info.Duration,
		StreamIndex: stream.Info().Index,
	}, nil
}
