package video

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// DefaultAudioBitrate is the default bitrate for audio extraction
	DefaultAudioBitrate = "192k"

	// DefaultSampleRate is the default output sample rate in Hz
	DefaultSampleRate = 44100

	// DefaultSourcePath is used when no source is given on the command line or in config
	DefaultSourcePath = "exp33.mp4"
)

// SupportedSampleRates are the MPEG-1 and MPEG-2 Layer III rates. libmp3lame
// switches to MPEG-2.5 below 16 kHz, which the output verifier cannot decode.
var SupportedSampleRates = []int{16000, 22050, 24000, 32000, 44100, 48000}

// ValidSampleRate reports whether rate is one of SupportedSampleRates
func ValidSampleRate(rate int) bool {
	for _, r := range SupportedSampleRates {
		if r == rate {
			return true
		}
	}
	return false
}

// bitrateRegex accepts ffmpeg bitrates like 192k or 128000
var bitrateRegex = regexp.MustCompile(`^[1-9]\d*k?$`)

// AudioExtractionRequest represents a request to extract audio from a video
type AudioExtractionRequest struct {
	SourceVideoPath string
	OutputPath      string
	Bitrate         string
	SampleRate      int
	StreamOrdinal   int        // Which audio stream to encode (0:a:N)
	StartTime       *Timestamp // Optional: start of the extracted range
	EndTime         *Timestamp // Optional: end of the extracted range
}

// NewAudioExtractionRequest creates a new AudioExtractionRequest with validation
func NewAudioExtractionRequest(sourcePath, outputPath, bitrate string, sampleRate int) (*AudioExtractionRequest, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("source video path is required")
	}

	if outputPath == "" {
		outputPath = DefaultOutputPath(sourcePath)
	}
	if samePath(outputPath, sourcePath) {
		return nil, fmt.Errorf("output path %q must differ from source path", outputPath)
	}

	if bitrate == "" {
		bitrate = DefaultAudioBitrate
	}
	if !bitrateRegex.MatchString(bitrate) {
		return nil, fmt.Errorf("invalid bitrate %q: expected a value like 192k", bitrate)
	}

	if sampleRate == 0 {
		sampleRate = DefaultSampleRate
	}
	if !ValidSampleRate(sampleRate) {
		return nil, fmt.Errorf("invalid sample rate %d: expected one of %v", sampleRate, SupportedSampleRates)
	}

	return &AudioExtractionRequest{
		SourceVideoPath: sourcePath,
		OutputPath:      outputPath,
		Bitrate:         bitrate,
		SampleRate:      sampleRate,
	}, nil
}

// NewAudioExtractionRequestWithTimestamps creates a request limited to a start/end range
// of the source video
func NewAudioExtractionRequestWithTimestamps(sourcePath, outputPath, bitrate string, sampleRate int, startTime, endTime string) (*AudioExtractionRequest, error) {
	req, err := NewAudioExtractionRequest(sourcePath, outputPath, bitrate, sampleRate)
	if err != nil {
		return nil, err
	}

	start, err := ParseTimestamp(startTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}

	end, err := ParseTimestamp(endTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time: %w", err)
	}

	if !end.After(start) {
		return nil, fmt.Errorf("end time %s must be after start time %s", end, start)
	}

	req.StartTime = &start
	req.EndTime = &end
	return req, nil
}

// HasTimestamps returns true if the request has start/end timestamps for extraction
func (r *AudioExtractionRequest) HasTimestamps() bool {
	return r.StartTime != nil && r.EndTime != nil
}

// DefaultOutputPath returns the source base name with an .mp3 extension,
// relative to the working directory
func DefaultOutputPath(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".mp3"
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
