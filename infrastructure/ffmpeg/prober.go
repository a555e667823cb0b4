package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"extract-mp3/domain/video"
)

// Prober inspects media containers with ffprobe
type Prober struct {
	ffprobePath string
	runner      CommandRunner
}

// ProberOption is a functional option for configuring Prober
type ProberOption func(*Prober)

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) ProberOption {
	return func(p *Prober) {
		if path != "" {
			p.ffprobePath = path
		}
	}
}

// WithProberCommandRunner sets a custom command runner (for testing)
func WithProberCommandRunner(runner CommandRunner) ProberOption {
	return func(p *Prober) {
		p.runner = runner
	}
}

// NewProber creates a new ffprobe-based prober
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		ffprobePath: "ffprobe",
		runner:      &ExecCommandRunner{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Duration   string `json:"duration"`
}

type probeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

// Probe runs ffprobe against path and returns the container description.
// A file ffprobe cannot parse is reported as an error.
func (p *Prober) Probe(ctx context.Context, path string) (video.MediaInfo, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return video.MediaInfo{}, errors.New("ffprobe: empty path")
	}

	out, err := p.runner.Output(ctx, p.ffprobePath,
		"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	if err != nil {
		return video.MediaInfo{}, fmt.Errorf("ffprobe inspect: %w", err)
	}

	return ParseProbeOutput(out)
}

// ParseProbeOutput converts ffprobe JSON into a video.MediaInfo
func ParseProbeOutput(data []byte) (video.MediaInfo, error) {
	var raw probeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return video.MediaInfo{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	if raw.Format.FormatName == "" && len(raw.Streams) == 0 {
		return video.MediaInfo{}, errors.New("ffprobe parse: no format or streams reported")
	}

	info := video.MediaInfo{
		FormatName: raw.Format.FormatName,
		Duration:   parseFloat(raw.Format.Duration),
		SizeBytes:  int64(parseFloat(raw.Format.Size)),
	}
	for _, s := range raw.Streams {
		info.Streams = append(info.Streams, video.StreamInfo{
			Index:      s.Index,
			CodecType:  s.CodecType,
			CodecName:  s.CodecName,
			SampleRate: int(parseFloat(s.SampleRate)),
			Channels:   s.Channels,
			Duration:   parseFloat(s.Duration),
		})
	}
	return info, nil
}

// parseFloat returns 0 for empty or malformed values
func parseFloat(value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
