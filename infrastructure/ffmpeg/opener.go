package ffmpeg

import (
	"context"
	"fmt"
	"os"

	"extract-mp3/domain/video"

	"go.uber.org/zap"
)

// Opener implements video.MediaOpener. The returned source holds the input
// file open until it is closed, so the path cannot be read-denied mid-run.
type Opener struct {
	prober *Prober
	logger *zap.Logger
}

// NewOpener creates an Opener backed by prober
func NewOpener(prober *Prober, logger *zap.Logger) *Opener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Opener{prober: prober, logger: logger}
}

// Open implements video.MediaOpener
func (o *Opener) Open(ctx context.Context, path string) (*video.MediaSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source video: %w", err)
	}

	info, err := o.prober.Probe(ctx, path)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s is not a decodable media container: %w", path, err)
	}

	o.logger.Debug("opened media source",
		zap.String("path", path),
		zap.String("format", info.FormatName),
		zap.Int("streams", len(info.Streams)),
		zap.Float64("duration", info.Duration),
	)

	return video.NewMediaSource(path, info, f), nil
}

// Ensure Opener implements video.MediaOpener
var _ video.MediaOpener = (*Opener)(nil)
