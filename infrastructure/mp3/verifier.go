// Package mp3 checks encoder output by decoding it.
package mp3

import (
	"fmt"
	"os"
	"time"

	"extract-mp3/domain/video"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

// go-mp3 always decodes to 16-bit stereo
const bytesPerFrame = 4

// Verifier implements video.OutputVerifier with a pure Go MP3 decoder
type Verifier struct{}

// NewVerifier creates a new Verifier
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify opens path, checks that it decodes as MP3 and holds at least one sample.
// The file is closed before Verify returns.
func (v *Verifier) Verify(path string) (video.AudioFileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return video.AudioFileInfo{}, fmt.Errorf("open extracted audio: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return video.AudioFileInfo{}, fmt.Errorf("stat extracted audio: %w", err)
	}
	if stat.Size() == 0 {
		return video.AudioFileInfo{}, video.ErrEmptyOutput
	}

	dec, err := gomp3.NewDecoder(f)
	if err != nil {
		return video.AudioFileInfo{}, fmt.Errorf("%w: %v", video.ErrInvalidOutput, err)
	}

	// Length needs a seekable reader, which *os.File is
	length := dec.Length()
	if length <= 0 || dec.SampleRate() <= 0 {
		return video.AudioFileInfo{}, fmt.Errorf("%w: no decodable samples", video.ErrInvalidOutput)
	}

	return video.AudioFileInfo{
		SizeBytes:  stat.Size(),
		SampleRate: dec.SampleRate(),
		Duration:   samplesToDuration(length/bytesPerFrame, dec.SampleRate()),
	}, nil
}

// samplesToDuration splits off whole seconds first so long files do not overflow
func samplesToDuration(samples int64, sampleRate int) time.Duration {
	rate := int64(sampleRate)
	whole := time.Duration(samples/rate) * time.Second
	return whole + time.Duration(samples%rate)*time.Second/time.Duration(rate)
}

// Ensure Verifier implements video.OutputVerifier
var _ video.OutputVerifier = (*Verifier)(nil)
