package video

import (
	"errors"
	"fmt"
	"io"
)

// MediaSource is an open, probed input container. It owns the underlying
// resource and every AudioStream it hands out.
type MediaSource struct {
	path    string
	info    MediaInfo
	closer  io.Closer
	streams []*AudioStream
	closed  bool
}

// NewMediaSource wraps an opened input. closer may be nil.
func NewMediaSource(path string, info MediaInfo, closer io.Closer) *MediaSource {
	return &MediaSource{
		path:   path,
		info:   info,
		closer: closer,
	}
}

// Path returns the input path
func (s *MediaSource) Path() string {
	return s.path
}

// Info returns the probed container description
func (s *MediaSource) Info() MediaInfo {
	return s.info
}

// Closed reports whether Close has been called
func (s *MediaSource) Closed() bool {
	return s.closed
}

// AudioStream returns a handle on the first audio stream of the source
func (s *MediaSource) AudioStream() (*AudioStream, error) {
	if s.closed {
		return nil, ErrSourceClosed
	}

	audio := s.info.AudioStreams()
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAudioStream, s.path)
	}

	stream := &AudioStream{
		source:  s,
		info:    audio[0],
		ordinal: 0,
	}
	s.streams = append(s.streams, stream)
	return stream, nil
}

// Close releases any audio streams still open, then the source itself.
// Calling Close more than once is a no-op.
func (s *MediaSource) Close() error {
	if s.closed {
		return nil
	}

	var errs []error
	for _, stream := range s.streams {
		if err := stream.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.streams = nil

	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", s.path, err))
		}
	}
	s.closed = true

	return errors.Join(errs...)
}

// AudioStream is a view on one audio stream of a MediaSource. It must not
// outlive the source that produced it.
type AudioStream struct {
	source  *MediaSource
	info    StreamInfo
	ordinal int
	closed  bool
}

// Info returns the probed stream description
func (a *AudioStream) Info() StreamInfo {
	return a.info
}

// Ordinal is the position of the stream among the container's audio
// streams, as used by ffmpeg's 0:a:N selector
func (a *AudioStream) Ordinal() int {
	return a.ordinal
}

// Closed reports whether the stream has been released
func (a *AudioStream) Closed() bool {
	return a.closed
}

// Close releases the stream. It is safe to call more than once.
func (a *AudioStream) Close() error {
	a.closed = true
	return nil
}
