package video

import "errors"

var (
	// ErrSourceNotFound is returned when the source video path does not exist
	ErrSourceNotFound = errors.New("source video does not exist")

	// ErrNoAudioStream is returned when the source container has no audio track
	ErrNoAudioStream = errors.New("source video has no audio stream")

	// ErrSourceClosed is returned when a released media source is used again
	ErrSourceClosed = errors.New("media source is closed")

	// ErrEmptyOutput is returned when the encoder produced a zero-length file
	ErrEmptyOutput = errors.New("extracted audio file is empty")

	// ErrInvalidOutput is returned when the encoded file does not decode as MP3
	ErrInvalidOutput = errors.New("extracted audio file is not a valid mp3")
)
