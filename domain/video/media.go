package video

import "strings"

// StreamInfo describes one stream of a media container
type StreamInfo struct {
	Index      int
	CodecType  string
	CodecName  string
	SampleRate int
	Channels   int
	Duration   float64
}

// IsAudio returns true for audio streams
func (s StreamInfo) IsAudio() bool {
	return strings.EqualFold(s.CodecType, "audio")
}

// MediaInfo is the probed description of a media container
type MediaInfo struct {
	FormatName string
	Duration   float64
	SizeBytes  int64
	Streams    []StreamInfo
}

// AudioStreams returns the audio streams in container order
func (m MediaInfo) AudioStreams() []StreamInfo {
	var out []StreamInfo
	for _, s := range m.Streams {
		if s.IsAudio() {
			out = append(out, s)
		}
	}
	return out
}

// HasAudio returns true if the container carries at least one audio stream
func (m MediaInfo) HasAudio() bool {
	return len(m.AudioStreams()) > 0
}
