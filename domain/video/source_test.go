package video

import (
	"errors"
	"testing"
)

type trackingCloser struct {
	closed int
	err    error
	// stream that must already be closed when the source resource is released
	mustBeClosed *AudioStream
	orderOK      bool
}

func (c *trackingCloser) Close() error {
	c.closed++
	if c.mustBeClosed != nil {
		c.orderOK = c.mustBeClosed.Closed()
	}
	return c.err
}

func withAudio() MediaInfo {
	return MediaInfo{
		FormatName: "mov,mp4,m4a,3gp,3g2,mj2",
		Streams: []StreamInfo{
			{Index: 0, CodecType: "video", CodecName: "h264"},
			{Index: 1, CodecType: "audio", CodecName: "aac", SampleRate: 48000, Channels: 2},
			{Index: 2, CodecType: "audio", CodecName: "ac3"},
		},
	}
}

func TestMediaSource_AudioStream(t *testing.T) {
	src := NewMediaSource("in.mp4", withAudio(), nil)

	stream, err := src.AudioStream()
	if err != nil {
		t.Fatalf("AudioStream() unexpected error: %v", err)
	}
	if stream.Info().Index != 1 {
		t.Errorf("stream index = %d, want 1", stream.Info().Index)
	}
	if stream.Ordinal() != 0 {
		t.Errorf("ordinal = %d, want 0", stream.Ordinal())
	}
}

func TestMediaSource_NoAudio(t *testing.T) {
	info := MediaInfo{Streams: []StreamInfo{{Index: 0, CodecType: "video"}}}
	src := NewMediaSource("silent.mp4", info, nil)

	_, err := src.AudioStream()
	if !errors.Is(err, ErrNoAudioStream) {
		t.Fatalf("AudioStream() error = %v, want ErrNoAudioStream", err)
	}
	if !contains(err.Error(), "silent.mp4") {
		t.Errorf("error %q should name the source", err)
	}
}

func TestMediaSource_CloseReleasesStreamsFirst(t *testing.T) {
	closer := &trackingCloser{}
	src := NewMediaSource("in.mp4", withAudio(), closer)

	stream, err := src.AudioStream()
	if err != nil {
		t.Fatalf("AudioStream() unexpected error: %v", err)
	}
	closer.mustBeClosed = stream

	if err := src.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	if !stream.Closed() {
		t.Error("expected audio stream to be closed")
	}
	if !closer.orderOK {
		t.Error("audio stream was still open when the source was released")
	}
	if !src.Closed() {
		t.Error("expected source to report closed")
	}
}

func TestMediaSource_CloseIsIdempotent(t *testing.T) {
	closer := &trackingCloser{}
	src := NewMediaSource("in.mp4", withAudio(), closer)

	_ = src.Close()
	_ = src.Close()

	if closer.closed != 1 {
		t.Errorf("underlying closer called %d times, want 1", closer.closed)
	}
}

func TestMediaSource_CloseError(t *testing.T) {
	src := NewMediaSource("in.mp4", withAudio(), &trackingCloser{err: errors.New("boom")})

	err := src.Close()
	if err == nil || !contains(err.Error(), "boom") {
		t.Fatalf("Close() error = %v, want wrapped boom", err)
	}
}

func TestMediaSource_AudioStreamAfterClose(t *testing.T) {
	src := NewMediaSource("in.mp4", withAudio(), nil)
	_ = src.Close()

	if _, err := src.AudioStream(); !errors.Is(err, ErrSourceClosed) {
		t.Fatalf("AudioStream() error = %v, want ErrSourceClosed", err)
	}
}

func TestMediaInfo_AudioStreams(t *testing.T) {
	info := withAudio()
	if !info.HasAudio() {
		t.Fatal("expected HasAudio")
	}
	if got := len(info.AudioStreams()); got != 2 {
		t.Errorf("AudioStreams() len = %d, want 2", got)
	}
	if (MediaInfo{}).HasAudio() {
		t.Error("empty MediaInfo should have no audio")
	}
}
