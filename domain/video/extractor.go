package video

import (
	"context"
	"time"
)

// AudioExtractor encodes the requested audio stream of a source video to outputPath.
// outputPath may differ from req.OutputPath when the caller stages the write.
type AudioExtractor interface {
	Extract(ctx context.Context, req *AudioExtractionRequest, outputPath string) error
}

// MediaOpener opens a source video as a decodable MediaSource.
// The caller owns the returned source and must Close it.
type MediaOpener interface {
	Open(ctx context.Context, path string) (*MediaSource, error)
}

// FileChecker defines the interface for checking file existence
type FileChecker interface {
	Exists(path string) bool
}

// OutputLocker serialises writers of the same output path
type OutputLocker interface {
	// Lock blocks until the lock is held or ctx is done. The returned func releases it.
	Lock(ctx context.Context, path string) (func() error, error)
}

// OutputStager lets the encoder write beside the final path so a failed run
// never leaves a partial file at the output path
type OutputStager interface {
	TempPath(finalPath string) (string, error)
	Commit(tempPath, finalPath string) error
	Discard(tempPath string) error
}

// AudioFileInfo describes a verified output file
type AudioFileInfo struct {
	SizeBytes  int64
	SampleRate int
	Duration   time.Duration
}

// OutputVerifier checks that an encoded file is a non-empty, decodable MP3
type OutputVerifier interface {
	Verify(path string) (AudioFileInfo, error)
}
