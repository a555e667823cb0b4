package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	appvideo "extract-mp3/application/video"
	"extract-mp3/domain/video"
	"extract-mp3/infrastructure/config"
	"extract-mp3/infrastructure/filesystem"
)

// writingExtractor writes a marker file where ffmpeg would write its output
type writingExtractor struct {
	content      string
	runs         int
	verifyErr    error
	verifyCalled bool
}

func (w *writingExtractor) Extract(ctx context.Context, req *video.AudioExtractionRequest, outputPath string) error {
	w.runs++
	return os.WriteFile(outputPath, []byte(fmt.Sprintf("%s#%d", w.content, w.runs)), 0644)
}

func (w *writingExtractor) VerifyInstalled(ctx context.Context) error {
	w.verifyCalled = true
	return w.verifyErr
}

type stubOpener struct {
	info   video.MediaInfo
	opened []*video.MediaSource
}

func (s *stubOpener) Open(ctx context.Context, path string) (*video.MediaSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	src := video.NewMediaSource(path, s.info, f)
	s.opened = append(s.opened, src)
	return src, nil
}

// sizeVerifier accepts any non-empty file
type sizeVerifier struct{}

func (sizeVerifier) Verify(path string) (video.AudioFileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return video.AudioFileInfo{}, err
	}
	if st.Size() == 0 {
		return video.AudioFileInfo{}, video.ErrEmptyOutput
	}
	return video.AudioFileInfo{SizeBytes: st.Size(), SampleRate: 44100, Duration: 2 * time.Second}, nil
}

func audioInfo() video.MediaInfo {
	return video.MediaInfo{
		FormatName: "mov,mp4,m4a,3gp,3g2,mj2",
		Duration:   2,
		Streams: []video.StreamInfo{
			{Index: 0, CodecType: "video", CodecName: "h264"},
			{Index: 1, CodecType: "audio", CodecName: "aac", SampleRate: 48000, Channels: 2, Duration: 2},
		},
	}
}

func newTestDeps(t *testing.T, ex *writingExtractor, opener *stubOpener) appvideo.ExtractDependencies {
	t.Helper()
	return appvideo.ExtractDependencies{
		Extractor:   ex,
		Opener:      opener,
		FileChecker: filesystem.NewChecker(),
		Locker:      filesystem.NewLockerInDir(t.TempDir()),
		Stager:      filesystem.NewStager(),
		Verifier:    sizeVerifier{},
	}
}

func writeSource(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "exp33.mp4")
	if err := os.WriteFile(path, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunExtractAudio_WritesAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir)
	output := filepath.Join(dir, "out", "exp33.mp3")

	ex := &writingExtractor{content: "mp3"}
	opener := &stubOpener{info: audioInfo()}
	deps := newTestDeps(t, ex, opener)
	input := appvideo.ExtractInput{SourcePath: source, OutputPath: output}

	var out bytes.Buffer
	for i := 1; i <= 2; i++ {
		out.Reset()
		if err := RunExtractAudioWithDependencies(context.Background(), deps, "", 0, input, &out); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}

		got, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("run %d: output missing: %v", i, err)
		}
		if want := fmt.Sprintf("mp3#%d", i); string(got) != want {
			t.Errorf("run %d: output = %q, want %q", i, got, want)
		}
		if !strings.Contains(out.String(), "Done! Saved as "+output) {
			t.Errorf("run %d: missing completion message in %q", i, out.String())
		}
		if !strings.Contains(out.String(), "44100 Hz, stream #1)") {
			t.Errorf("run %d: completion message should name rate and stream: %q", i, out.String())
		}
	}

	if !ex.verifyCalled {
		t.Error("expected ffmpeg verification")
	}
	for _, src := range opener.opened {
		if !src.Closed() {
			t.Error("media source left open")
		}
	}

	entries, _ := os.ReadDir(filepath.Dir(output))
	if len(entries) != 1 {
		t.Errorf("expected only the mp3 in the output directory, got %d entries", len(entries))
	}
}

func TestRunExtractAudio_MissingSourceWritesNothing(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "exp33.mp3")
	ex := &writingExtractor{content: "mp3"}

	var out bytes.Buffer
	err := RunExtractAudioWithDependencies(context.Background(), newTestDeps(t, ex, &stubOpener{info: audioInfo()}), "", 0,
		appvideo.ExtractInput{SourcePath: filepath.Join(dir, "missing.mp4"), OutputPath: output}, &out)

	if !errors.Is(err, video.ErrSourceNotFound) {
		t.Fatalf("error = %v, want ErrSourceNotFound", err)
	}
	if ex.runs != 0 {
		t.Error("encoder should not run")
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("no output should be written")
	}
	if strings.Contains(out.String(), "Done!") {
		t.Error("completion message printed on failure")
	}
}

func TestRunExtractAudio_NoAudioKeepsPreviousOutput(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir)
	output := filepath.Join(dir, "exp33.mp3")
	if err := os.WriteFile(output, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	opener := &stubOpener{info: video.MediaInfo{Streams: []video.StreamInfo{{Index: 0, CodecType: "video"}}}}
	ex := &writingExtractor{content: "mp3"}

	err := RunExtractAudioWithDependencies(context.Background(), newTestDeps(t, ex, opener), "", 0,
		appvideo.ExtractInput{SourcePath: source, OutputPath: output}, &bytes.Buffer{})

	if !errors.Is(err, video.ErrNoAudioStream) {
		t.Fatalf("error = %v, want ErrNoAudioStream", err)
	}
	got, _ := os.ReadFile(output)
	if string(got) != "previous" {
		t.Errorf("output was modified: %q", got)
	}
	if !opener.opened[0].Closed() {
		t.Error("media source left open after failure")
	}
}

func TestRunExtractAudio_FFmpegMissing(t *testing.T) {
	dir := t.TempDir()
	ex := &writingExtractor{verifyErr: errors.New("executable file not found")}

	err := RunExtractAudioWithDependencies(context.Background(), newTestDeps(t, ex, &stubOpener{info: audioInfo()}), "", 0,
		appvideo.ExtractInput{SourcePath: writeSource(t, dir)}, &bytes.Buffer{})

	if err == nil || !strings.Contains(err.Error(), "ffmpeg verification failed") {
		t.Fatalf("error = %v, want ffmpeg verification failure", err)
	}
	if ex.runs != 0 {
		t.Error("encoder should not run")
	}
}

func TestRunProbe(t *testing.T) {
	dir := t.TempDir()
	opener := &stubOpener{info: audioInfo()}

	var out bytes.Buffer
	if err := RunProbeWithDependencies(context.Background(), opener, writeSource(t, dir), &out); err != nil {
		t.Fatalf("RunProbeWithDependencies() unexpected error: %v", err)
	}

	for _, want := range []string{"h264", "aac", "48000", "1 audio stream(s)"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if !opener.opened[0].Closed() {
		t.Error("probe left the source open")
	}
}

func TestRunProbe_NoAudio(t *testing.T) {
	dir := t.TempDir()
	opener := &stubOpener{info: video.MediaInfo{Streams: []video.StreamInfo{{Index: 0, CodecType: "video", CodecName: "vp9"}}}}

	var out bytes.Buffer
	if err := RunProbeWithDependencies(context.Background(), opener, writeSource(t, dir), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "No audio stream") {
		t.Errorf("expected no-audio warning:\n%s", out.String())
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := formatSeconds(0); got != "-" {
		t.Errorf("formatSeconds(0) = %q", got)
	}
	if got := formatSeconds(90.5); got != "1m30.5s" {
		t.Errorf("formatSeconds(90.5) = %q", got)
	}
}

// scriptedPrompter answers Input prompts in order, then falls back to defaults
type scriptedPrompter struct {
	inputs  []string
	confirm bool
}

func (p *scriptedPrompter) Input(message, defaultValue string) (string, error) {
	if len(p.inputs) == 0 {
		return defaultValue, nil
	}
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	return v, nil
}

func (p *scriptedPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	return p.confirm, nil
}

func TestRunSetup_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "config.yaml")

	var out bytes.Buffer
	if err := RunSetupWithPrompter(&scriptedPrompter{}, path, &out); err != nil {
		t.Fatalf("RunSetupWithPrompter() unexpected error: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if *cfg != *config.Default() {
		t.Errorf("config = %+v, want defaults %+v", cfg, config.Default())
	}
}

func TestRunSetup_CustomValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	prompter := &scriptedPrompter{inputs: []string{"/videos/talk.mkv", "/audio", "320k", "48000", "/opt/ffmpeg", "", "DEBUG"}}

	if err := RunSetupWithPrompter(prompter, path, &bytes.Buffer{}); err != nil {
		t.Fatalf("RunSetupWithPrompter() unexpected error: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Paths.SourceFile != "/videos/talk.mkv" || cfg.Paths.OutputDirectory != "/audio" {
		t.Errorf("paths = %+v", cfg.Paths)
	}
	if cfg.Audio.Bitrate != "320k" || cfg.Audio.SampleRate != 48000 {
		t.Errorf("audio = %+v", cfg.Audio)
	}
	if cfg.FFmpeg.FFmpegPath != "/opt/ffmpeg" || cfg.FFmpeg.FFprobePath != "ffprobe" {
		t.Errorf("ffmpeg = %+v", cfg.FFmpeg)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestRunSetup_BadSampleRate(t *testing.T) {
	for _, rate := range []string{"fast", "0", "1", "11025"} {
		t.Run(rate, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			prompter := &scriptedPrompter{inputs: []string{"", "", "", rate}}

			if err := RunSetupWithPrompter(prompter, path, &bytes.Buffer{}); err == nil {
				t.Fatalf("expected error for sample rate %q", rate)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Error("config should not be written")
			}
		})
	}
}

func TestRunSetup_DeclineOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := RunSetupWithPrompter(&scriptedPrompter{confirm: false}, path, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Setup cancelled.") {
		t.Errorf("output = %q", out.String())
	}
	got, _ := os.ReadFile(path)
	if string(got) != "original" {
		t.Errorf("config was modified: %q", got)
	}
}

func TestRunConfigShow(t *testing.T) {
	var out bytes.Buffer
	missing := filepath.Join(t.TempDir(), "config.yaml")

	if err := RunConfigShowWithDependencies(config.Default(), missing, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "showing defaults") || !strings.Contains(out.String(), "bitrate: 192k") {
		t.Errorf("output = %q", out.String())
	}
}
