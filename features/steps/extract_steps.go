//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	appvideo "extract-mp3/application/video"
	"extract-mp3/cmd"
	"extract-mp3/domain/video"
	"extract-mp3/infrastructure/ffmpeg"
	"extract-mp3/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

// mockExtractor records calls to Extract and writes a stand-in mp3
type mockExtractor struct {
	calls      []extractCall
	writeEmpty bool
	shouldFail bool
	failError  error
}

type extractCall struct {
	req        video.AudioExtractionRequest
	outputPath string
	args       []string
}

func (m *mockExtractor) Extract(ctx context.Context, req *video.AudioExtractionRequest, outputPath string) error {
	m.calls = append(m.calls, extractCall{
		req:        *req,
		outputPath: outputPath,
		args:       ffmpeg.BuildArgs(req, outputPath),
	})
	if m.shouldFail {
		return m.failError
	}
	content := []byte(fmt.Sprintf("ID3 run %d", len(m.calls)))
	if m.writeEmpty {
		content = nil
	}
	return os.WriteFile(outputPath, content, 0644)
}

// mockOpener serves probed stream layouts registered per file name
type mockOpener struct {
	layouts map[string]video.MediaInfo
	opened  []*video.MediaSource
}

func (m *mockOpener) Open(ctx context.Context, path string) (*video.MediaSource, error) {
	info, ok := m.layouts[filepath.Base(path)]
	if !ok {
		return nil, fmt.Errorf("%s is not a decodable media container", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	src := video.NewMediaSource(path, info, f)
	m.opened = append(m.opened, src)
	return src, nil
}

// mockVerifier accepts any non-empty file
type mockVerifier struct{}

func (mockVerifier) Verify(path string) (video.AudioFileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return video.AudioFileInfo{}, err
	}
	if st.Size() == 0 {
		return video.AudioFileInfo{}, video.ErrEmptyOutput
	}
	return video.AudioFileInfo{SizeBytes: st.Size(), SampleRate: video.DefaultSampleRate, Duration: time.Second}, nil
}

// extractContext holds test state for extract scenarios
type extractContext struct {
	workDir   string
	bitrate   string
	extractor *mockExtractor
	opener    *mockOpener
	output    *bytes.Buffer
	err       error
}

// SharedExtractContext is reset before each scenario via Before hook
var SharedExtractContext *extractContext

func getExtractContext() *extractContext {
	return SharedExtractContext
}

func InitializeExtractScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "extract-mp3-features-*")
		if err != nil {
			return c, err
		}
		SharedExtractContext = &extractContext{
			workDir:   dir,
			bitrate:   video.DefaultAudioBitrate,
			extractor: &mockExtractor{},
			opener:    &mockOpener{layouts: make(map[string]video.MediaInfo)},
			output:    &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedExtractContext != nil {
			os.RemoveAll(SharedExtractContext.workDir)
		}
		SharedExtractContext = nil
		return c, nil
	})

	ctx.Step(`^the default audio bitrate is "([^"]*)"$`, theDefaultAudioBitrateIs)
	ctx.Step(`^a video "([^"]*)" with streams:$`, aVideoWithStreams)
	ctx.Step(`^a file "([^"]*)" that is not a media container$`, aFileThatIsNotAMediaContainer)
	ctx.Step(`^the encoder produces an empty file$`, theEncoderProducesAnEmptyFile)
	ctx.Step(`^the encoder fails with "([^"]*)"$`, theEncoderFailsWith)
	ctx.Step(`^I extract audio from "([^"]*)" to "([^"]*)"$`, iExtractAudioFromTo)
	ctx.Step(`^I attempt to extract audio from "([^"]*)" to "([^"]*)"$`, iAttemptToExtractAudioFromTo)
	ctx.Step(`^I extract audio from "([^"]*)" to "([^"]*)" between "([^"]*)" and "([^"]*)"$`, iExtractAudioFromToBetween)
	ctx.Step(`^the file "([^"]*)" should exist and not be empty$`, theFileShouldExistAndNotBeEmpty)
	ctx.Step(`^the file "([^"]*)" should not exist$`, theFileShouldNotExist)
	ctx.Step(`^the file "([^"]*)" should hold the output of run (\d+)$`, theFileShouldHoldTheOutputOfRun)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
	ctx.Step(`^ffmpeg should have been called with audio arguments:$`, ffmpegShouldHaveBeenCalledWithAudioArguments)
	ctx.Step(`^ffmpeg should have been called (\d+) times?$`, ffmpegShouldHaveBeenCalledTimes)
	ctx.Step(`^ffmpeg should not have been called$`, ffmpegShouldNotHaveBeenCalled)
	ctx.Step(`^no media handles should remain open$`, noMediaHandlesShouldRemainOpen)
	ctx.Step(`^no partial files should remain$`, noPartialFilesShouldRemain)
	ctx.Step(`^I should receive an error about missing source video$`, iShouldReceiveAnErrorAboutMissingSourceVideo)
	ctx.Step(`^I should receive an error about a missing audio stream$`, iShouldReceiveAnErrorAboutAMissingAudioStream)
	ctx.Step(`^I should receive an error about an empty output$`, iShouldReceiveAnErrorAboutAnEmptyOutput)
	ctx.Step(`^I should receive an error containing "([^"]*)"$`, iShouldReceiveAnErrorContaining)
}

func (e *extractContext) path(name string) string {
	return filepath.Join(e.workDir, name)
}

func theDefaultAudioBitrateIs(bitrate string) error {
	getExtractContext().bitrate = bitrate
	return nil
}

func aVideoWithStreams(name string, table *godog.Table) error {
	e := getExtractContext()
	info := video.MediaInfo{FormatName: "mov,mp4,m4a,3gp,3g2,mj2"}
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		info.Streams = append(info.Streams, video.StreamInfo{
			Index:     i - 1,
			CodecType: row.Cells[0].Value,
			CodecName: row.Cells[1].Value,
		})
	}
	e.opener.layouts[name] = info
	return os.WriteFile(e.path(name), []byte("container"), 0644)
}

func aFileThatIsNotAMediaContainer(name string) error {
	e := getExtractContext()
	return os.WriteFile(e.path(name), []byte("just some text"), 0644)
}

func theEncoderProducesAnEmptyFile() error {
	getExtractContext().extractor.writeEmpty = true
	return nil
}

func theEncoderFailsWith(message string) error {
	e := getExtractContext()
	e.extractor.shouldFail = true
	e.extractor.failError = errors.New(message)
	return nil
}

func (e *extractContext) run(input appvideo.ExtractInput) error {
	deps := appvideo.ExtractDependencies{
		Extractor:   e.extractor,
		Opener:      e.opener,
		FileChecker: filesystem.NewChecker(),
		Locker:      filesystem.NewLockerInDir(e.workDir),
		Stager:      filesystem.NewStager(),
		Verifier:    mockVerifier{},
	}
	e.output.Reset()
	e.err = cmd.RunExtractAudioWithDependencies(context.Background(), deps, e.bitrate, 0, input, e.output)
	return e.err
}

func iExtractAudioFromTo(source, output string) error {
	e := getExtractContext()
	if err := e.run(appvideo.ExtractInput{SourcePath: e.path(source), OutputPath: e.path(output)}); err != nil {
		return fmt.Errorf("unexpected error: %v", err)
	}
	return nil
}

func iAttemptToExtractAudioFromTo(source, output string) error {
	e := getExtractContext()
	_ = e.run(appvideo.ExtractInput{SourcePath: e.path(source), OutputPath: e.path(output)})
	return nil
}

func iExtractAudioFromToBetween(source, output, start, end string) error {
	e := getExtractContext()
	err := e.run(appvideo.ExtractInput{
		SourcePath: e.path(source),
		OutputPath: e.path(output),
		StartTime:  start,
		EndTime:    end,
	})
	if err != nil {
		return fmt.Errorf("unexpected error: %v", err)
	}
	return nil
}

func theFileShouldExistAndNotBeEmpty(name string) error {
	e := getExtractContext()
	st, err := os.Stat(e.path(name))
	if err != nil {
		return fmt.Errorf("expected %s to exist: %w", name, err)
	}
	if st.Size() == 0 {
		return fmt.Errorf("expected %s to be non-empty", name)
	}
	return nil
}

func theFileShouldNotExist(name string) error {
	e := getExtractContext()
	if _, err := os.Stat(e.path(name)); !os.IsNotExist(err) {
		return fmt.Errorf("expected %s to not exist", name)
	}
	return nil
}

func theFileShouldHoldTheOutputOfRun(name string, run int) error {
	e := getExtractContext()
	data, err := os.ReadFile(e.path(name))
	if err != nil {
		return err
	}
	if want := fmt.Sprintf("ID3 run %d", run); string(data) != want {
		return fmt.Errorf("expected %s to hold %q, got %q", name, want, data)
	}
	return nil
}

func theOutputShouldContain(text string) error {
	e := getExtractContext()
	if !strings.Contains(e.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got %q", text, e.output.String())
	}
	return nil
}

func ffmpegShouldHaveBeenCalledWithAudioArguments(table *godog.Table) error {
	e := getExtractContext()
	if len(e.extractor.calls) == 0 {
		return fmt.Errorf("ffmpeg was not called")
	}

	call := e.extractor.calls[len(e.extractor.calls)-1]

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		expectedArg := row.Cells[0].Value
		found := false
		for _, arg := range call.args {
			if arg == expectedArg {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("expected argument %q not found in ffmpeg call: %v", expectedArg, call.args)
		}
	}
	return nil
}

func ffmpegShouldHaveBeenCalledTimes(n int) error {
	e := getExtractContext()
	if len(e.extractor.calls) != n {
		return fmt.Errorf("expected %d ffmpeg calls, got %d", n, len(e.extractor.calls))
	}
	return nil
}

func ffmpegShouldNotHaveBeenCalled() error {
	return ffmpegShouldHaveBeenCalledTimes(0)
}

func noMediaHandlesShouldRemainOpen() error {
	e := getExtractContext()
	for _, src := range e.opener.opened {
		if !src.Closed() {
			return fmt.Errorf("media source %s is still open", src.Path())
		}
	}
	return nil
}

func noPartialFilesShouldRemain() error {
	e := getExtractContext()
	matches, err := filepath.Glob(filepath.Join(e.workDir, ".*.part"))
	if err != nil {
		return err
	}
	if len(matches) > 0 {
		return fmt.Errorf("partial files left behind: %v", matches)
	}
	return nil
}

func iShouldReceiveAnErrorAboutMissingSourceVideo() error {
	e := getExtractContext()
	if e.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(e.err.Error(), "does not exist") {
		return fmt.Errorf("expected error about missing source video, got: %v", e.err)
	}
	return nil
}

func iShouldReceiveAnErrorAboutAMissingAudioStream() error {
	e := getExtractContext()
	if !errors.Is(e.err, video.ErrNoAudioStream) {
		return fmt.Errorf("expected missing audio stream error, got: %v", e.err)
	}
	return nil
}

func iShouldReceiveAnErrorAboutAnEmptyOutput() error {
	e := getExtractContext()
	if !errors.Is(e.err, video.ErrEmptyOutput) {
		return fmt.Errorf("expected empty output error, got: %v", e.err)
	}
	return nil
}

func iShouldReceiveAnErrorContaining(text string) error {
	e := getExtractContext()
	if e.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(e.err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got: %v", text, e.err)
	}
	return nil
}
