package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	appvideo "extract-mp3/application/video"
	"extract-mp3/domain/video"
	"extract-mp3/infrastructure/config"
	"extract-mp3/infrastructure/ffmpeg"
	"extract-mp3/infrastructure/filesystem"
	"extract-mp3/infrastructure/mp3"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	extractSourcePath string
	extractOutputPath string
	extractBitrate    string
	extractSampleRate int
	extractStart      string
	extractEnd        string
)

var extractAudioCmd = &cobra.Command{
	Use:   "extract-audio [source]",
	Short: "Extract audio from a video file",
	Long: `Extract the audio track of a video file to MP3 format.

The source may be given as an argument or with --source; otherwise the
configured paths.source_file is used. Without --output the MP3 is named after
the source and written to paths.output_directory, or the current directory.
An existing output file is replaced.

Example:
  extract-mp3 extract-audio ~/Downloads/exp33.mp4
  extract-mp3 extract-audio --source exp33.mp4 --output exp33.mp3 --bitrate 128k
  extract-mp3 extract-audio exp33.mp4 --start 00:01:00 --end 00:05:30`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtractAudio,
}

func init() {
	rootCmd.AddCommand(extractAudioCmd)
	extractAudioCmd.Flags().StringVar(&extractSourcePath, "source", "", "Path to source video file")
	extractAudioCmd.Flags().StringVarP(&extractOutputPath, "output", "o", "", "Path of the MP3 to write")
	extractAudioCmd.Flags().StringVar(&extractBitrate, "bitrate", "", "Audio bitrate (default from config or 192k)")
	extractAudioCmd.Flags().IntVar(&extractSampleRate, "sample-rate", 0, "Output sample rate in Hz (default from config or 44100)")
	extractAudioCmd.Flags().StringVar(&extractStart, "start", "", "Start of the range to extract, HH:MM:SS")
	extractAudioCmd.Flags().StringVar(&extractEnd, "end", "", "End of the range to extract, HH:MM:SS")
}

func runExtractAudio(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return fmt.Errorf("configuration not loaded: %w", err)
	}

	sourcePath := extractSourcePath
	if sourcePath == "" && len(args) > 0 {
		sourcePath = args[0]
	}
	if sourcePath == "" {
		sourcePath = cfg.Paths.SourceFile
	}

	outputPath := extractOutputPath
	if outputPath == "" && cfg.Paths.OutputDirectory != "" {
		outputPath = filepath.Join(cfg.Paths.OutputDirectory, video.DefaultOutputPath(sourcePath))
	}

	input := appvideo.ExtractInput{
		SourcePath: sourcePath,
		OutputPath: outputPath,
		Bitrate:    extractBitrate,
		SampleRate: extractSampleRate,
		StartTime:  extractStart,
		EndTime:    extractEnd,
	}

	return RunExtractAudioWithDependencies(
		cmd.Context(),
		NewExtractDependencies(cfg, GetLogger()),
		cfg.Audio.Bitrate,
		cfg.Audio.SampleRate,
		input,
		DefaultOutput,
	)
}

// NewExtractDependencies wires the production adapters
func NewExtractDependencies(cfg *config.Config, logger *zap.Logger) appvideo.ExtractDependencies {
	prober := ffmpeg.NewProber(ffmpeg.WithFFprobePath(cfg.FFmpeg.FFprobePath))
	return appvideo.ExtractDependencies{
		Extractor: ffmpeg.NewExtractor(
			ffmpeg.WithExtractorFFmpegPath(cfg.FFmpeg.FFmpegPath),
			ffmpeg.WithExtractorLogger(logger),
		),
		Opener:      ffmpeg.NewOpener(prober, logger),
		FileChecker: filesystem.NewChecker(),
		Locker:      filesystem.NewLocker(),
		Stager:      filesystem.NewStager(),
		Verifier:    mp3.NewVerifier(),
		Logger:      logger,
	}
}

// RunExtractAudioWithDependencies runs the extract-audio command with injected dependencies (for testing)
func RunExtractAudioWithDependencies(
	ctx context.Context,
	deps appvideo.ExtractDependencies,
	bitrate string,
	sampleRate int,
	input appvideo.ExtractInput,
	output OutputWriter,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Verify ffmpeg is available if extractor supports it
	if verifiable, ok := deps.Extractor.(interface{ VerifyInstalled(context.Context) error }); ok {
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
			return fmt.Errorf("ffmpeg verification failed: %w", err)
		}
	}

	service := appvideo.NewExtractService(deps, bitrate, sampleRate)

	fmt.Fprintf(output, "Extracting audio from %s...\n", input.SourcePath)

	result, err := service.Extract(ctx, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Done! Saved as %s (%s, %s, %d Hz, stream #%d)\n",
		result.OutputPath,
		humanize.Bytes(uint64(result.SizeBytes)),
		result.Duration.Round(time.Second),
		result.SampleRate,
		result.StreamIndex,
	)
	return nil
}
