package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"extract-mp3/domain/video"
	"extract-mp3/infrastructure/ffmpeg"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe [source]",
	Short: "List the streams of a video file",
	Long: `Open a video file with ffprobe and list its streams.

Useful to check that a file has an audio track before extracting it.

Example:
  extract-mp3 probe ~/Downloads/exp33.mp4`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return fmt.Errorf("configuration not loaded: %w", err)
	}

	sourcePath := cfg.Paths.SourceFile
	if len(args) > 0 {
		sourcePath = args[0]
	}

	prober := ffmpeg.NewProber(ffmpeg.WithFFprobePath(cfg.FFmpeg.FFprobePath))
	return RunProbeWithDependencies(cmd.Context(), ffmpeg.NewOpener(prober, GetLogger()), sourcePath, DefaultOutput)
}

// RunProbeWithDependencies opens sourcePath and prints its streams (for testing)
func RunProbeWithDependencies(ctx context.Context, opener video.MediaOpener, sourcePath string, output OutputWriter) error {
	if ctx == nil {
		ctx = context.Background()
	}

	source, err := opener.Open(ctx, sourcePath)
	if err != nil {
		return err
	}
	defer source.Close()

	info := source.Info()

	t := table.NewWriter()
	t.SetOutputMirror(output)
	t.AppendHeader(table.Row{"#", "Type", "Codec", "Sample Rate", "Channels", "Duration"})
	for _, s := range info.Streams {
		sampleRate, channels := "", ""
		if s.IsAudio() {
			sampleRate = strconv.Itoa(s.SampleRate)
			channels = strconv.Itoa(s.Channels)
		}
		t.AppendRow(table.Row{s.Index, s.CodecType, s.CodecName, sampleRate, channels, formatSeconds(s.Duration)})
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	fmt.Fprintf(output, "Format: %s, duration %s, %d audio stream(s)\n",
		info.FormatName, formatSeconds(info.Duration), len(info.AudioStreams()))
	if !info.HasAudio() {
		fmt.Fprintln(output, "No audio stream: extract-audio will fail for this file")
	}
	return nil
}

func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return (time.Duration(seconds * float64(time.Second))).Round(time.Millisecond).String()
}
