package cmd

import (
	"fmt"
	"os"

	"extract-mp3/infrastructure/config"
	"extract-mp3/infrastructure/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
	cfgErr   error
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "extract-mp3",
	Short: "Extract the audio track of a video file as MP3",
	Long: `extract-mp3 saves the audio track of a local video file as an MP3.

Decoding and encoding are done by ffmpeg; ffprobe is used to check that the
input is a decodable container with an audio stream before anything is written.

Example:
  extract-mp3 extract-audio ~/Downloads/exp33.mp4
  extract-mp3 extract-audio --source exp33.mp4 --output audio/exp33.mp3 --bitrate 128k`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() {
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from config or info)")
}

func initConfig() {
	explicit := cfgFile != ""
	if !explicit {
		cfgFile = config.DefaultPath
	}

	// The config file is optional unless it was asked for by name
	if explicit {
		cfg, cfgErr = config.Load(cfgFile)
	} else {
		cfg, cfgErr = config.LoadOrDefault(cfgFile)
	}

	level := logLevel
	if level == "" && cfg != nil {
		level = cfg.Logging.Level
	}
	logger = logging.New(level)
}

// GetConfig returns the loaded configuration, or the error that prevented loading it
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}

// GetLogger returns the process logger
func GetLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
