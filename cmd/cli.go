package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"vsthost/internal/config"
	"vsthost/pkg/build"
)

func ParseArgs() (*config.Config, error) {
	buildInfo := build.GetBuildFlags()
	options := config.NewConfig()

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         "Offline host for audio effect plugins with a web control surface",
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Processing Configuration
	rootCmd.PersistentFlags().IntVarP(&options.BlockSize, "block-size", "b", config.DefaultBlockSize,
		"Samples per processing block (clamped to 64..8192)")
	rootCmd.PersistentFlags().Float64VarP(&options.SampleRate, "sample-rate", "s", config.DefaultSampleRate,
		"Sample rate plugins are instantiated at, in Hertz (Hz)")

	// Preloaded State
	rootCmd.PersistentFlags().StringVarP(&options.PluginPath, "plugin", "p", "",
		"Plugin to load at startup (path to a plugin bundle, or builtin:<name>)")
	rootCmd.PersistentFlags().StringVarP(&options.InputFile, "input", "i", "",
		"Preset input audio file path")
	rootCmd.PersistentFlags().StringVarP(&options.OutputFile, "output", "o", "",
		"Preset output WAV file path")

	// Web UI Configuration
	rootCmd.PersistentFlags().StringVar(&options.HTTPHost, "host", config.DefaultHTTPHost,
		"Bind address for the web control surface")
	rootCmd.PersistentFlags().IntVar(&options.HTTPPort, "port", config.DefaultHTTPPort,
		"Port for the web control surface")
	rootCmd.PersistentFlags().StringVar(&options.WebRoot, "webroot", "",
		"Explicit web UI asset directory (default: search upward for webui/)")

	// Debug Configuration
	rootCmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", config.DefaultVerbosity,
		"Show verbose output")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	options.BlockSize = config.ClampBlockSize(options.BlockSize)

	return options, nil
}
