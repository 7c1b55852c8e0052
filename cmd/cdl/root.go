package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/boynton/cdl"
)

var (
	verbose    bool
	configPath string
	colorMode  string

	conf   = cdl.DefaultConfig()
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var rootCmd = &cobra.Command{
	Use:   "cdl",
	Short: "Parse and convert netCDF CDL schemas",
	Long: `cdl reads netCDF CDL (Common Data Language) files, reports problems with
annotated source context, and converts the schema to other representations.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "", "Color output: auto, always, never")

	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the config and applies flags over it.
func setup(cmd *cobra.Command, args []string) error {
	conf = cdl.DefaultConfig()
	if configPath != "" {
		loaded, err := cdl.LoadConfig(configPath)
		if err != nil {
			return err
		}
		conf = loaded
	}
	if verbose {
		conf.Verbose = true
	}
	if colorMode != "" {
		conf.Color = colorMode
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	switch conf.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
	level := slog.LevelWarn
	if conf.Verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// readSource reads a CDL file, or stdin when path is "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(cmd.InOrStdin())
	} else {
		b, err = os.ReadFile(path)
	}
	return string(b), err
}
