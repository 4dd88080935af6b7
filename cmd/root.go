package cmd

import (
	"log/slog"
	"os"

	"github.com/0w0mewo/eyeballr-cli/cmd/ping"
	"github.com/0w0mewo/eyeballr-cli/cmd/serve"
	"github.com/0w0mewo/eyeballr-cli/cmd/upload"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "eyeballr",
	Short: "eyeballr CLI",
	Long:  "Upload images to an eyeballr service, or run a local stand-in for one",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		slog.Error("Fail to execute", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.config/eyeballr/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(upload.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(ping.Cmd)
}
