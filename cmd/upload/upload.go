package upload

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/0w0mewo/eyeballr-cli/internal/config"
	"github.com/0w0mewo/eyeballr-cli/internal/eyeballr"
	"github.com/0w0mewo/eyeballr-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	pollInterval     time.Duration
	completeAttempts int
	readyTimeout     time.Duration
	requestTimeout   time.Duration
	uid              string
	insecure         bool
	lenient          bool
)

var Cmd = &cobra.Command{
	Use:   "upload <baseurl> <file>...",
	Short: "Upload images and wait for them to be animated",
	Long: "Acquire a ticket, upload every file in order, wait until the service is ready, " +
		"trigger the merge and wait for it to complete",
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd, &cfg.Client)

		client := eyeballr.NewClient(
			eyeballr.WithUserAgent(cfg.Client.UserAgent),
			eyeballr.WithTimeout(cfg.Client.RequestTimeout),
			eyeballr.WithInsecure(cfg.Client.Insecure),
		)
		uploader := eyeballr.NewUploader(client, eyeballr.Options{
			PollInterval:     cfg.Client.PollInterval,
			CompleteAttempts: cfg.Client.CompleteAttempts,
			ReadyTimeout:     cfg.Client.ReadyTimeout,
			Lenient:          cfg.Client.Lenient,
			UID:              cfg.Client.UID,
		}, os.Stdout)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			<-utils.WaitForSignal()

			slog.Info("Abort")
			cancel()
		}()

		return uploader.Run(ctx, args[0], args[1:])
	},
}

// applyFlags lets explicitly set flags win over the config file.
func applyFlags(cmd *cobra.Command, cfg *config.Client) {
	flags := cmd.Flags()

	if flags.Changed("poll-interval") {
		cfg.PollInterval = pollInterval
	}
	if flags.Changed("ready-timeout") {
		cfg.ReadyTimeout = readyTimeout
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = requestTimeout
	}
	if flags.Changed("complete-attempts") {
		cfg.CompleteAttempts = completeAttempts
	}
	if flags.Changed("uid") {
		cfg.UID = uid
	}
	if flags.Changed("insecure") {
		cfg.Insecure = insecure
	}
	if flags.Changed("lenient") {
		cfg.Lenient = lenient
	}
}

func init() {
	Cmd.Flags().DurationVar(&pollInterval, "poll-interval", 2*time.Second, "wait between status polls")
	Cmd.Flags().IntVar(&completeAttempts, "complete-attempts", 20, "give up on completion after this many polls")
	Cmd.Flags().DurationVar(&readyTimeout, "ready-timeout", 0, "give up on readiness after this long (0 waits forever)")
	Cmd.Flags().DurationVar(&requestTimeout, "timeout", 30*time.Second, "per-request timeout")
	Cmd.Flags().StringVar(&uid, "uid", "", "UID cookie to send with the ticket request")
	Cmd.Flags().BoolVar(&insecure, "insecure", false, "skip TLS certificate verification")
	Cmd.Flags().BoolVar(&lenient, "lenient", false, "print done even if completion is never reported")
}
