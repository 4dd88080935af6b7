package ping

import (
	"fmt"
	"os"

	"github.com/0w0mewo/eyeballr-cli/internal/config"
	"github.com/0w0mewo/eyeballr-cli/internal/eyeballr"
	"github.com/0w0mewo/eyeballr-cli/internal/eyeballr/constants"
	"github.com/spf13/cobra"
)

var Cmd = &cobra.Command{
	Use:   "ping <baseurl>",
	Short: "Check that an eyeballr service is up",
	Long:  "Check that an eyeballr service is up",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		client := eyeballr.NewClient(
			eyeballr.WithUserAgent(cfg.Client.UserAgent),
			eyeballr.WithTimeout(cfg.Client.RequestTimeout),
			eyeballr.WithInsecure(cfg.Client.Insecure),
		)
		sess := eyeballr.NewSession(args[0])

		for _, path := range []string{constants.HealthPath, constants.PingPath} {
			body, err := client.Ping(sess, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Fprintf(os.Stdout, "%s: %s\n", path, body)
		}

		return nil
	},
}
