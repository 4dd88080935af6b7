package serve

import (
	"log/slog"
	"sync"

	"github.com/0w0mewo/eyeballr-cli/internal/config"
	"github.com/0w0mewo/eyeballr-cli/internal/eyeballr/server"
	"github.com/0w0mewo/eyeballr-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	listen        string
	saveDir       string
	maxImageSize  int64
	readyAfter    int
	completeAfter int
	minMergeFiles int
)

var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local stand-in for the eyeballr API",
	Long:  "Run a local stand-in for the eyeballr API. Uploaded images are stored, never processed",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd, &cfg.Server)

		srv := server.New(cfg.Server)

		startErr := make(chan error, 1)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			startErr <- srv.Start()
		}()

		select {
		case err = <-startErr:
			// nothing is listening, stop the ticket vacuum and bail out
			srv.Stop()
			wg.Wait()
			if err != nil {
				slog.Error("Fail to start server", "error", err)
				return err
			}
			return nil

		case <-utils.WaitForSignal():
		}

		err = srv.Stop()
		wg.Wait()

		return err
	},
}

func applyFlags(cmd *cobra.Command, cfg *config.Server) {
	flags := cmd.Flags()

	if flags.Changed("listen") {
		cfg.Listen = listen
	}
	if flags.Changed("save-dir") {
		cfg.SaveDir = saveDir
	}
	if flags.Changed("max-image-size") {
		cfg.MaxImageSize = maxImageSize
	}
	if flags.Changed("ready-after") {
		cfg.ReadyAfter = readyAfter
	}
	if flags.Changed("complete-after") {
		cfg.CompleteAfter = completeAfter
	}
	if flags.Changed("min-merge-files") {
		cfg.MinMergeFiles = minMergeFiles
	}
}

func init() {
	Cmd.Flags().StringVarP(&listen, "listen", "l", "127.0.0.1:8080", "address to listen on")
	Cmd.Flags().StringVarP(&saveDir, "save-dir", "d", "", "write uploaded images under this directory")
	Cmd.Flags().Int64Var(&maxImageSize, "max-image-size", 10<<20, "largest accepted image in bytes")
	Cmd.Flags().IntVar(&readyAfter, "ready-after", 1, "readiness polls before a ticket reports ready")
	Cmd.Flags().IntVar(&completeAfter, "complete-after", 1, "completion polls after merge before a ticket reports complete")
	Cmd.Flags().IntVar(&minMergeFiles, "min-merge-files", 1, "files a ticket needs before it can be merged")
}
