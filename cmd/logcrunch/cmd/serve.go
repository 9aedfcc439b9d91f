package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coffersTech/logcrunch/internal/config"
	"github.com/coffersTech/logcrunch/internal/server"
)

var (
	flagConfig string
	flagBind   string
	flagPort   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST adapter",
	Long: `Starts an HTTP server exposing the batch operations under /api/v1
and Prometheus metrics under /metrics. Flags override the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		if flagConfig != "" {
			loaded, err := config.LoadConfig(flagConfig)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind = flagBind
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = flagPort
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers = flagWorkers
		}

		srv := server.New(cfg, nil)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			log.Printf("Received %v, shutting down", sig)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
		return <-errCh
	},
}

func init() {
	serveCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to YAML config file")
	serveCmd.Flags().StringVar(&flagBind, "bind", "127.0.0.1", "bind address")
	serveCmd.Flags().IntVarP(&flagPort, "port", "p", 8090, "listen port")
	rootCmd.AddCommand(serveCmd)
}
