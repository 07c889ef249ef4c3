package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kayacancode/voice-network/pkg/cli/config"
	httpctrl "github.com/kayacancode/voice-network/pkg/controller/http"
	"github.com/kayacancode/voice-network/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var maxBodyBytes int64
	var pipelineCfg pipelineConfig
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("VOICENET_ADDR"),
			Destination: &addr,
		},
		&cli.Int64Flag{
			Name:        "max-body-bytes",
			Usage:       "Maximum size of a JSON request body",
			Value:       1 << 20,
			Sources:     cli.EnvVars("VOICENET_MAX_BODY_BYTES"),
			Destination: &maxBodyBytes,
		},
	}

	flags = append(flags, pipelineCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			flush, err := sentryCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure sentry")
			}
			defer flush()

			rt, err := pipelineCfg.build(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			httpHandler := httpctrl.New(rt.uc.Capture, rt.uc.Recall, rt.uc.Memory,
				httpctrl.WithSentry(sentryCfg.Enabled()),
				httpctrl.WithMaxBodyBytes(maxBodyBytes),
				httpctrl.WithContactSearch(rt.uc.Contact),
			)
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "sentry", sentryCfg.Enabled())
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
