package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/junglesafari/safaridesk/pkg/cli/config"
	httpctrl "github.com/junglesafari/safaridesk/pkg/controller/http"
	"github.com/junglesafari/safaridesk/pkg/usecase"
	"github.com/junglesafari/safaridesk/pkg/utils/logging"
	"github.com/junglesafari/safaridesk/pkg/utils/safe"
)

const shutdownTimeout = 10 * time.Second

func cmdServe(version string) *cli.Command {
	var addr string
	var repoCfg config.Repository
	var chatCfg config.Chat
	var slackCfg config.Slack
	var sentryCfg config.Sentry
	var telemetryCfg config.Telemetry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("SAFARIDESK_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, chatCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, telemetryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("Serve configuration",
				"addr", addr,
				"repository", repoCfg,
				"chat", chatCfg,
				"slack", slackCfg,
				"sentry", sentryCfg,
				"telemetry", telemetryCfg,
			)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return err
			}
			defer flush()

			shutdownTelemetry, err := telemetryCfg.Configure(ctx, version)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := shutdownTelemetry(shutdownCtx); err != nil {
					logging.Default().Error("failed to shutdown telemetry", "error", err.Error())
				}
			}()

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo, "repository")

			ucOpts, store, err := chatCfg.UseCaseOptions()
			if err != nil {
				return goerr.Wrap(err, "failed to configure chat")
			}
			slackOpts, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack")
			}
			ucOpts = append(ucOpts, slackOpts...)

			uc := usecase.New(repo, ucOpts...)

			sweeper, err := chatCfg.Sweeper(store)
			if err != nil {
				return err
			}

			httpOpts := []httpctrl.Options{
				httpctrl.WithBackendName(repoCfg.Backend()),
				httpctrl.WithSentry(sentryCfg.IsEnabled()),
			}
			if slackCfg.IsWebhookConfigured() {
				httpOpts = append(httpOpts, httpctrl.WithSlackInteraction(slackCfg.SigningSecret()))
				logging.Default().Info("Slack interaction handler enabled")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := sweeper.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start session sweeper")
			}
			defer sweeper.Stop()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logging.Default().Info("Starting HTTP server", "addr", addr, "backend", repoCfg.Backend())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "failed to start server")
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				logging.Default().Info("Shutting down HTTP server")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				logging.Default().Info("Server shutdown completed")
				return nil
			})

			return g.Wait()
		},
	}
}
