package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/mikelady/voicegit/internal/web"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds graceful shutdown after SIGINT/SIGTERM
const shutdownTimeout = 10 * time.Second

// runningInLambda reports whether the process was started by the Lambda runtime
func runningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_RUNTIME_API") != ""
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := loadApp(ctx, *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.initService(ctx); err != nil {
				return err
			}

			if runningInLambda() {
				a.logger.Info("starting lambda handler")
				// Pool and store stay open across invocations
				lambda.Start(httpadapter.New(a.router()).ProxyWithContext)
				return nil
			}

			return serveHTTP(ctx, web.NewServer(a.cfg.Server.Addr, a.router()), a.logger)
		},
	}
}

// serveHTTP runs server until ctx is cancelled, then shuts it down gracefully
func serveHTTP(ctx context.Context, server *web.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", server.Addr()))
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}
