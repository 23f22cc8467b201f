package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/urfave/cli/v3"

	"github.com/saulo-duarte/quizzer/internal/config"
	"github.com/saulo-duarte/quizzer/internal/container"
)

var Version = "dev"

func main() {
	config.Init()

	cmd := &cli.Command{
		Name:    "quizzer",
		Usage:   "AI-assisted quiz backend",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML settings file",
				Sources: cli.EnvVars("QUIZZER_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address, overrides settings and PORT",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		config.Logger.WithError(err).Fatal("quizzer exited")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	settings, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	if addr := cmd.String("addr"); addr != "" {
		settings.Server.Addr = addr
	}

	c, err := container.New(ctx, settings)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		config.Logger.Info("Starting in Lambda mode")
		lambda.Start(httpadapter.New(c.Router).ProxyWithContext)
		return nil
	}

	return serve(ctx, settings.Server.Addr, c.Router)
}

func serve(ctx context.Context, addr string, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		config.Logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	config.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
