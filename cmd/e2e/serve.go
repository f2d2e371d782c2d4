package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// reportHandler serves dir with CORS open, so that trace.playwright.dev can
// load trace archives straight from it.
func reportHandler(dir string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	})
	return c.Handler(http.FileServer(http.Dir(dir)))
}

func serveAction(c *cli.Context) error {
	env, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ln, err := net.Listen("tcp", c.String(AddrFlag.Name))
	if err != nil {
		return NewRuntimeError(fmt.Errorf("could not listen: %w", err))
	}

	srv := &http.Server{
		Handler:           reportHandler(env.ReportsDir),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-c.Context.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	url := fmt.Sprintf("http://%s/index.html", ln.Addr())
	log.Info("serving reports", zap.String("dir", env.ReportsDir), zap.String("url", url))
	if c.Bool(OpenFlag.Name) {
		if err := browser.OpenURL(url); err != nil {
			log.Warn("could not open browser", zap.Error(err))
		}
	}

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return NewRuntimeError(err)
	}
	return nil
}
