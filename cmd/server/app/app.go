// Package app contains the main entrypoint for the server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite" // Register the sqlite driver.

	"github.com/starquake/quizdesk/internal/config"
	"github.com/starquake/quizdesk/internal/db"
	"github.com/starquake/quizdesk/internal/logging"
	"github.com/starquake/quizdesk/internal/server"
	"github.com/starquake/quizdesk/internal/store"
	"github.com/starquake/quizdesk/internal/user"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Run starts the application server: it connects to the database, runs migrations, seeds the default users and
// serves requests until ctx is canceled or the process is interrupted.
// If ln is nil, Run listens on the configured host and port.
func Run(
	ctx context.Context,
	getenv func(string) string,
	stdout io.Writer,
	ln net.Listener,
) error {
	var err error
	mainCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg *config.Config
	if cfg, err = config.Parse(getenv); err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}

	logger := logging.New(stdout, cfg.LogLevel, cfg.IsProduction())

	conn, err := db.Open(mainCtx, cfg.DBDriver, cfg.DBURI, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime)
	if err != nil {
		msg := "error opening database connection"
		logger.ErrorContext(ctx, msg, logging.ErrAttr(err))

		return fmt.Errorf("%s: %w", msg, err)
	}
	defer func() {
		if conErr := conn.Close(); conErr != nil {
			logger.ErrorContext(ctx, "error closing database connection", logging.ErrAttr(conErr))
		}
	}()
	logger.InfoContext(ctx, "database connected", slog.String("driver", cfg.DBDriver))

	if err = db.Migrate(mainCtx, conn, cfg.DBDriver); err != nil {
		msg := "error migrating database"
		logger.ErrorContext(ctx, msg, logging.ErrAttr(err))

		return fmt.Errorf("%s: %w", msg, err)
	}

	stores := store.New(conn, logger)

	// A failed seed leaves the server usable for reading quizzes.
	if _, err = user.Seed(mainCtx, logger, stores.Users); err != nil {
		logger.ErrorContext(ctx, "error seeding default users", logging.ErrAttr(err))
	}

	if ln == nil {
		listenConfig := &net.ListenConfig{}
		ln, err = listenConfig.Listen(mainCtx, "tcp", net.JoinHostPort(cfg.Host, cfg.Port))
		if err != nil {
			return fmt.Errorf("error listening on %s:%s: %w", cfg.Host, cfg.Port, err)
		}
	}

	httpServer := &http.Server{
		ReadHeaderTimeout: readHeaderTimeout,
		Handler:           server.NewServer(logger, cfg, stores),
	}

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		logger.InfoContext(ctx, "listening on "+ln.Addr().String(), slog.String("addr", ln.Addr().String()))
		if serveErr := httpServer.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("error listening and serving: %w", serveErr)
		}

		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		// make a new context for the Shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer shutdownCancel()
		if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			return fmt.Errorf("error shutting down server: %w", shutdownErr)
		}
		logger.InfoContext(ctx, "server stopped")

		return nil
	})

	if err = g.Wait(); err != nil {
		logger.ErrorContext(ctx, "server error", logging.ErrAttr(err))

		return err
	}

	return nil
}
