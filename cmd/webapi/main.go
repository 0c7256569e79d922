/*
Webapi is the executable for the art gallery web server.
It connects to the SQLite database, registers the users, artworks, blog and events APIs and serves them,
along with the images directory, until a termination signal is received.

Usage:

	webapi [flags]

Flags and configurations are handled automatically by the code in `load-configuration.go`.

Return values (exit codes):

	0
		The program ended successfully (no errors, stopped by signal)

	> 0
		The program ended due to an error

Note that this program will create the database schema when the database file doesn't exist, and refuse to start
when an existing database doesn't match the expected schema.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf"
	"github.com/silktrader/vernissage/pkg/artworks"
	"github.com/silktrader/vernissage/pkg/auth"
	"github.com/silktrader/vernissage/pkg/blog"
	"github.com/silktrader/vernissage/pkg/events"
	"github.com/silktrader/vernissage/pkg/rest"
	"github.com/silktrader/vernissage/pkg/storage/images"
	"github.com/silktrader/vernissage/pkg/storage/sqlite"
	"github.com/silktrader/vernissage/pkg/users"
	"github.com/sirupsen/logrus"
)

// main is the program entry point. The only purpose of this function is to call run() and set the exit code if there is
// any error
func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error: ", err)
		os.Exit(1)
	}
}

// run executes the program. The body of this function performs the following steps:
// * reads the configuration
// * creates and configure the logger
// * connects to the database and prepares the images directory
// * starts the API web server
// * waits for any termination event: SIGTERM signal (UNIX), non-recoverable server error, etc.
// * closes the API web server
func run() error {
	// Load Configuration and defaults
	cfg, err := loadConfiguration(os.Args[1:])
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return nil
		}
		return err
	}

	// Init logging
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.Infof("application initializing")

	// initialise database before registering handlers for an immediate exit in case of issues
	storage, err := sqlite.New(logger, cfg.DB.Filename)
	if err != nil {
		logger.WithError(err).Error("error initialising storage")
		return fmt.Errorf("error while initialising storage: %w", err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.WithError(err).Warning("error while closing storage")
		}
	}()

	imageStorage, err := images.New(logger, cfg.Images.Path)
	if err != nil {
		logger.WithError(err).Error("error initialising images storage")
		return fmt.Errorf("error while initialising images storage: %w", err)
	}

	// Start (main) API server
	logger.Info("initializing API server")

	hasher := auth.NewHasher(cfg.Auth.Cost)
	logger.WithField("cost", hasher.Cost()).Debug("passwords hashed with bcrypt")

	handler, err := newAPIHandler(logger, storage, imageStorage, hasher)
	if err != nil {
		logger.WithError(err).Error("error creating the API server instance")
		return fmt.Errorf("creating the API server instance: %w", err)
	}

	// Apply CORS policy
	handler = applyCORSHandler(handler, cfg.Web.AllowedOrigins)

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// create the API server
	server := http.Server{
		Addr:              cfg.Web.APIHost,
		Handler:           handler,
		ReadTimeout:       cfg.Web.ReadTimeout,
		ReadHeaderTimeout: cfg.Web.ReadTimeout,
		WriteTimeout:      cfg.Web.WriteTimeout,
	}

	// Start the service listening for requests in a separate goroutine
	go func() {
		logger.Infof("API listening on %s", server.Addr)
		serverErrors <- server.ListenAndServe()
		logger.Infof("stopping API server")
	}()

	// Waiting for shutdown signal or POSIX signals
	select {
	case err := <-serverErrors:
		// Non-recoverable server error
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("signal %v received, start shutdown", sig)

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and load shed.
		if err = server.Shutdown(ctx); err != nil {
			logger.WithError(err).Warning("error during graceful shutdown of HTTP server")
			_ = server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// newAPIHandler wires repositories and handlers around a single connection pool.
func newAPIHandler(logger logrus.FieldLogger, storage *sqlite.Storage, imageStorage images.Storage, hasher auth.Hasher) (http.Handler, error) {
	e, err := rest.New(rest.Config{
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	users.RegisterHandlers(e, users.NewRepository(storage.Connection, hasher))
	artworks.RegisterHandlers(e, artworks.NewStore(storage.Connection))
	blog.RegisterHandlers(e, blog.NewStore(storage.Connection))
	events.RegisterHandlers(e, events.NewStore(storage.Connection))

	e.Get("/liveness", liveness(storage))
	e.ServeFiles("/images/*filepath", imageStorage.FileSystem())

	return e.Handler(), nil
}
