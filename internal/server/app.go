// Package server initializes and runs the transfer server: it wires the
// metadata store, the blob store, the HTTP API and the expiry sweeper, and
// handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/adelorme/partage/internal/logging"
	"github.com/adelorme/partage/internal/server/blob"
	"github.com/adelorme/partage/internal/server/config"
	"github.com/adelorme/partage/internal/server/db"
	"github.com/adelorme/partage/internal/server/httpapi"
	"github.com/adelorme/partage/internal/server/sweeper"
	"github.com/adelorme/partage/internal/server/transfers"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	httpServer *httpapi.Server
	sweeper    *sweeper.Sweeper
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	m, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	blobs, err := blob.NewFSStore(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	service := transfers.NewService(m.Files(), blobs, logger, c.SessionTTL)

	return &App{
		config:     c,
		logger:     logger,
		httpServer: httpapi.NewServer(c.EndpointAddr, service, logger),
		sweeper:    sweeper.New(m.Files(), blobs, logger, c.SweepInterval),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
