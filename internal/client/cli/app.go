// Package cli wires the client stack together and dispatches the
// upload/download/remove subcommands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/adelorme/partage/internal/client/api"
	"github.com/adelorme/partage/internal/client/config"
	"github.com/adelorme/partage/internal/client/localdb"
	"github.com/adelorme/partage/internal/client/transfer"
	"github.com/adelorme/partage/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config     *config.Config
	uploader   *transfer.Uploader
	downloader *transfer.Downloader
	out        io.Writer
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	repos, err := localdb.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	client := api.New(c.ServerBaseURL)

	return &App{
		config:     c,
		uploader:   transfer.NewUploader(client, repos.Uploads, repos.Secrets, logger),
		downloader: transfer.NewDownloader(client, repos.Downloads, logger),
		out:        os.Stdout,
	}, nil
}

// Run executes the subcommand named by the first non-flag argument.
func (app *App) Run(ctx context.Context, args []string) error {

	if len(args) == 0 {
		return fmt.Errorf("usage: partage <upload|download|remove> [options]")
	}

	switch args[0] {
	case "upload":
		return app.runUpload(ctx, args[1:])
	case "download":
		return app.runDownload(ctx, args[1:])
	case "remove":
		return app.runRemove(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (app *App) runUpload(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	name := fs.String("name", "", "published file name (defaults to the source file name)")
	expire := fs.String("expire", "", "lifetime spec, e.g. 30m, 2h, 7d")
	maxDownloads := fs.Int64("max-downloads", 0, "download count limit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: partage upload [options] <path>")
	}

	pub, err := app.uploader.Upload(ctx, fs.Arg(0), transfer.UploadOptions{
		Name:         *name,
		Expire:       *expire,
		MaxDownloads: *maxDownloads,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(app.out, pub.Identifier)
	return nil
}

func (app *App) runDownload(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	out := fs.String("o", "", "destination path (defaults to the published name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: partage download [-o path] <identifier>")
	}
	// the downloader resolves an empty destination to the published name
	dest, err := app.downloader.Download(ctx, fs.Arg(0), *out)
	if err != nil {
		return err
	}

	fmt.Fprintln(app.out, dest)
	return nil
}

func (app *App) runRemove(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: partage remove <identifier>")
	}

	return app.uploader.Remove(ctx, fs.Arg(0))
}
