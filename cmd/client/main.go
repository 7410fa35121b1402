package main

import (
	"context"
	"log"
	"os"

	"github.com/adelorme/partage/internal/client/cli"
	"github.com/adelorme/partage/internal/client/config"
	"github.com/adelorme/partage/internal/flagx"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	args := flagx.ExcludeArgs(os.Args[1:], []string{"-s", "-b", "-c", "-config"})
	if err := app.Run(ctx, args); err != nil {
		log.Fatalf("%v", err)
	}

}
