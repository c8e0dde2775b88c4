package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/devconnector/internal/buildinfo"
	"github.com/dmitrijs2005/devconnector/internal/client/cli"
	"github.com/dmitrijs2005/devconnector/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app := cli.NewApp(cfg)
	app.Run(ctx)

}
