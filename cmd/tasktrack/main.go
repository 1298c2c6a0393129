package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/modules/storage"
)

var Version = "dev"

func main() {
	log.SetFlags(0)
	log.SetPrefix("tasktrack: ")

	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()

	kv, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	gateway := storage.NewGateway(kv, cfg.KeyPrefix)
	defer gateway.Close()

	app, err := newCLI(ctx, gateway, cfg)
	if err != nil {
		return err
	}
	return newRootCmd(app).ExecuteContext(ctx)
}
