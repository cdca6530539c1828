// Command billctl runs maintenance and billing tasks against the local store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sangkips/billbook-api/pkg/logger"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "billctl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "billctl",
		Usage: "manage the billbook invoice store",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log at debug level"},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			nextNumberCommand(),
			renderCommand(),
			printCommand(),
			emailCommand(),
			exportCommand(),
			hashPasswordCommand(),
			purgeKeysCommand(),
		},
	}
}

func newLogger(c *cli.Context) *zap.Logger {
	log, err := logger.New("cli", c.Bool("verbose"))
	if err != nil {
		return zap.NewNop()
	}
	if !c.Bool("verbose") {
		return log.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	}
	return log
}
