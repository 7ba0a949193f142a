package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "dspacectl",
		Usage: "Inspect and maintain items on a DSpace 7 repository",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/dspace.yaml",
				Value:       "config/dspace.yaml",
				Sources:     cli.EnvVars("DSPACE_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			statusCommand,
			infoCommand,
			itemsCommand,
			searchCommand,
			relationshipsCommand,
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("dspacectl error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
