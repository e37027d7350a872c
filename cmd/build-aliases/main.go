// Command build-aliases generates the persisted alias table from the
// nutrition dataset. Run it whenever the dataset files change.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/torimo/backend/config"
	"github.com/torimo/backend/internal/infrastructure/aliasstore"
	"github.com/torimo/backend/internal/infrastructure/dataset"
	"github.com/torimo/backend/internal/pkg/logging"
	"github.com/torimo/backend/internal/usecase"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:  "build-aliases",
		Usage: "Build the food alias table from the nutrition dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dataset",
				Aliases: []string{"d"},
				Usage:   "Primary dataset file (defaults to dataset.path from config)",
			},
			&cli.StringFlag{
				Name:  "override",
				Usage: "Override dataset file (defaults to dataset.override_path from config)",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output alias table (defaults to dataset.alias_path from config)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level",
				Value: "warn",
			},
			&cli.BoolFlag{
				Name:  "no-config",
				Usage: "Ignore config files and environment; flags only",
			},
		},
		Action: func(c *cli.Context) error {
			opts, err := resolveOptions(c)
			if err != nil {
				return err
			}
			logger, err := logging.New("development", c.String("log-level"))
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return run(out, opts, logger)
		},
	}
}

type options struct {
	datasetPath  string
	overridePath string
	outPath      string
}

// resolveOptions fills unset flags from the application config
func resolveOptions(c *cli.Context) (options, error) {
	opts := options{
		datasetPath:  c.String("dataset"),
		overridePath: c.String("override"),
		outPath:      c.String("out"),
	}
	if !c.Bool("no-config") {
		cfg, err := config.Load()
		if err != nil {
			return opts, err
		}
		if opts.datasetPath == "" {
			opts.datasetPath = cfg.Dataset.Path
		}
		if !c.IsSet("override") {
			opts.overridePath = cfg.Dataset.OverridePath
		}
		if opts.outPath == "" {
			opts.outPath = cfg.Dataset.AliasPath
		}
	}
	if opts.datasetPath == "" || opts.outPath == "" {
		return opts, fmt.Errorf("--dataset and --out are required")
	}
	return opts, nil
}

func run(out io.Writer, opts options, logger *zap.Logger) error {
	ds := dataset.NewLoader(logger).Load(opts.datasetPath, opts.overridePath)
	if ds.Len() == 0 {
		logger.Warn("dataset is empty, writing an empty alias table", zap.String("path", opts.datasetPath))
	}

	names := make([]string, 0, ds.Len())
	for _, e := range ds.Entries {
		names = append(names, e.Name)
	}

	table := usecase.NewAliasBuilder(logger).Build(names)
	if err := aliasstore.Save(opts.outPath, table); err != nil {
		return err
	}

	fmt.Fprintf(out, "wrote %d aliases for %d foods -> %s\n", table.Len(), table.Canonicals(), opts.outPath)
	return nil
}
