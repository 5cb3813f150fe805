package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func importCommand() *cli.Command {
	var (
		cfg      config
		bankPath string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "bank",
			Aliases:     []string{"i"},
			Usage:       "Path to YAML file with consent texts and questions",
			Sources:     cli.EnvVars("HABLABOT_BANK"),
			Destination: &bankPath,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "import",
		Usage: "Import consent texts and questions into the data store",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.configureLogger(ctx)

			if cfg.backend == backendMemory {
				return goerr.New("importing into the memory backend has no effect")
			}

			repo, closeRepo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer closeRepo()

			result, err := importBank(ctx, repo, bankPath)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Imported %d consent texts, %d multiple-choice and %d open questions\n",
				result.ConsentTexts, result.MultipleChoice, result.Open)
			return nil
		},
	}
}
