package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/hablacanaria/hablabot/pkg/usecase/export"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func exportCommand() *cli.Command {
	var (
		cfg     config
		dataset string
		table   string
		since   string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "dataset",
			Usage:       "BigQuery dataset ID",
			Sources:     cli.EnvVars("HABLABOT_BIGQUERY_DATASET"),
			Destination: &dataset,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "table",
			Usage:       "BigQuery table name",
			Value:       "answers",
			Sources:     cli.EnvVars("HABLABOT_BIGQUERY_TABLE"),
			Destination: &table,
		},
		&cli.StringFlag{
			Name:        "since",
			Usage:       "Only export answers given at or after this time (RFC3339)",
			Destination: &since,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "export",
		Usage: "Export answers to BigQuery",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.configureLogger(ctx)

			var sinceTime time.Time
			if since != "" {
				t, err := time.Parse(time.RFC3339, since)
				if err != nil {
					return goerr.Wrap(err, "invalid since", goerr.V("since", since))
				}
				sinceTime = t
			}

			repo, closeRepo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer closeRepo()

			bq, err := cfg.newBigQuery(ctx)
			if err != nil {
				return err
			}

			s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(c.Root().ErrWriter))
			s.Suffix = " exporting answers..."
			s.Start()
			n, err := export.New(repo, bq).Answers(ctx, export.AnswersInput{
				Dataset: dataset,
				Table:   table,
				Since:   sinceTime,
			})
			s.Stop()
			if err != nil {
				return goerr.Wrap(err, "failed to export answers")
			}

			fmt.Fprintf(c.Root().Writer, "Exported %d answers to %s.%s\n", n, dataset, table)
			return nil
		},
	}
}
