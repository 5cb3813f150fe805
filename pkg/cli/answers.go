package cli

import (
	"context"
	"fmt"

	"github.com/hablacanaria/hablabot/pkg/model"
	"github.com/hablacanaria/hablabot/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func answersCommand() *cli.Command {
	var (
		cfg    config
		userID string
		pairID string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Aliases:     []string{"u"},
			Usage:       "Only show answers given by this user",
			Sources:     cli.EnvVars("HABLABOT_USER_ID"),
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "pair-id",
			Usage:       "Only show answers given by this pair",
			Destination: &pairID,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "answers",
		Usage: "List stored answers",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.configureLogger(ctx)

			repo, closeRepo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer closeRepo()

			answers, err := repo.ListAnswers(ctx, repository.AnswerFilter{
				UserID: userID,
				PairID: model.PairID(pairID),
			})
			if err != nil {
				return goerr.Wrap(err, "failed to list answers")
			}

			if len(answers) == 0 {
				fmt.Fprintf(c.Root().Writer, "No answers found\n")
				return nil
			}

			for _, a := range answers {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\t%s\n",
					a.AnsweredAt.Format("2006-01-02 15:04:05"),
					a.UserID,
					a.QuestionID,
					a.Value,
				)
			}

			return nil
		},
	}
}
