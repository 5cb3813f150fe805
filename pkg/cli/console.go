package cli

import (
	"context"
	"fmt"

	"github.com/hablacanaria/hablabot/pkg/adapter"
	"github.com/hablacanaria/hablabot/pkg/usecase/survey"
	"github.com/hablacanaria/hablabot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func consoleCommand() *cli.Command {
	var (
		cfg         config
		userID      string
		bankPath    string
		historyFile string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Aliases:     []string{"u"},
			Usage:       "User ID the console speaks as",
			Value:       "console",
			Sources:     cli.EnvVars("HABLABOT_USER_ID"),
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "bank",
			Usage:       "YAML question bank loaded before starting (memory backend only)",
			Sources:     cli.EnvVars("HABLABOT_BANK"),
			Destination: &bankPath,
		},
		&cli.StringFlag{
			Name:        "history-file",
			Usage:       "Readline history file",
			Sources:     cli.EnvVars("HABLABOT_HISTORY_FILE"),
			Destination: &historyFile,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, audioFlags(&cfg)...)

	return &cli.Command{
		Name:  "console",
		Usage: "Run the survey in the terminal",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.configureLogger(ctx)

			if bankPath != "" && cfg.backend != backendMemory {
				return goerr.New("bank is only loaded with the memory backend, use the import command instead",
					goerr.V("backend", cfg.backend))
			}

			// Initialize dependencies
			repo, closeRepo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer closeRepo()

			if bankPath != "" {
				result, err := importBank(ctx, repo, bankPath)
				if err != nil {
					return err
				}
				logging.From(ctx).Info("bank loaded",
					"consent_texts", result.ConsentTexts,
					"multiple_choice", result.MultipleChoice,
					"open", result.Open)
			}

			audio, err := cfg.newAudioStore(ctx)
			if err != nil {
				return err
			}

			rl, err := adapter.NewReadline(historyFile)
			if err != nil {
				return err
			}
			defer rl.Close()

			console := adapter.NewConsole(userID, c.Root().Writer)
			uc := survey.New(repo, console, audio)

			fmt.Fprintf(c.Root().Writer, "Console started as %s. Type /start to begin, Ctrl-D to quit.\n", userID)
			if err := console.Run(ctx, rl, uc.HandleEvent); err != nil {
				return goerr.Wrap(err, "console stopped")
			}

			fmt.Fprintf(c.Root().Writer, "\nConsole session completed\n")
			return nil
		},
	}
}
