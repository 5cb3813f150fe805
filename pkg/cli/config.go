package cli

import (
	"context"

	"github.com/hablacanaria/hablabot/pkg/adapter"
	"github.com/hablacanaria/hablabot/pkg/repository"
	"github.com/hablacanaria/hablabot/pkg/usecase/bank"
	"github.com/hablacanaria/hablabot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	backendFirestore = "firestore"
	backendMongo     = "mongo"
	backendMemory    = "memory"
)

// config holds configuration values
type config struct {
	// Repository
	backend       string
	project       string
	database      string
	mongoURI      string
	mongoDatabase string

	// Adapters
	audioDir    string
	audioBucket string

	logLevel string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend",
			Aliases:     []string{"b"},
			Usage:       "Data store backend (firestore, mongo, memory)",
			Value:       backendFirestore,
			Sources:     cli.EnvVars("HABLABOT_BACKEND"),
			Destination: &cfg.backend,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("HABLABOT_PROJECT", "GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("HABLABOT_DATABASE", "FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "mongo-uri",
			Usage:       "MongoDB connection URI",
			Sources:     cli.EnvVars("HABLABOT_MONGO_URI"),
			Destination: &cfg.mongoURI,
		},
		&cli.StringFlag{
			Name:        "mongo-database",
			Usage:       "MongoDB database name",
			Value:       "hablabot",
			Sources:     cli.EnvVars("HABLABOT_MONGO_DATABASE"),
			Destination: &cfg.mongoDatabase,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("HABLABOT_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// audioFlags returns flags for the voice clip store
func audioFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "audio-dir",
			Usage:       "Local directory for voice clips",
			Value:       "audios",
			Sources:     cli.EnvVars("HABLABOT_AUDIO_DIR"),
			Destination: &cfg.audioDir,
		},
		&cli.StringFlag{
			Name:        "audio-bucket",
			Usage:       "Cloud Storage bucket for voice clips. Takes precedence over audio-dir",
			Sources:     cli.EnvVars("HABLABOT_AUDIO_BUCKET"),
			Destination: &cfg.audioBucket,
		},
	}
}

// configureLogger installs the logger selected by log-level and returns a context carrying it
func (cfg *config) configureLogger(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, nil)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// closer releases a backend connection
type closer func()

// newRepository creates a repository for the configured backend
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, closer, error) {
	switch cfg.backend {
	case backendFirestore:
		if cfg.project == "" {
			return nil, nil, goerr.New("project is required")
		}
		if cfg.database == "" {
			return nil, nil, goerr.New("database is required")
		}

		repo, err := repository.NewFirestore(ctx, cfg.project, cfg.database)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create repository")
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				logging.From(ctx).Warn("failed to close firestore", "error", err)
			}
		}, nil

	case backendMongo:
		if cfg.mongoURI == "" {
			return nil, nil, goerr.New("mongo-uri is required")
		}
		if cfg.mongoDatabase == "" {
			return nil, nil, goerr.New("mongo-database is required")
		}

		repo, err := repository.NewMongo(ctx, cfg.mongoURI, cfg.mongoDatabase)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create repository")
		}
		return repo, func() {
			if err := repo.Close(context.WithoutCancel(ctx)); err != nil {
				logging.From(ctx).Warn("failed to close mongodb", "error", err)
			}
		}, nil

	case backendMemory:
		return repository.NewMemory(), func() {}, nil

	default:
		return nil, nil, goerr.New("unknown backend", goerr.V("backend", cfg.backend))
	}
}

// newAudioStore creates the voice clip store. A bucket wins over a local directory.
func (cfg *config) newAudioStore(ctx context.Context) (adapter.AudioStore, error) {
	if cfg.audioBucket != "" {
		store, err := adapter.NewCloudAudioStore(ctx, cfg.audioBucket)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create audio store")
		}
		return store, nil
	}

	if cfg.audioDir == "" {
		return nil, goerr.New("audio-dir or audio-bucket is required")
	}
	return adapter.NewLocalAudioStore(cfg.audioDir), nil
}

// newBigQuery creates a BigQuery client for the configured project
func (cfg *config) newBigQuery(ctx context.Context) (adapter.BigQuery, error) {
	if cfg.project == "" {
		return nil, goerr.New("project is required")
	}

	bq, err := adapter.NewBigQuery(ctx, cfg.project)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create BigQuery client")
	}
	return bq, nil
}

// importBank loads a bank file and writes it into repo
func importBank(ctx context.Context, repo repository.Repository, path string) (*bank.Result, error) {
	b, err := bank.Load(path)
	if err != nil {
		return nil, err
	}

	result, err := bank.New(repo).Import(ctx, b)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to import bank")
	}
	return result, nil
}
