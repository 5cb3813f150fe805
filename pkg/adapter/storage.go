package adapter

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// AudioStore keeps voice clips
type AudioStore interface {
	// Save writes the clip under key and returns the path to reference it by
	Save(ctx context.Context, key string, r io.Reader) (string, error)
}

// cloudAudioStore implements AudioStore interface using Cloud Storage
type cloudAudioStore struct {
	bucketName string
	client     *storage.Client
}

// NewCloudAudioStore creates a new Cloud Storage backed AudioStore
func NewCloudAudioStore(ctx context.Context, bucketName string) (AudioStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &cloudAudioStore{
		bucketName: bucketName,
		client:     client,
	}, nil
}

func (s *cloudAudioStore) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	writer := s.client.Bucket(s.bucketName).Object(key).NewWriter(ctx)
	writer.ContentType = "audio/ogg"

	if _, err := io.Copy(writer, r); err != nil {
		_ = writer.Close()
		return "", goerr.Wrap(err, "failed to write audio", goerr.V("bucket", s.bucketName), goerr.V("key", key))
	}
	if err := writer.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to close audio writer", goerr.V("bucket", s.bucketName), goerr.V("key", key))
	}

	return "gs://" + s.bucketName + "/" + key, nil
}

// localAudioStore writes clips below a base directory
type localAudioStore struct {
	baseDir string
}

// NewLocalAudioStore creates an AudioStore on the local filesystem
func NewLocalAudioStore(baseDir string) AudioStore {
	return &localAudioStore{baseDir: baseDir}
}

func (s *localAudioStore) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", goerr.Wrap(err, "failed to create audio directory", goerr.V("path", path))
	}

	f, err := os.Create(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create audio file", goerr.V("path", path))
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", goerr.Wrap(err, "failed to write audio file", goerr.V("path", path))
	}
	return path, nil
}
