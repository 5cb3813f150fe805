package adapter_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hablacanaria/hablabot/pkg/adapter"
	"github.com/m-mizutani/gt"
)

func TestLocalAudioStore(t *testing.T) {
	dir := t.TempDir()
	store := adapter.NewLocalAudioStore(dir)

	path, err := store.Save(context.Background(), "audios/u1_Q.1_abc.ogg", strings.NewReader("OggS"))
	gt.NoError(t, err)
	gt.Equal(t, path, filepath.Join(dir, "audios", "u1_Q.1_abc.ogg"))

	data, err := os.ReadFile(path)
	gt.NoError(t, err)
	gt.Equal(t, string(data), "OggS")
}

func TestCloudAudioStore(t *testing.T) {
	bucket := os.Getenv("TEST_STORAGE_BUCKET")
	if bucket == "" {
		t.Skip("TEST_STORAGE_BUCKET is not set")
	}

	ctx := context.Background()
	store, err := adapter.NewCloudAudioStore(ctx, bucket)
	gt.NoError(t, err)

	path, err := store.Save(ctx, "test/audios/sample.ogg", strings.NewReader("OggS"))
	gt.NoError(t, err)
	gt.Equal(t, path, "gs://"+bucket+"/test/audios/sample.ogg")
}
