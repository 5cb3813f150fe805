package adapter_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hablacanaria/hablabot/pkg/adapter"
	"github.com/m-mizutani/gt"
)

type lineReader struct {
	lines []string
}

func (r *lineReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func TestConsoleParse(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	console := adapter.NewConsole("u1", &out)

	t.Run("command", func(t *testing.T) {
		ev, ok := console.Parse("/start now")
		gt.True(t, ok)
		gt.Equal(t, ev.Kind, adapter.EventCommand)
		gt.Equal(t, ev.Text, "start")
		gt.Equal(t, ev.UserID, "u1")
	})

	t.Run("blank line", func(t *testing.T) {
		_, ok := console.Parse("   ")
		gt.False(t, ok)
	})

	t.Run("number without prompt is text", func(t *testing.T) {
		ev, ok := console.Parse("1990")
		gt.True(t, ok)
		gt.Equal(t, ev.Kind, adapter.EventText)
		gt.Equal(t, ev.Text, "1990")
	})

	id, err := console.SendChoices(ctx, "u1", "¿Tarea?", []adapter.Choice{
		{Label: "Individual", Payload: "individual"},
		{Label: "Grupal", Payload: "group"},
	})
	gt.NoError(t, err)
	gt.S(t, out.String()).Contains("2) Grupal")

	t.Run("number picks from the latest prompt", func(t *testing.T) {
		ev, _ := console.Parse("2")
		gt.Equal(t, ev.Kind, adapter.EventChoice)
		gt.Equal(t, ev.Choice, "group")
		gt.Equal(t, ev.MessageID, id)
	})

	t.Run("out of range number is text", func(t *testing.T) {
		ev, _ := console.Parse("3")
		gt.Equal(t, ev.Kind, adapter.EventText)
	})

	gt.NoError(t, console.EditText(ctx, "u1", id, "Tarea: Grupal"))

	t.Run("answered prompt no longer captures numbers", func(t *testing.T) {
		ev, _ := console.Parse("1")
		gt.Equal(t, ev.Kind, adapter.EventText)
	})

	t.Run("explicit reference reaches an answered prompt", func(t *testing.T) {
		ev, _ := console.Parse("@" + string(id) + ":1")
		gt.Equal(t, ev.Kind, adapter.EventChoice)
		gt.Equal(t, ev.Choice, "individual")
		gt.Equal(t, ev.MessageID, id)
	})

	t.Run("voice and other", func(t *testing.T) {
		ev, _ := console.Parse("!voice /tmp/a.ogg")
		gt.Equal(t, ev.Kind, adapter.EventVoice)
		gt.Equal(t, ev.Voice.FileID, "/tmp/a.ogg")

		ev, _ = console.Parse("!sticker")
		gt.Equal(t, ev.Kind, adapter.EventOther)
	})
}

func TestConsoleEditUnknown(t *testing.T) {
	console := adapter.NewConsole("u1", io.Discard)
	gt.Error(t, console.EditText(context.Background(), "u1", "99", "x"))
}

func TestConsoleFetchVoice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.ogg")
	gt.NoError(t, os.WriteFile(path, []byte("OggS"), 0o644))

	console := adapter.NewConsole("u1", io.Discard)
	r, err := console.FetchVoice(context.Background(), path)
	gt.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	gt.NoError(t, err)
	gt.Equal(t, string(data), "OggS")
}

func TestConsoleRun(t *testing.T) {
	console := adapter.NewConsole("u1", io.Discard)
	reader := &lineReader{lines: []string{"/start", "", "hola"}}

	var got []adapter.Event
	err := console.Run(context.Background(), reader, func(ctx context.Context, ev adapter.Event) error {
		got = append(got, ev)
		return nil
	})
	gt.NoError(t, err)
	gt.A(t, got).Length(2)
	gt.Equal(t, got[0].Kind, adapter.EventCommand)
	gt.Equal(t, got[1].Text, "hola")
}
