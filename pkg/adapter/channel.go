package adapter

import (
	"context"
	"io"
)

// MessageID identifies a message sent by the bot. Choice events carry the ID
// of the prompt they answer.
type MessageID string

type EventKind string

const (
	EventCommand EventKind = "command"
	EventText    EventKind = "text"
	EventChoice  EventKind = "choice"
	EventVoice   EventKind = "voice"
	EventOther   EventKind = "other"
)

type Voice struct {
	FileID string
}

// Event is one inbound input from a user
type Event struct {
	Kind      EventKind
	UserID    string
	ChatID    string
	Text      string // text body, or the command without the leading slash
	Choice    string // choice payload
	MessageID MessageID
	Voice     *Voice
}

// Choice is one selectable option of a prompt
type Choice struct {
	Label   string
	Payload string
}

// Channel is the conversational transport
type Channel interface {
	// SendText sends a plain message
	SendText(ctx context.Context, chatID, text string) error

	// SendChoices sends a message with selectable options and returns its ID
	SendChoices(ctx context.Context, chatID, text string, choices []Choice) (MessageID, error)

	// EditText replaces the text of a sent message and removes its options
	EditText(ctx context.Context, chatID string, id MessageID, text string) error

	// FetchVoice opens the audio of a voice note
	FetchVoice(ctx context.Context, fileID string) (io.ReadCloser, error)
}
