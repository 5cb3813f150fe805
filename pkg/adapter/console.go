package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
)

// LineReader is satisfied by *readline.Instance
type LineReader interface {
	Readline() (string, error)
}

// EventHandler consumes one inbound event
type EventHandler func(ctx context.Context, ev Event) error

// Console is a single-user Channel on a terminal. A bare number picks an
// option of the latest unanswered prompt, "@<id>:<n>" picks from a specific
// prompt, "!voice <file>" sends a file as a voice note and "/name" is a command.
type Console struct {
	userID string
	out    io.Writer

	mu      sync.Mutex
	seq     int
	prompts map[MessageID][]Choice
	open    map[MessageID]bool
	latest  MessageID
}

var _ Channel = (*Console)(nil)

func NewConsole(userID string, out io.Writer) *Console {
	return &Console{
		userID:  userID,
		out:     out,
		prompts: make(map[MessageID][]Choice),
		open:    make(map[MessageID]bool),
	}
}

// NewReadline creates a terminal line reader writing to the console's output
func NewReadline(historyFile string) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create readline")
	}
	return rl, nil
}

func (c *Console) nextID() MessageID {
	c.seq++
	return MessageID(strconv.Itoa(c.seq))
}

func (c *Console) SendText(ctx context.Context, chatID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID()
	fmt.Fprintf(c.out, "[#%s] %s\n", id, text)
	return nil
}

func (c *Console) SendChoices(ctx context.Context, chatID, text string, choices []Choice) (MessageID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID()
	c.prompts[id] = choices
	c.open[id] = true
	c.latest = id

	fmt.Fprintf(c.out, "[#%s] %s\n", id, text)
	for i, choice := range choices {
		fmt.Fprintf(c.out, "    %d) %s\n", i+1, choice.Label)
	}
	return id, nil
}

func (c *Console) EditText(ctx context.Context, chatID string, id MessageID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.prompts[id]; !ok {
		return goerr.New("unknown message", goerr.V("message_id", id))
	}
	delete(c.open, id)
	fmt.Fprintf(c.out, "[#%s edited] %s\n", id, text)
	return nil
}

// FetchVoice treats the file ID as a local path
func (c *Console) FetchVoice(ctx context.Context, fileID string) (io.ReadCloser, error) {
	f, err := os.Open(fileID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open voice file", goerr.V("path", fileID))
	}
	return f, nil
}

// Parse converts one input line into an event. ok is false for blank lines.
func (c *Console) Parse(line string) (Event, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Event{}, false
	}

	ev := Event{UserID: c.userID, ChatID: c.userID}
	switch {
	case strings.HasPrefix(line, "/"):
		fields := strings.Fields(strings.TrimPrefix(line, "/"))
		if len(fields) == 0 {
			ev.Kind = EventText
			ev.Text = line
			break
		}
		ev.Kind = EventCommand
		ev.Text = fields[0]

	case strings.HasPrefix(line, "!voice "):
		ev.Kind = EventVoice
		ev.Voice = &Voice{FileID: strings.TrimSpace(strings.TrimPrefix(line, "!voice "))}

	case strings.HasPrefix(line, "!"):
		ev.Kind = EventOther
		ev.Text = line

	default:
		ev.Kind = EventText
		ev.Text = line
		if id, payload, ok := c.pick(line); ok {
			ev.Kind = EventChoice
			ev.Text = ""
			ev.Choice = payload
			ev.MessageID = id
		}
	}
	return ev, true
}

func (c *Console) pick(line string) (MessageID, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, num := c.latest, line
	if strings.HasPrefix(line, "@") {
		ref, n, found := strings.Cut(strings.TrimPrefix(line, "@"), ":")
		if !found {
			return "", "", false
		}
		id, num = MessageID(ref), n
	} else if !c.open[id] {
		return "", "", false
	}

	n, err := strconv.Atoi(num)
	if err != nil {
		return "", "", false
	}
	choices, ok := c.prompts[id]
	if !ok || n < 1 || n > len(choices) {
		return "", "", false
	}
	return id, choices[n-1].Payload, true
}

// Run reads lines until EOF and hands every event to handle
func (c *Console) Run(ctx context.Context, r LineReader, handle EventHandler) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := r.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return goerr.Wrap(err, "failed to read line")
		}

		ev, ok := c.Parse(line)
		if !ok {
			continue
		}
		if err := handle(ctx, ev); err != nil {
			return goerr.Wrap(err, "failed to handle event", goerr.V("kind", ev.Kind))
		}
	}
}
