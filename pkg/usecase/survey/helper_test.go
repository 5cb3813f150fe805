package survey_test

import (
	"context"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hablacanaria/hablabot/pkg/adapter"
	"github.com/hablacanaria/hablabot/pkg/model"
	"github.com/hablacanaria/hablabot/pkg/repository"
	"github.com/hablacanaria/hablabot/pkg/usecase/survey"
	"github.com/m-mizutani/gt"
)

type sentMessage struct {
	ID      adapter.MessageID
	Text    string
	Choices []adapter.Choice
}

type mockChannel struct {
	mu       sync.Mutex
	seq      int
	sent     []*sentMessage
	edits    map[adapter.MessageID]string
	voiceErr error
}

func newMockChannel() *mockChannel {
	return &mockChannel{edits: map[adapter.MessageID]string{}}
}

func (c *mockChannel) add(text string, choices []adapter.Choice) adapter.MessageID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	id := adapter.MessageID(strconv.Itoa(c.seq))
	c.sent = append(c.sent, &sentMessage{ID: id, Text: text, Choices: choices})
	return id
}

func (c *mockChannel) SendText(ctx context.Context, chatID, text string) error {
	c.add(text, nil)
	return nil
}

func (c *mockChannel) SendChoices(ctx context.Context, chatID, text string, choices []adapter.Choice) (adapter.MessageID, error) {
	return c.add(text, choices), nil
}

func (c *mockChannel) EditText(ctx context.Context, chatID string, id adapter.MessageID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edits[id] = text
	return nil
}

func (c *mockChannel) FetchVoice(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if c.voiceErr != nil {
		return nil, c.voiceErr
	}
	return io.NopCloser(strings.NewReader("OggS:" + fileID)), nil
}

// lastPrompt returns the latest message carrying choices
func (c *mockChannel) lastPrompt() *sentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.sent) - 1; i >= 0; i-- {
		if len(c.sent[i].Choices) > 0 {
			return c.sent[i]
		}
	}
	return nil
}

func (c *mockChannel) lastText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		return ""
	}
	return c.sent[len(c.sent)-1].Text
}

func (c *mockChannel) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

type mockAudioStore struct {
	mu    sync.Mutex
	clips map[string]string
}

func (s *mockAudioStore) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clips[key] = string(data)
	return "mem://" + key, nil
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const (
	consentIndividual = "Consentimiento individual"
	consentGroup      = "Consentimiento grupal"
)

// seedBank stores 15 multiple-choice questions for both flows, open groups
// A to I for both flows and the mandatory G-1 group for the group flow
func seedBank(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	gt.NoError(t, repo.PutConsentText(ctx, &model.ConsentText{Version: model.ConsentVersionIndividual, Text: consentIndividual}))
	gt.NoError(t, repo.PutConsentText(ctx, &model.ConsentText{Version: model.ConsentVersionGroup, Text: consentGroup}))

	for _, q := range mcPool(15, model.ApplicabilityBoth) {
		gt.NoError(t, repo.PutQuestion(ctx, q))
	}
	keys := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	for _, q := range openPool(keys, []int{2, 2, 2, 2, 2, 2, 2, 2, 2}, model.ApplicabilityBoth) {
		gt.NoError(t, repo.PutQuestion(ctx, q))
	}
	for _, q := range openPool([]string{survey.MandatoryGroup}, []int{2}, model.ApplicabilityGroup) {
		q.Position = 0
		gt.NoError(t, repo.PutQuestion(ctx, q))
	}
}

type harness struct {
	t       *testing.T
	uc      *survey.UseCase
	channel *mockChannel
	audio   *mockAudioStore
	repo    *repository.Memory
	userID  string
}

func newHarness(t *testing.T, opts ...func(*harnessConfig)) *harness {
	cfg := &harnessConfig{repo: repository.NewMemory(repository.WithRand(newRand(7)))}
	for _, opt := range opts {
		opt(cfg)
	}
	if !cfg.emptyBank {
		seedBank(t, cfg.repo)
	}

	var repo repository.Repository = cfg.repo
	if cfg.wrap != nil {
		repo = cfg.wrap(cfg.repo)
	}

	h := &harness{
		t:       t,
		channel: newMockChannel(),
		audio:   &mockAudioStore{clips: map[string]string{}},
		repo:    cfg.repo,
		userID:  "user-1",
	}
	h.uc = survey.New(repo, h.channel, h.audio,
		survey.WithRand(newRand(42)),
		survey.WithClock(func() time.Time { return testNow }),
	)
	return h
}

type harnessConfig struct {
	repo      *repository.Memory
	wrap      func(*repository.Memory) repository.Repository
	emptyBank bool
}

func withEmptyBank() func(*harnessConfig) {
	return func(c *harnessConfig) { c.emptyBank = true }
}

func withRepository(wrap func(*repository.Memory) repository.Repository) func(*harnessConfig) {
	return func(c *harnessConfig) { c.wrap = wrap }
}

func (h *harness) send(ev adapter.Event) {
	h.t.Helper()
	ev.UserID = h.userID
	ev.ChatID = h.userID
	gt.NoError(h.t, h.uc.HandleEvent(context.Background(), ev))
}

func (h *harness) command(name string) {
	h.t.Helper()
	h.send(adapter.Event{Kind: adapter.EventCommand, Text: name})
}

func (h *harness) text(s string) {
	h.t.Helper()
	h.send(adapter.Event{Kind: adapter.EventText, Text: s})
}

func (h *harness) voice(fileID string) {
	h.t.Helper()
	h.send(adapter.Event{Kind: adapter.EventVoice, Voice: &adapter.Voice{FileID: fileID}})
}

// choose presses a button of the latest prompt
func (h *harness) choose(payload string) {
	h.t.Helper()
	prompt := h.channel.lastPrompt()
	if prompt == nil {
		h.t.Fatalf("no prompt to choose %q from", payload)
	}
	h.chooseOn(prompt.ID, payload)
}

func (h *harness) chooseOn(id adapter.MessageID, payload string) {
	h.t.Helper()
	h.send(adapter.Event{Kind: adapter.EventChoice, Choice: payload, MessageID: id})
}

func (h *harness) session() *survey.Session {
	h.t.Helper()
	s, ok := h.uc.Sessions().Get(h.userID)
	if !ok {
		h.t.Fatal("session not found")
	}
	return s
}

func (h *harness) hasSession() bool {
	_, ok := h.uc.Sessions().Get(h.userID)
	return ok
}

func (h *harness) state() survey.State {
	h.t.Helper()
	return h.session().State
}

func (h *harness) answers() []*model.Answer {
	h.t.Helper()
	answers, err := h.repo.ListAnswers(context.Background(), repository.AnswerFilter{UserID: h.userID})
	gt.NoError(h.t, err)
	return answers
}

func (h *harness) beginIndividual() {
	h.t.Helper()
	h.command("start")
	h.choose("individual")
	h.choose("accept")
}

// fillProfile walks one participant from role selection to residence duration
func (h *harness) fillProfile(name string) {
	h.t.Helper()
	h.choose("student")
	h.text(strings.ToLower(name) + "@example.com")
	h.text(name)
	h.text("1990")
	h.choose("female")
	h.choose("undergraduate")
	h.choose("3")
	h.text("Filología Hispánica")
	h.choose("ull")

	h.choose("spain")
	h.choose("tenerife")
	h.text("La Laguna")

	h.choose("spain")
	h.choose("las_palmas")
	h.text("Telde")

	h.choose("other")
	h.text("Portugal")
	h.text("Lisboa")
	h.text("Lisboa")

	h.choose("over_5")
}

// answerAll answers every remaining question, one take per voice question
func (h *harness) answerAll() {
	h.t.Helper()
	for range 500 {
		switch h.state() {
		case survey.StateMultipleChoice:
			h.choose("0")
		case survey.StateVoice:
			h.voice("take.ogg")
			h.choose("continue")
		case survey.StateFinished:
			return
		default:
			h.t.Fatalf("unexpected state %s", h.state())
		}
	}
	h.t.Fatal("questions did not finish")
}
