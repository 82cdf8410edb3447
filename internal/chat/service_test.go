package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/Anshuman71/micros/internal/ai"
	"github.com/Anshuman71/micros/internal/logger"
	"github.com/Anshuman71/micros/internal/messages"
	"github.com/Anshuman71/micros/internal/nutrition"
	"github.com/Anshuman71/micros/internal/store/redisstore"
)

type fakeStreamProvider struct {
	chunks []string
	err    error
	got    []ai.Message
}

func (f *fakeStreamProvider) Chat(ctx context.Context, msgs []ai.Message) (string, error) {
	_ = ctx
	f.got = append([]ai.Message(nil), msgs...)
	var out string
	for _, c := range f.chunks {
		out += c
	}
	return out, f.err
}

func (f *fakeStreamProvider) StreamChat(ctx context.Context, msgs []ai.Message) (<-chan string, <-chan error) {
	_ = ctx
	f.got = append([]ai.Message(nil), msgs...)

	ch := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(errs)
		defer close(ch)
		for _, c := range f.chunks {
			ch <- c
		}
		if f.err != nil {
			errs <- f.err
		}
	}()
	return ch, errs
}

func newTestService(t *testing.T, provider ai.Provider) (*Service, *messages.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rs, err := redisstore.New(mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("open redis store: %v", err)
	}
	t.Cleanup(func() { rs.Close() })

	msgStore := messages.NewStore(rs, logger.NewNop())
	return NewService(provider, msgStore, logger.NewNop()), msgStore
}

func collect(t *testing.T, chunks <-chan string, errs <-chan error) (string, error) {
	t.Helper()
	var out string
	for c := range chunks {
		out += c
	}
	if err, ok := <-errs; ok {
		return out, err
	}
	return out, nil
}

func waitForTranscript(t *testing.T, store *messages.Store, chatID string, want int) []messages.StoredMessage {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		msgs, err := store.Load(context.Background(), chatID)
		if err != nil {
			t.Fatalf("load transcript: %v", err)
		}
		if len(msgs) == want {
			return msgs
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("transcript for %q never reached %d messages", chatID, want)
	return nil
}

func TestStreamReply_ForwardsChunksAndPersists(t *testing.T) {
	prov := &fakeStreamProvider{chunks: []string{"Eat ", "more ", "spinach."}}
	svc, store := newTestService(t, prov)

	history := []messages.StoredMessage{
		{ID: "u1", Role: messages.RoleUser, Content: "what should I eat?", Timestamp: 1700000000000},
	}
	prefs := nutrition.UserPreferences{Age: "14 to 50", Gender: "Female", Hints: nutrition.RequestHints{City: "Pune", Country: "India"}}

	chunks, errs := svc.StreamReply(context.Background(), "chat-1", nutrition.PromptInitial, prefs, history)
	reply, err := collect(t, chunks, errs)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if reply != "Eat more spinach." {
		t.Fatalf("reply = %q", reply)
	}

	msgs := waitForTranscript(t, store, "chat-1", 2)
	if msgs[0].ID != "u1" || msgs[0].Role != messages.RoleUser {
		t.Fatalf("unexpected first message: %+v", msgs[0])
	}
	last := msgs[1]
	if last.Role != messages.RoleAssistant || last.Content != "Eat more spinach." {
		t.Fatalf("unexpected assistant message: %+v", last)
	}
	if last.ID == "" || last.Timestamp == 0 {
		t.Fatalf("assistant message missing id or timestamp: %+v", last)
	}
}

func TestStreamReply_SystemPromptLeadsProviderInput(t *testing.T) {
	prov := &fakeStreamProvider{chunks: []string{"ok"}}
	svc, store := newTestService(t, prov)

	prefs := nutrition.UserPreferences{Age: "14 to 50", Gender: "Male", Hints: nutrition.RequestHints{City: "Pune", Country: "India"}}
	history := []messages.StoredMessage{
		{ID: "u1", Role: messages.RoleUser, Content: "hello"},
		{ID: "x1", Role: "system", Content: "should be dropped"},
	}

	chunks, errs := svc.StreamReply(context.Background(), "chat-2", nutrition.PromptWeeklyMealPlan, prefs, history)
	if _, err := collect(t, chunks, errs); err != nil {
		t.Fatalf("stream: %v", err)
	}

	if len(prov.got) != 2 {
		t.Fatalf("provider received %d messages, want system + user", len(prov.got))
	}
	if prov.got[0].Role != "system" {
		t.Fatalf("first provider message role = %q, want system", prov.got[0].Role)
	}
	if prov.got[0].Content != nutrition.SystemPrompt(nutrition.PromptWeeklyMealPlan, prefs) {
		t.Fatalf("system prompt does not match composer output")
	}
	if prov.got[1].Content != "hello" {
		t.Fatalf("user message not forwarded, got %+v", prov.got[1])
	}

	// Persisted transcript also drops the non-chat role.
	msgs := waitForTranscript(t, store, "chat-2", 2)
	if msgs[0].Content != "hello" || msgs[1].Role != messages.RoleAssistant {
		t.Fatalf("unexpected transcript: %+v", msgs)
	}
}

func TestStreamReply_ProviderErrorSkipsPersistence(t *testing.T) {
	prov := &fakeStreamProvider{err: errors.New("model unavailable")}
	svc, store := newTestService(t, prov)

	chunks, errs := svc.StreamReply(context.Background(), "chat-3", nutrition.PromptFollowUp, nutrition.UserPreferences{}, nil)
	_, err := collect(t, chunks, errs)
	if err == nil {
		t.Fatalf("expected provider error")
	}

	// Give any stray persistence a moment, then confirm nothing was written.
	time.Sleep(50 * time.Millisecond)
	msgs, loadErr := store.Load(context.Background(), "chat-3")
	if loadErr != nil {
		t.Fatalf("load: %v", loadErr)
	}
	if len(msgs) != 0 {
		t.Fatalf("transcript should not be persisted on failure, got %+v", msgs)
	}
}

func TestStreamReply_NonStreamingProvider(t *testing.T) {
	svc, _ := newTestService(t, nonStreamingProvider{})

	chunks, errs := svc.StreamReply(context.Background(), "chat-4", nutrition.PromptFollowUp, nutrition.UserPreferences{}, nil)
	if _, err := collect(t, chunks, errs); err == nil {
		t.Fatalf("expected error for provider without streaming support")
	}
}

type nonStreamingProvider struct{}

func (nonStreamingProvider) Chat(ctx context.Context, msgs []ai.Message) (string, error) {
	return "", nil
}
