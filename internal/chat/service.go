package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Anshuman71/micros/internal/ai"
	"github.com/Anshuman71/micros/internal/common"
	"github.com/Anshuman71/micros/internal/logger"
	"github.com/Anshuman71/micros/internal/messages"
	"github.com/Anshuman71/micros/internal/nutrition"
)

const persistTimeout = 10 * time.Second

// Service runs one diet-chat turn: compose the system prompt, stream
// the model reply, then persist the full transcript best-effort.
type Service struct {
	provider ai.Provider
	msgs     *messages.Store
	log      *logger.Logger
}

func NewService(provider ai.Provider, msgs *messages.Store, log *logger.Logger) *Service {
	return &Service{provider: provider, msgs: msgs, log: log}
}

// StreamReply streams assistant content chunks for the given turn.
// Both channels close when streaming ends. After a clean stream the
// transcript (history plus the new assistant turn) is written to the
// message store from a detached goroutine; a persistence failure is
// logged and never surfaced, since the reply has already been sent.
func (s *Service) StreamReply(ctx context.Context, chatID string, pt nutrition.PromptType, prefs nutrition.UserPreferences, history []messages.StoredMessage) (<-chan string, <-chan error) {
	outChunks := make(chan string, 16)
	outErrs := make(chan error, 1)

	go func() {
		defer close(outChunks)
		defer close(outErrs)

		sp, ok := s.provider.(ai.StreamProvider)
		if !ok {
			outErrs <- errors.New("provider does not support streaming")
			return
		}

		providerMsgs := make([]ai.Message, 0, len(history)+1)
		providerMsgs = append(providerMsgs, ai.Message{
			Role:    "system",
			Content: nutrition.SystemPrompt(pt, prefs),
		})
		for _, m := range history {
			if m.Role != messages.RoleUser && m.Role != messages.RoleAssistant {
				continue
			}
			providerMsgs = append(providerMsgs, ai.Message{Role: m.Role, Content: m.Content})
		}

		pChunks, pErrs := sp.StreamChat(ctx, providerMsgs)

		var b strings.Builder
		for c := range pChunks {
			b.WriteString(c)
			outChunks <- c
		}

		select {
		case err := <-pErrs:
			if err != nil {
				outErrs <- err
				return
			}
		default:
		}

		go s.persistTranscript(chatID, history, b.String())
	}()

	return outChunks, outErrs
}

// persistTranscript replaces the stored conversation with the
// completed turn. Runs detached from the request: the caller's
// context may already be gone, so a fresh bounded one is used.
func (s *Service) persistTranscript(chatID string, history []messages.StoredMessage, reply string) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	now := time.Now().UnixMilli()

	transcript := make([]messages.StoredMessage, 0, len(history)+1)
	for _, m := range history {
		if m.Role != messages.RoleUser && m.Role != messages.RoleAssistant {
			continue
		}
		if m.ID == "" {
			if id, err := common.NewULID(); err == nil {
				m.ID = id
			}
		}
		if m.Timestamp == 0 {
			m.Timestamp = now
		}
		transcript = append(transcript, m)
	}

	assistantID, err := common.NewULID()
	if err != nil {
		s.log.Error("mint assistant message id failed", "chat_id", chatID, "error", err)
		return
	}
	transcript = append(transcript, messages.StoredMessage{
		ID:        assistantID,
		Role:      messages.RoleAssistant,
		Content:   reply,
		Timestamp: now,
	})

	if err := s.msgs.Save(ctx, chatID, transcript); err != nil {
		s.log.Error("persist transcript failed", "chat_id", chatID, "error", err)
		return
	}
	s.log.Debug("transcript persisted", "chat_id", chatID, "messages", len(transcript))
}
