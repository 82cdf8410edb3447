package messages

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Anshuman71/micros/internal/logger"
	"github.com/Anshuman71/micros/internal/store/redisstore"
)

const (
	keyPrefix = "diet-messages:"

	// Transcripts auto-expire after a year of inactivity.
	retention = 365 * 24 * time.Hour
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// StoredMessage is one flattened chat turn. Tool or structured
// parts are serialized to text before they get here.
type StoredMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// Store persists the ordered message list of a conversation as a
// single JSON value. Every save is a full replace: last writer wins.
type Store struct {
	store *redisstore.Store
	log   *logger.Logger
}

func NewStore(store *redisstore.Store, log *logger.Logger) *Store {
	return &Store{store: store, log: log}
}

// Save overwrites the conversation's messages and refreshes the
// one-year expiry. An empty list is stored as an empty JSON array.
func (s *Store) Save(ctx context.Context, chatID string, msgs []StoredMessage) error {
	if msgs == nil {
		msgs = []StoredMessage{}
	}
	b, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}
	if err := s.store.SetWithTTL(ctx, keyPrefix+chatID, b, retention); err != nil {
		return fmt.Errorf("save messages: %w", err)
	}
	return nil
}

// Load returns the conversation's messages. An absent key or an
// unparseable stored value both yield an empty list; parse failures
// are logged, never surfaced.
func (s *Store) Load(ctx context.Context, chatID string) ([]StoredMessage, error) {
	v, err := s.store.Get(ctx, keyPrefix+chatID)
	if err != nil {
		if redisstore.IsNotFound(err) {
			return []StoredMessage{}, nil
		}
		return nil, fmt.Errorf("load messages: %w", err)
	}

	var msgs []StoredMessage
	if err := json.Unmarshal([]byte(v), &msgs); err != nil {
		s.log.Error("stored messages unparseable, returning empty", "chat_id", chatID, "error", err)
		return []StoredMessage{}, nil
	}
	if msgs == nil {
		msgs = []StoredMessage{}
	}
	return msgs, nil
}

// Clear deletes the conversation. Deleting an absent key is a no-op.
func (s *Store) Clear(ctx context.Context, chatID string) error {
	if err := s.store.Del(ctx, keyPrefix+chatID); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}
	return nil
}
