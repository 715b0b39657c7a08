package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aiact/internal/domain"
	"aiact/internal/prompt"
)

var ErrEmptyMessage = errors.New("message is empty")

// ChatReply is the assistant's answer within a session.
type ChatReply struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

// ChatService is a free-form assistant whose history is persisted per
// session in a ConversationStore.
type ChatService struct {
	generator domain.Generator
	store     domain.ConversationStore
	options   domain.GenerationOptions
	template  *prompt.Template
	sessions  *sessionLocks
	logger    *zap.Logger
}

func NewChatService(gen domain.Generator, store domain.ConversationStore, opts domain.GenerationOptions, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		generator: gen,
		store:     store,
		options:   opts,
		template:  prompt.Chat(),
		sessions:  newSessionLocks(),
		logger:    logger,
	}
}

// Reply answers message in the context of the session's history. An empty
// sessionID starts a new session. Both turns are stored only once the
// backend has answered. Replies on one session are serialized within the
// process; separate processes sharing a store can still interleave turns.
func (s *ChatService) Reply(ctx context.Context, sessionID, message string) (ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return ChatReply{}, ErrEmptyMessage
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	release, err := s.sessions.acquire(ctx, sessionID)
	if err != nil {
		return ChatReply{}, err
	}
	defer release()
	history, err := s.store.History(ctx, sessionID)
	if err != nil {
		return ChatReply{}, fmt.Errorf("load history: %w", err)
	}
	text, err := s.template.Render(map[string]string{
		prompt.FieldHistory: transcript(history),
		prompt.FieldMessage: message,
	})
	if err != nil {
		return ChatReply{}, err
	}
	answer, err := s.generator.Complete(ctx, text, s.options)
	if err != nil {
		s.logger.Error("chat completion failed", zap.String("session_id", sessionID), zap.Error(err))
		return ChatReply{}, fmt.Errorf("chat completion: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if err := s.store.AppendMessage(ctx, sessionID, domain.RoleUser, message); err != nil {
		return ChatReply{}, fmt.Errorf("save message: %w", err)
	}
	if err := s.store.AppendMessage(ctx, sessionID, domain.RoleAssistant, answer); err != nil {
		return ChatReply{}, fmt.Errorf("save message: %w", err)
	}
	return ChatReply{SessionID: sessionID, Response: answer}, nil
}

func (s *ChatService) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	return s.store.History(ctx, sessionID)
}

// DeleteSession reports false when the session did not exist.
func (s *ChatService) DeleteSession(ctx context.Context, sessionID string) (bool, error) {
	return s.store.Delete(ctx, sessionID)
}

func (s *ChatService) Sessions(ctx context.Context) ([]string, error) {
	return s.store.Sessions(ctx)
}

func transcript(history []domain.Message) string {
	var b strings.Builder
	for _, m := range history {
		role := "User"
		if m.Role == domain.RoleAssistant {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
	}
	return b.String()
}
