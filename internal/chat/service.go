// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/driftlabs/driftchat/internal/api"
	"github.com/driftlabs/driftchat/internal/i18n"
	"github.com/driftlabs/driftchat/internal/model"
	"github.com/driftlabs/driftchat/internal/storage"
)

// storageKey is where the whole conversation list lives in the KV store.
const storageKey = "conversations"

// Context window policy. The numbers are a tunable policy, not a protocol:
// a send carries the most recent messages older than the appended pair, a
// regenerate carries the most recent messages strictly before its target.
const (
	sendHistoryLimit = 4
	editHistoryLimit = 6
)

// Transport is the streaming completion client the service drives. Chat
// must deliver cumulative text to onProgress and resolve cancelled requests
// with their partial text rather than an error.
type Transport interface {
	Chat(ctx context.Context, message string, history []api.ChatMessage, onProgress func(string)) (string, error)
	CancelOngoingRequest() bool
}

// =============================================================================
// SERVICE
// =============================================================================

// Service owns the conversation list. Every mutation rebuilds the affected
// conversation from a clone and swaps the pointer, so a snapshot handed to
// a reader stays internally consistent while streaming rewrites continue.
type Service struct {
	mu            sync.Mutex
	conversations []*model.Conversation

	store     storage.Store
	transport Transport
	printer   *i18n.Printer
	log       zerolog.Logger
}

// NewService wires the service to its persistence and transport.
func NewService(store storage.Store, transport Transport, printer *i18n.Printer, log zerolog.Logger) *Service {
	return &Service{
		store:     store,
		transport: transport,
		printer:   printer,
		log:       log.With().Str("component", "chat").Logger(),
	}
}

// Init loads the persisted conversation list. A missing key is a fresh
// profile; a corrupt or unreadable store is logged and the session starts
// empty rather than failing to launch.
func (s *Service) Init(ctx context.Context) {
	var stored []*model.Conversation
	found, err := s.store.GetItem(ctx, storageKey, &stored)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load conversations")
		return
	}
	if !found {
		return
	}
	s.mu.Lock()
	s.conversations = stored
	s.mu.Unlock()
	s.log.Debug().Int("count", len(stored)).Msg("conversations loaded")
}

// Conversations returns a snapshot of the list, most recent first. The
// returned slice is the caller's; the pointed-to conversations are immutable
// once handed out.
func (s *Service) Conversations() []*model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// Conversation returns the current snapshot of one conversation.
func (s *Service) Conversation(id string) (*model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.conversations[i], true
	}
	return nil, false
}

// CreateConversation prepends a new empty conversation and persists in the
// background; creation itself never blocks on storage.
func (s *Service) CreateConversation(title string) *model.Conversation {
	conv := model.NewConversation(title)

	s.mu.Lock()
	s.conversations = append([]*model.Conversation{conv}, s.conversations...)
	s.mu.Unlock()

	go func() {
		if err := s.persist(context.Background()); err != nil {
			s.log.Error().Err(err).Msg("failed to save new conversation")
		}
	}()

	return conv
}

// DeleteConversation removes a conversation. Deleting an unknown ID is a
// no-op.
func (s *Service) DeleteConversation(ctx context.Context, id string) error {
	s.mu.Lock()
	kept := s.conversations[:0:0]
	for _, c := range s.conversations {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.conversations = kept
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		return &ChatError{Op: "delete conversation", Msg: "Failed to delete conversation"}
	}
	return nil
}

// UpdateConversationTitle renames a conversation.
func (s *Service) UpdateConversationTitle(ctx context.Context, id, title string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return errNotFound("update title")
	}
	next := s.conversations[i].Clone()
	next.Title = title
	next.Touch()
	s.conversations[i] = next
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		return &ChatError{Op: "update title", Msg: "Failed to update conversation title"}
	}
	return nil
}

// StopGeneration aborts the in-flight exchange, if any. The interrupted
// SendMessage or UpdateMessageResponse still finalizes with its partial text.
func (s *Service) StopGeneration() bool {
	return s.transport.CancelOngoingRequest()
}

// =============================================================================
// SEND
// =============================================================================

// SendMessage runs one full exchange: it appends the user message and a
// pending assistant message, streams the reply into the assistant message,
// and finalizes it with the response text or an apology. It never fails —
// any transport error becomes transcript content, and an unknown
// conversation ID yields a synthetic assistant message saying so.
//
// onProgress, when non-nil, receives the cumulative assistant text after
// every fragment, after the store already reflects it.
func (s *Service) SendMessage(ctx context.Context, conversationID, content string, onProgress func(string)) *model.Message {
	content = strings.TrimSpace(content)

	s.mu.Lock()
	i := s.indexOf(conversationID)
	if i < 0 {
		s.mu.Unlock()
		s.log.Warn().Str("conversation", conversationID).Msg("send to unknown conversation")
		msg := model.NewMessage(model.RoleAssistant, s.printer.ConversationNotFound())
		return &msg
	}

	userMsg := model.NewUserMessage(content)
	aiMsg := model.NewPendingAssistant()

	next := s.conversations[i].Clone()
	next.Append(userMsg)
	next.Append(aiMsg)
	s.conversations[i] = next

	// Context is the most recent messages older than the pair just added.
	history := historyWindow(next.Messages[:len(next.Messages)-2], sendHistoryLimit)
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to save outgoing message")
	}

	return s.stream(ctx, conversationID, aiMsg, content, history, onProgress)
}

// UpdateMessageResponse regenerates an existing assistant message in place,
// keeping its ID. The request context is the messages strictly before the
// target. Used after the preceding user message was edited.
func (s *Service) UpdateMessageResponse(ctx context.Context, conversationID, userContent, aiMessageID string, onProgress func(string)) (*model.Message, error) {
	s.mu.Lock()
	i := s.indexOf(conversationID)
	if i < 0 {
		s.mu.Unlock()
		return nil, errNotFound("update response")
	}
	conv := s.conversations[i]

	idx := conv.IndexOf(aiMessageID)
	if idx < 0 || conv.Messages[idx].Role != model.RoleAssistant {
		s.mu.Unlock()
		return nil, &ChatError{Op: "update response", Msg: "AI message not found"}
	}

	// Blank the target so the UI shows it as pending again.
	next := conv.Clone()
	next.Messages[idx].Content = ""
	next.Touch()
	s.conversations[i] = next
	aiMsg := next.Messages[idx]

	history := historyWindow(next.Messages[:idx], editHistoryLimit)
	s.mu.Unlock()

	return s.stream(ctx, conversationID, aiMsg, userContent, history, onProgress), nil
}

// stream drives the transport call and finalizes the assistant message with
// the reply or an apology. Transport failures end up in the transcript, not
// in an error return.
func (s *Service) stream(ctx context.Context, conversationID string, aiMsg model.Message, content string, history []api.ChatMessage, onProgress func(string)) *model.Message {
	reply, err := s.transport.Chat(ctx, content, history, func(cumulative string) {
		s.setMessageContent(conversationID, aiMsg.ID, cumulative)
		if onProgress != nil {
			onProgress(cumulative)
		}
	})

	final := reply
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("conversation", conversationID).Msg("generation failed")
		final = s.apologyFor(err)
	case reply == api.StoppedText:
		// Stopped before any content arrived; localize the sentinel.
		final = s.printer.Stopped()
	}

	s.setMessageContent(conversationID, aiMsg.ID, final)
	// A user stop cancels ctx while the transcript still needs its final
	// write; the persist must outlive the cancellation.
	if perr := s.persist(context.WithoutCancel(ctx)); perr != nil {
		s.log.Error().Err(perr).Msg("failed to save assistant reply")
	}

	aiMsg.Content = final
	return &aiMsg
}

// UpdateMessageContent rewrites the content of an existing message, the
// first half of the edit-and-regenerate flow.
func (s *Service) UpdateMessageContent(ctx context.Context, conversationID, messageID, content string) error {
	if !s.setMessageContent(conversationID, messageID, content) {
		return errMessageNotFound("update content")
	}
	if err := s.persist(ctx); err != nil {
		return &ChatError{Op: "update content", Msg: "Failed to save conversation data"}
	}
	return nil
}

// =============================================================================
// INTERNALS
// =============================================================================

// indexOf returns the position of a conversation ID. Caller holds mu.
func (s *Service) indexOf(id string) int {
	for i, c := range s.conversations {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// setMessageContent swaps in a rebuilt conversation with one message's
// content replaced. Reports whether the message existed.
func (s *Service) setMessageContent(conversationID, messageID, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(conversationID)
	if i < 0 {
		return false
	}
	idx := s.conversations[i].IndexOf(messageID)
	if idx < 0 {
		return false
	}

	next := s.conversations[i].Clone()
	next.Messages[idx].Content = content
	next.Touch()
	s.conversations[i] = next
	return true
}

// persist writes the whole conversation list under one key.
func (s *Service) persist(ctx context.Context) error {
	s.mu.Lock()
	snapshot := make([]*model.Conversation, len(s.conversations))
	copy(snapshot, s.conversations)
	s.mu.Unlock()

	return s.store.SetItem(ctx, storageKey, snapshot)
}

// apologyFor maps a transport failure to transcript text. Endpoint
// rejections carry their message; everything else gets the generic apology.
func (s *Service) apologyFor(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return s.printer.RequestApology(apiErr.Message)
	}
	var cfgErr *api.ConfigError
	if errors.As(err, &cfgErr) {
		return s.printer.RequestApology(cfgErr.Error())
	}
	return s.printer.GenericApology()
}

// historyWindow maps the tail of a message list to wire pairs.
func historyWindow(msgs []model.Message, limit int) []api.ChatMessage {
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]api.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, api.ChatMessage{Role: m.Role.String(), Content: m.Content})
	}
	return out
}
