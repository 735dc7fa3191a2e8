// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sort"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/driftlabs/driftchat/internal/api"
	"github.com/driftlabs/driftchat/internal/i18n"
	"github.com/driftlabs/driftchat/internal/model"
	"github.com/driftlabs/driftchat/internal/ui/components"
	"github.com/driftlabs/driftchat/internal/ui/styles"
)

// Service is the conversation engine the view drives.
type Service interface {
	Conversations() []*model.Conversation
	Conversation(id string) (*model.Conversation, bool)
	CreateConversation(title string) *model.Conversation
	SendMessage(ctx context.Context, conversationID, content string, onProgress func(string)) *model.Message
	UpdateMessageResponse(ctx context.Context, conversationID, userContent, aiMessageID string, onProgress func(string)) (*model.Message, error)
	UpdateMessageContent(ctx context.Context, conversationID, messageID, content string) error
	DeleteConversation(ctx context.Context, id string) error
	UpdateConversationTitle(ctx context.Context, id, title string) error
	StopGeneration() bool
}

// ModelSwitcher selects the completion model for subsequent requests.
// Implemented by the transport client.
type ModelSwitcher interface {
	SetModel(model string)
	Model() string
	ListModels(ctx context.Context) ([]api.ModelInfo, error)
}

// sidebarWidth is the fixed width of the conversation list column.
const sidebarWidth = 24

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	service   Service
	printer   *i18n.Printer
	theme     *styles.Theme
	keys      KeyMap
	switcher  ModelSwitcher
	models    []string // selectable model IDs, catalog order
	modelName string

	// sender delivers messages from the streaming goroutine into the
	// program loop. Wired via SetSender once the program exists; shared
	// across Bubble Tea's model copies, like cancelMgr.
	sender *msgSender

	// cancelMgr is shared across Bubble Tea's model copies.
	cancelMgr *cancelManager

	input    textarea.Model
	viewport viewport.Model
	spin     spinner.Model
	markdown *components.MarkdownRenderer

	activeConvID string
	isSending    bool

	// editing holds the message ID being edited, empty when not editing.
	editing string

	// renaming routes the next submit to a title update.
	renaming bool

	// showCode swaps the transcript for the latest reply's code blocks.
	showCode bool

	width  int
	height int
	ready  bool

	statusErr string
}

// New creates the chat view over an initialized service. models is the
// configured catalog; it is replaced by the endpoint's own list when that
// can be fetched.
func New(service Service, printer *i18n.Printer, theme *styles.Theme, switcher ModelSwitcher, models []string) Model {
	input := textarea.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 0
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = theme.Spinner

	modelName := switcher.Model()
	if modelName == "" && len(models) > 0 {
		modelName = models[0]
	}

	m := Model{
		service:   service,
		printer:   printer,
		theme:     theme,
		keys:      DefaultKeyMap(),
		switcher:  switcher,
		models:    models,
		modelName: modelName,
		cancelMgr: newCancelManager(),
		input:     input,
		spin:      spin,
		markdown:  components.NewMarkdownRenderer(72, theme.Name == "dark"),
		sender:    &msgSender{},
	}

	// Land in the most recent conversation, or a fresh one.
	convs := m.sidebarConversations()
	if len(convs) > 0 {
		m.activeConvID = convs[0].ID
	} else {
		m.activeConvID = service.CreateConversation("").ID
	}
	return m
}

// SetSender wires the program's Send function for streaming callbacks. Safe
// to call after tea.NewProgram has copied the model; the sender is shared.
func (m Model) SetSender(send func(tea.Msg)) {
	m.sender.set(send)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spin.Tick, m.fetchModelsCmd())
}

// activeConversation returns the current conversation snapshot, nil when the
// active ID dangles (e.g. just deleted).
func (m *Model) activeConversation() *model.Conversation {
	conv, ok := m.service.Conversation(m.activeConvID)
	if !ok {
		return nil
	}
	return conv
}

// sidebarConversations returns the sidebar ordering: most recently updated
// first, creation order breaking ties. Sorting the snapshot is safe; the
// slice belongs to the caller.
func (m Model) sidebarConversations() []*model.Conversation {
	convs := m.service.Conversations()
	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].UpdatedAt > convs[j].UpdatedAt
	})
	return convs
}

// IsSending reports whether an exchange is in flight. The input is gated on
// this: a submit while true is dropped.
func (m Model) IsSending() bool {
	return m.isSending
}
