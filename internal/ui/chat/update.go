// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/driftlabs/driftchat/internal/model"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.refreshTranscript()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case streamChunkMsg:
		if msg.ConversationID == m.activeConvID {
			m.refreshTranscript()
			m.viewport.GotoBottom()
		}

	case streamDoneMsg:
		m.isSending = false
		m.cancelMgr.cancel()
		if msg.ConversationID == m.activeConvID {
			m.refreshTranscript()
			m.viewport.GotoBottom()
		}

	case regenFailedMsg:
		m.isSending = false
		m.cancelMgr.cancel()
		m.statusErr = msg.Err.Error()

	case modelsLoadedMsg:
		if len(msg.IDs) > 0 {
			m.models = msg.IDs
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey routes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys

	switch {
	case key.Matches(msg, keys.Quit):
		m.cancelMgr.cancel()
		return m, tea.Quit

	case key.Matches(msg, keys.Stop):
		if m.isSending {
			// The cancelled exchange still finalizes with its partial text;
			// streamDoneMsg arrives as usual.
			m.cancelMgr.cancel()
			m.service.StopGeneration()
			return m, nil
		}
		if m.editing != "" || m.renaming {
			m.editing = ""
			m.renaming = false
			m.input.Reset()
		}
		if m.showCode {
			m.showCode = false
			m.refreshTranscript()
		}
		return m, nil

	case key.Matches(msg, keys.Submit):
		return m.handleSubmit()

	case key.Matches(msg, keys.NewChat):
		if m.isSending {
			return m, nil
		}
		conv := m.service.CreateConversation("")
		m.activeConvID = conv.ID
		m.editing = ""
		m.input.Reset()
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, keys.Delete):
		if m.isSending {
			return m, nil
		}
		return m.handleDelete()

	case key.Matches(msg, keys.PrevConv):
		m.switchConversation(-1)
		return m, nil

	case key.Matches(msg, keys.NextConv):
		m.switchConversation(1)
		return m, nil

	case key.Matches(msg, keys.Rename):
		m.startRenaming()
		return m, nil

	case key.Matches(msg, keys.EditLast):
		m.startEditingLast()
		return m, nil

	case key.Matches(msg, keys.Model):
		m.cycleModel()
		return m, nil

	case key.Matches(msg, keys.CodeView):
		m.showCode = !m.showCode
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, keys.PageUp), key.Matches(msg, keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	// Everything else belongs to the input.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit starts an exchange, or a regeneration when editing, or saves
// a new title when renaming.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	if m.isSending {
		// One exchange at a time; drop the submit.
		return m, nil
	}
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}

	if m.renaming {
		m.renaming = false
		m.input.Reset()
		if err := m.service.UpdateConversationTitle(context.Background(), m.activeConvID, content); err != nil {
			m.statusErr = err.Error()
		}
		return m, nil
	}

	convID := m.activeConvID
	m.input.Reset()
	m.statusErr = ""
	m.isSending = true

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMgr.set(cancel)

	if m.editing != "" {
		editID := m.editing
		m.editing = ""
		cmd := m.regenerateCmd(ctx, convID, editID, content)
		m.refreshTranscript()
		return m, cmd
	}

	cmd := m.sendCmd(ctx, convID, content)
	m.refreshTranscript()
	return m, cmd
}

// sendCmd runs SendMessage in a goroutine, forwarding progress into the
// program loop.
func (m Model) sendCmd(ctx context.Context, convID, content string) tea.Cmd {
	service, sender := m.service, m.sender
	return func() tea.Msg {
		reply := service.SendMessage(ctx, convID, content, func(cumulative string) {
			sender.send(streamChunkMsg{ConversationID: convID, Content: cumulative})
		})
		return streamDoneMsg{ConversationID: convID, Message: reply}
	}
}

// regenerateCmd rewrites the edited user message, then regenerates the
// assistant reply that follows it. When no assistant reply follows, the
// edit alone is saved and no request goes out.
func (m Model) regenerateCmd(ctx context.Context, convID, userMessageID, content string) tea.Cmd {
	service, sender := m.service, m.sender
	return func() tea.Msg {
		if err := service.UpdateMessageContent(ctx, convID, userMessageID, content); err != nil {
			return regenFailedMsg{Err: err}
		}

		conv, ok := service.Conversation(convID)
		if !ok {
			return regenFailedMsg{Err: errConversationGone}
		}
		idx := conv.IndexOf(userMessageID)
		if idx < 0 || idx+1 >= len(conv.Messages) || conv.Messages[idx+1].Role != model.RoleAssistant {
			// Nothing to regenerate; the edit stands on its own.
			return streamDoneMsg{ConversationID: convID}
		}
		aiID := conv.Messages[idx+1].ID

		reply, err := service.UpdateMessageResponse(ctx, convID, content, aiID, func(cumulative string) {
			sender.send(streamChunkMsg{ConversationID: convID, Content: cumulative})
		})
		if err != nil {
			return regenFailedMsg{Err: err}
		}
		return streamDoneMsg{ConversationID: convID, Message: reply}
	}
}

// handleDelete removes the active conversation and lands on a neighbor.
func (m Model) handleDelete() (tea.Model, tea.Cmd) {
	service, convID := m.service, m.activeConvID
	_ = service.DeleteConversation(context.Background(), convID)

	convs := m.sidebarConversations()
	if len(convs) > 0 {
		m.activeConvID = convs[0].ID
	} else {
		m.activeConvID = service.CreateConversation("").ID
	}
	m.refreshTranscript()
	return m, nil
}

// switchConversation moves the selection by delta within the sidebar order.
func (m *Model) switchConversation(delta int) {
	if m.isSending {
		return
	}
	convs := m.sidebarConversations()
	if len(convs) == 0 {
		return
	}
	cur := 0
	for i, c := range convs {
		if c.ID == m.activeConvID {
			cur = i
			break
		}
	}
	next := cur + delta
	if next < 0 {
		next = len(convs) - 1
	} else if next >= len(convs) {
		next = 0
	}
	m.activeConvID = convs[next].ID
	m.editing = ""
	m.refreshTranscript()
	m.viewport.GotoBottom()
}

// startRenaming loads the active conversation's title into the input.
func (m *Model) startRenaming() {
	if m.isSending {
		return
	}
	conv := m.activeConversation()
	if conv == nil {
		return
	}
	m.editing = ""
	m.renaming = true
	m.input.SetValue(conv.Title)
	m.input.CursorEnd()
}

// cycleModel selects the next model in the catalog and switches the
// transport to it.
func (m *Model) cycleModel() {
	if m.isSending || len(m.models) == 0 {
		return
	}
	cur := 0
	for i, id := range m.models {
		if id == m.modelName {
			cur = i
			break
		}
	}
	next := m.models[(cur+1)%len(m.models)]
	m.modelName = next
	m.switcher.SetModel(next)
}

// fetchModelsCmd asks the endpoint for its model list. Failure keeps the
// configured catalog.
func (m Model) fetchModelsCmd() tea.Cmd {
	switcher := m.switcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		infos, err := switcher.ListModels(ctx)
		if err != nil || len(infos) == 0 {
			return nil
		}
		ids := make([]string, 0, len(infos))
		for _, info := range infos {
			ids = append(ids, info.ID)
		}
		return modelsLoadedMsg{IDs: ids}
	}
}

// startEditingLast loads the most recent user message into the input.
func (m *Model) startEditingLast() {
	if m.isSending {
		return
	}
	conv := m.activeConversation()
	if conv == nil {
		return
	}
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		if conv.Messages[i].Role == model.RoleUser {
			m.editing = conv.Messages[i].ID
			m.input.SetValue(conv.Messages[i].Content)
			m.input.CursorEnd()
			return
		}
	}
}

// layout sizes the panes after a resize.
func (m *Model) layout() {
	inputHeight := m.input.Height() + 2 // border
	statusHeight := 1

	vpWidth := m.width - sidebarWidth - 2
	vpHeight := m.height - inputHeight - statusHeight
	if vpWidth < 20 {
		vpWidth = 20
	}
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.input.SetWidth(m.width - sidebarWidth - 4)
	m.markdown.SetWidth(vpWidth - 2)
}
