// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/driftlabs/driftchat/internal/model"
	"github.com/driftlabs/driftchat/internal/ui/components"
	"github.com/driftlabs/driftchat/internal/util"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	sidebar := m.renderSidebar()
	main := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewport.View(),
		m.renderInput(),
		m.renderStatus(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m Model) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString(m.theme.SidebarTitle.Render("Conversations"))
	sb.WriteString("\n\n")

	convs := m.sidebarConversations()
	if len(convs) == 0 {
		sb.WriteString(m.theme.ConversationItem.Render(m.printer.NoConversations()))
	}
	for _, conv := range convs {
		// Pad so the selection background spans the whole column.
		title := util.PadWidth(util.TruncateWidth(conv.Title, sidebarWidth-3), sidebarWidth-3)
		if conv.ID == m.activeConvID {
			sb.WriteString(m.theme.ConversationSel.Render("> " + title))
		} else {
			sb.WriteString(m.theme.ConversationItem.Render("  " + title))
		}
		sb.WriteString("\n")
	}

	return m.theme.Sidebar.
		Width(sidebarWidth).
		Height(m.height - 1).
		Render(sb.String())
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshTranscript re-renders the active conversation into the viewport.
func (m *Model) refreshTranscript() {
	conv := m.activeConversation()
	if conv == nil {
		m.viewport.SetContent("")
		return
	}
	if m.showCode {
		m.viewport.SetContent(m.renderCodeView(conv))
		return
	}

	var sb strings.Builder
	for i, msg := range conv.Messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderMessage(msg))
	}
	m.viewport.SetContent(sb.String())
}

// renderCodeView shows the fenced code blocks of the latest finished
// assistant reply on their own, highlighted for copying out.
func (m *Model) renderCodeView(conv *model.Conversation) string {
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		msg := conv.Messages[i]
		if msg.Role != model.RoleAssistant || msg.IsPending() {
			continue
		}
		blocks := components.ExtractCodeBlocks(msg.Content)
		if len(blocks) == 0 {
			break
		}
		var sb strings.Builder
		for j, block := range blocks {
			if j > 0 {
				sb.WriteString("\n")
			}
			block.MaxWidth = m.viewport.Width
			sb.WriteString(block.Render())
			sb.WriteString("\n")
		}
		return sb.String()
	}
	return m.theme.PendingText.Render("No code blocks in the latest reply.")
}

func (m *Model) renderMessage(msg model.Message) string {
	var sb strings.Builder

	switch msg.Role {
	case model.RoleUser:
		sb.WriteString(m.theme.UserLabel.Render(msg.Role.DisplayName()))
		sb.WriteString("\n")
		sb.WriteString(m.theme.MessageBody.Render(msg.Content))
	case model.RoleAssistant:
		sb.WriteString(m.theme.AssistantLabel.Render(msg.Role.DisplayName()))
		sb.WriteString("\n")
		if msg.IsPending() {
			sb.WriteString(m.theme.PendingText.Render(m.spin.View() + " " + m.printer.Thinking()))
		} else {
			sb.WriteString(m.markdown.Render(msg.Content))
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// =============================================================================
// INPUT AND STATUS
// =============================================================================

func (m Model) renderInput() string {
	prompt := "> "
	switch {
	case m.renaming:
		prompt = "rename> "
	case m.editing != "":
		prompt = "edit> "
	}
	return m.theme.InputContainer.Render(
		m.theme.InputPrompt.Render(prompt) + m.input.View(),
	)
}

func (m Model) renderStatus() string {
	var parts []string

	parts = append(parts, m.theme.StatusModel.Render(m.modelName))

	if m.isSending {
		parts = append(parts, m.theme.StatusBar.Render(m.spin.View()+" streaming"),
			m.shortcut("Esc", "stop"))
	} else if m.editing != "" {
		parts = append(parts, m.shortcut("Enter", "resend"), m.shortcut("Esc", "cancel"))
	} else if m.renaming {
		parts = append(parts, m.shortcut("Enter", "rename"), m.shortcut("Esc", "cancel"))
	} else {
		parts = append(parts,
			m.shortcut("Enter", "send"),
			m.shortcut("C-n", "new"),
			m.shortcut("C-e", "edit"),
			m.shortcut("C-t", "model"),
			m.shortcut("C-b", "code"),
			m.shortcut("C-p/C-o", "switch"),
			m.shortcut("C-c", "quit"),
		)
	}

	if m.statusErr != "" {
		parts = append(parts, m.theme.ErrorText.Render(m.statusErr))
	}

	return m.theme.StatusBar.Render(strings.Join(parts, "  "))
}

func (m Model) shortcut(k, desc string) string {
	return m.theme.ShortcutKey.Render(k) + m.theme.ShortcutDesc.Render(" "+desc)
}
