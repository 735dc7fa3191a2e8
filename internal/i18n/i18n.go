// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package i18n provides the user-visible string catalogs for driftchat.
//
// Chinese and English are supported. Strings that end up in the transcript
// (the apology messages written into a failed assistant reply) live here so
// the chat service never hardcodes display text.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The key doubles as the English text for the zero-argument
// strings, matching the x/text catalog convention.
const (
	keyRequestApology  = "Sorry, the request failed: %s"
	keyGenericApology  = "Sorry, something went wrong. Please try again later."
	keyConvNotFound    = "Error: Conversation not found"
	keyStopped         = "Generation stopped."
	keyLoginStub       = "Login is still in development."
	keyThinking        = "Thinking..."
	keyNewChat         = "New Chat"
	keyNoConversations = "No conversations yet"
)

func init() {
	message.SetString(language.Chinese, keyRequestApology, "抱歉，请求出现错误：%s")
	message.SetString(language.Chinese, keyGenericApology, "抱歉，服务出现异常，请稍后再试。")
	message.SetString(language.Chinese, keyConvNotFound, "错误：未找到对话")
	message.SetString(language.Chinese, keyStopped, "已停止生成。")
	message.SetString(language.Chinese, keyLoginStub, "登录功能正在开发中。")
	message.SetString(language.Chinese, keyThinking, "思考中...")
	message.SetString(language.Chinese, keyNewChat, "新建对话")
	message.SetString(language.Chinese, keyNoConversations, "暂无对话")

	message.SetString(language.English, keyRequestApology, "Sorry, the request failed: %s")
	message.SetString(language.English, keyGenericApology, "Sorry, something went wrong. Please try again later.")
	message.SetString(language.English, keyConvNotFound, "Error: Conversation not found")
	message.SetString(language.English, keyStopped, "Generation stopped.")
	message.SetString(language.English, keyLoginStub, "Login is still in development.")
	message.SetString(language.English, keyThinking, "Thinking...")
	message.SetString(language.English, keyNewChat, "New Chat")
	message.SetString(language.English, keyNoConversations, "No conversations yet")
}

// Printer wraps an x/text printer for one selected language.
type Printer struct {
	p *message.Printer
}

// NewPrinter returns a printer for the given BCP 47 language tag ("en",
// "zh", "zh-CN", ...). Unknown tags fall back to English.
func NewPrinter(lang string) *Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	// Match against the two supported bases so "zh-CN" resolves to Chinese.
	matcher := language.NewMatcher([]language.Tag{language.English, language.Chinese})
	tag, _, _ = matcher.Match(tag)
	return &Printer{p: message.NewPrinter(tag)}
}

// RequestApology is the transcript text for a request the remote endpoint
// rejected; errMsg is the human-readable message from the API error.
func (pr *Printer) RequestApology(errMsg string) string {
	return pr.p.Sprintf(keyRequestApology, errMsg)
}

// GenericApology is the transcript text for any other generation failure.
func (pr *Printer) GenericApology() string {
	return pr.p.Sprintf(keyGenericApology)
}

// ConversationNotFound is the synthetic assistant message for a send against
// an unknown conversation ID.
func (pr *Printer) ConversationNotFound() string {
	return pr.p.Sprintf(keyConvNotFound)
}

// Stopped labels a user-cancelled generation.
func (pr *Printer) Stopped() string {
	return pr.p.Sprintf(keyStopped)
}

// LoginStub is printed by the login subcommand, which is deliberately a stub.
func (pr *Printer) LoginStub() string {
	return pr.p.Sprintf(keyLoginStub)
}

// Thinking is the spinner label while an assistant reply is pending.
func (pr *Printer) Thinking() string {
	return pr.p.Sprintf(keyThinking)
}

// NewChat is the default conversation title shown in the sidebar.
func (pr *Printer) NewChat() string {
	return pr.p.Sprintf(keyNewChat)
}

// NoConversations is the sidebar placeholder for an empty history.
func (pr *Printer) NoConversations() string {
	return pr.p.Sprintf(keyNoConversations)
}
