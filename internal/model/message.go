// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the campaign client.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// =============================================================================
// MESSAGE TYPE TAG
// =============================================================================

// MessageType classifies a transcript entry.
type MessageType string

const (
	// TypeMessage is an ordinary character/player message.
	TypeMessage MessageType = "message"
	// TypeSystem is a system announcement.
	TypeSystem MessageType = "system"
	// TypeThinking is the synthetic placeholder shown while the GM works.
	TypeThinking MessageType = "thinking"
	// TypeGM is game-master narrative output.
	TypeGM MessageType = "gm"
	// TypeRoll is a skill-check result with structured roll data.
	TypeRoll MessageType = "roll"
	// TypeMemory is a recalled-memory annotation from the GM.
	TypeMemory MessageType = "memory"
)

// String returns the string representation of the type tag.
func (t MessageType) String() string {
	return string(t)
}

// Valid reports whether t is one of the known type tags.
func (t MessageType) Valid() bool {
	switch t {
	case TypeMessage, TypeSystem, TypeThinking, TypeGM, TypeRoll, TypeMemory:
		return true
	}
	return false
}

// ThinkingMessageID is the fixed identifier of the singular thinking
// placeholder. Exactly one message with this ID may exist at a time.
const ThinkingMessageID = "thinking-message"

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single entry in the campaign transcript.
type Message struct {
	// Identity
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`

	// Content
	Sender  string `json:"sender"`
	Content string `json:"content"`

	// Optional associations
	CharacterID string `json:"character_id,omitempty"`
	Avatar      string `json:"avatar,omitempty"`

	// Structured payload for roll messages and other typed extras.
	Data map[string]any `json:"data,omitempty"`
}

// NewMessage creates a message with a generated ID and current timestamp.
func NewMessage(typ MessageType, sender, content string) Message {
	return Message{
		ID:        generateMessageID(),
		Type:      typ,
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewSystemMessage creates a system announcement message.
func NewSystemMessage(content string) Message {
	return NewMessage(TypeSystem, "System", content)
}

// NewThinkingMessage creates the thinking placeholder. Its ID is fixed so
// the transcript can locate and remove it.
func NewThinkingMessage() Message {
	msg := NewMessage(TypeThinking, "System", "Thinking...")
	msg.ID = ThinkingMessageID
	return msg
}

// IsThinking reports whether this message is the thinking placeholder.
func (m Message) IsThinking() bool {
	return m.Type == TypeThinking
}

// RollData returns the structured roll payload for roll messages, or nil.
func (m Message) RollData() map[string]any {
	if m.Type != TypeRoll {
		return nil
	}
	return m.Data
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// NormalizeMessage converts an arbitrary incoming payload into a Message,
// defaulting absent fields. The server sends either "content" or "message"
// for the body; an absent ID is synthesized locally; an unknown or absent
// type tag falls back to TypeMessage.
func NormalizeMessage(raw map[string]any) Message {
	msg := Message{
		ID:          Str(raw, "id"),
		Sender:      Str(raw, "sender"),
		Content:     Str(raw, "content", "message"),
		CharacterID: Str(raw, "character_id"),
		Avatar:      Str(raw, "avatar"),
		Type:        MessageType(Str(raw, "type")),
		Timestamp:   time.Now(),
		Data:        Map(raw, "data"),
	}

	if msg.ID == "" {
		msg.ID = generateMessageID()
	}
	if msg.Sender == "" {
		msg.Sender = "System"
	}
	if !msg.Type.Valid() {
		msg.Type = TypeMessage
	}

	msg.Content = strings.TrimRight(msg.Content, "\n")

	return msg
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateMessageID creates a unique message ID.
func generateMessageID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
