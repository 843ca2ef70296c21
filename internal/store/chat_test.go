// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"strings"
	"testing"

	"github.com/jeranaias/campfire-tui/internal/model"
	"github.com/jeranaias/campfire-tui/internal/notify"
)

func newChatFixture(t *testing.T) (*Chat, *Persona, testDeps) {
	t.Helper()
	deps := newTestDeps()
	personas := NewPersona(deps.bus, deps.req)
	chat := NewChat(deps.bus, deps.req, deps.center, personas)
	return chat, personas, deps
}

// loadPersonas seeds the persona store with a single default persona so
// sends can resolve an active game master.
func loadPersonas(deps testDeps) {
	deps.bus.Deliver("personas_updated", map[string]any{
		"personas": []any{
			map[string]any{"id": "gm1", "name": "The Narrator", "isDefault": true},
		},
		"default_persona": "gm1",
	})
}

func TestChatThinkingIdempotent(t *testing.T) {
	chat, _, _ := newChatFixture(t)

	chat.SetThinking(true)
	chat.SetThinking(true)
	chat.SetThinking(true)

	if !chat.IsThinking() {
		t.Fatal("expected thinking state")
	}
	placeholders := 0
	for _, m := range chat.Messages() {
		if m.IsThinking() {
			placeholders++
		}
	}
	if placeholders != 1 {
		t.Fatalf("expected exactly one placeholder, got %d", placeholders)
	}

	chat.SetThinking(false)
	chat.SetThinking(false)
	if chat.IsThinking() {
		t.Fatal("expected thinking cleared")
	}
	if got := len(chat.Messages()); got != 0 {
		t.Fatalf("expected empty transcript, got %d messages", got)
	}
}

func TestChatMessageClearsThinking(t *testing.T) {
	chat, _, deps := newChatFixture(t)

	deps.bus.Deliver("thinking_started", nil)
	if !chat.IsThinking() {
		t.Fatal("expected thinking after thinking_started")
	}

	deps.bus.Deliver("message", map[string]any{
		"sender":  "GM",
		"content": "A storm gathers over the keep.",
		"type":    "gm",
	})

	if chat.IsThinking() {
		t.Fatal("substantive message should end thinking")
	}
	msgs := chat.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Content != "A storm gathers over the keep." {
		t.Fatalf("unexpected content %q", msgs[0].Content)
	}
	for _, m := range msgs {
		if m.IsThinking() {
			t.Fatal("placeholder survived the substantive message")
		}
	}
}

func TestChatSendMessage(t *testing.T) {
	chat, _, deps := newChatFixture(t)
	loadPersonas(deps)

	chat.SetInput("Hello")
	chat.SendMessage()

	sends := deps.bus.Emitted("gm_message")
	if len(sends) != 1 {
		t.Fatalf("expected 1 gm_message, got %d", len(sends))
	}
	payload := sends[0].payloadMap()
	if payload["message"] != "Hello" {
		t.Fatalf("unexpected message field %v", payload["message"])
	}
	if payload["persona_id"] != "gm1" {
		t.Fatalf("unexpected persona_id %v", payload["persona_id"])
	}
	if chat.Input() != "" {
		t.Fatal("input draft should clear on send")
	}
	if chat.IsThinking() {
		t.Fatal("sending alone must not enter thinking")
	}
}

func TestChatSendRequiresContent(t *testing.T) {
	chat, _, deps := newChatFixture(t)
	loadPersonas(deps)

	chat.SetInput("   ")
	chat.SendMessage()

	if got := deps.bus.Emitted("gm_message"); len(got) != 0 {
		t.Fatalf("whitespace-only draft should not send, got %d events", len(got))
	}
}

func TestChatSendRequiresPersona(t *testing.T) {
	chat, _, deps := newChatFixture(t)

	chat.SetInput("Hello")
	chat.SendMessage()

	if got := deps.bus.Emitted("gm_message"); len(got) != 0 {
		t.Fatalf("send without a persona should short-circuit, got %d events", len(got))
	}
	if chat.Input() != "Hello" {
		t.Fatal("draft should survive a rejected send")
	}
}

func TestChatLoadMessagesReplacesTranscript(t *testing.T) {
	chat, _, deps := newChatFixture(t)

	deps.bus.Deliver("message", map[string]any{"content": "old line"})
	deps.bus.Deliver("thinking_started", nil)

	deps.bus.Deliver("load_messages", []any{
		map[string]any{"content": "loaded one", "sender": "GM", "type": "gm"},
		map[string]any{"content": "loaded two", "sender": "Ayla"},
	})

	msgs := chat.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages after load, got %d", len(msgs))
	}
	if msgs[0].Content != "loaded one" || msgs[1].Content != "loaded two" {
		t.Fatalf("unexpected transcript %v", msgs)
	}
	if chat.IsThinking() {
		t.Fatal("load should drop the thinking placeholder")
	}
}

func TestChatLoadMessagesKeyedObject(t *testing.T) {
	chat, _, deps := newChatFixture(t)

	deps.bus.Deliver("load_messages", map[string]any{
		"messages": []any{
			map[string]any{"content": "wrapped"},
		},
	})

	msgs := chat.Messages()
	if len(msgs) != 1 || msgs[0].Content != "wrapped" {
		t.Fatalf("expected wrapped transcript, got %v", msgs)
	}
}

func TestChatGameResetClearsLocalState(t *testing.T) {
	chat, _, deps := newChatFixture(t)

	deps.bus.Deliver("message", map[string]any{"content": "doomed line"})
	deps.bus.Deliver("thinking_started", nil)
	deps.bus.Deliver("game_reset", nil)

	if got := len(chat.Messages()); got != 0 {
		t.Fatalf("expected empty transcript after reset, got %d", got)
	}
	if chat.IsThinking() {
		t.Fatal("reset should clear thinking")
	}
}

func TestChatContinueEntersThinking(t *testing.T) {
	chat, _, deps := newChatFixture(t)

	chat.ContinueCampaign()

	if got := deps.bus.Emitted("gm_continue"); len(got) != 1 {
		t.Fatalf("expected 1 gm_continue, got %d", len(got))
	}
	if !chat.IsThinking() {
		t.Fatal("continue should enter thinking")
	}
}

func TestChatTranscriptionAppendsToInput(t *testing.T) {
	chat, _, deps := newChatFixture(t)

	chat.SetInput("I draw my sword")
	deps.bus.Deliver("voice_transcription_result", map[string]any{
		"success": true,
		"text":    "and charge",
	})

	if got := chat.Input(); got != "I draw my sword and charge" {
		t.Fatalf("unexpected input %q", got)
	}
}

type recordingArchive struct {
	appended []model.Message
	cleared  int
}

func (a *recordingArchive) Append(msg model.Message) error {
	a.appended = append(a.appended, msg)
	return nil
}

func (a *recordingArchive) Clear() error {
	a.cleared++
	return nil
}

func (a *recordingArchive) Recent(n int) ([]model.Message, error) {
	if n > len(a.appended) {
		n = len(a.appended)
	}
	return a.appended[len(a.appended)-n:], nil
}

func (a *recordingArchive) Search(term string) ([]model.Message, error) {
	var out []model.Message
	for _, m := range a.appended {
		if strings.Contains(m.Content, term) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (a *recordingArchive) Count() (int, error) {
	return len(a.appended), nil
}

func TestChatArchiveSkipsPlaceholder(t *testing.T) {
	chat, _, deps := newChatFixture(t)
	archive := &recordingArchive{}
	chat.SetArchive(archive)

	deps.bus.Deliver("thinking_started", nil)
	deps.bus.Deliver("message", map[string]any{"content": "archived line"})
	deps.bus.Deliver("game_reset", nil)

	if len(archive.appended) != 1 {
		t.Fatalf("expected 1 archived message, got %d", len(archive.appended))
	}
	if archive.appended[0].Content != "archived line" {
		t.Fatalf("unexpected archived content %q", archive.appended[0].Content)
	}
	if archive.cleared != 1 {
		t.Fatalf("expected 1 archive clear, got %d", archive.cleared)
	}
}

func TestChatRateLimitPushClearsThinking(t *testing.T) {
	chat, _, deps := newChatFixture(t)

	chat.SetThinking(true)
	deps.bus.Deliver("rate_limit_reached", map[string]any{"retry_after": 5})

	if chat.IsThinking() {
		t.Fatal("expected thinking cleared after rate limit push")
	}
	notices := deps.center.Notifications()
	if len(notices) == 0 {
		t.Fatal("expected a rate limit notice")
	}
	if notices[len(notices)-1].Kind != notify.KindWarning {
		t.Fatalf("expected warning notice, got %v", notices[len(notices)-1].Kind)
	}
}

func TestChatAudioQueue(t *testing.T) {
	chat, _, deps := newChatFixture(t)
	chat.SetVoice(true, true)

	deps.bus.Deliver("tts_audio", map[string]any{"audio": "QUJD", "format": "mp3"})

	chunk, ok := chat.TakeAudio()
	if !ok {
		t.Fatal("expected a queued chunk")
	}
	if chunk.Audio != "QUJD" {
		t.Fatalf("unexpected audio %q", chunk.Audio)
	}
	if _, ok := chat.TakeAudio(); ok {
		t.Fatal("queue should be empty")
	}
}

func TestChatVoiceDisabledDropsAudio(t *testing.T) {
	chat, _, deps := newChatFixture(t)
	chat.SetVoice(false, false)

	deps.bus.Deliver("tts_audio", map[string]any{"audio": "QUJD"})
	if _, ok := chat.TakeAudio(); ok {
		t.Fatal("narration audio must be dropped while TTS is off")
	}

	chat.SubmitAudio("QUJD")
	if got := deps.bus.Emitted("voice_transcribe"); len(got) != 0 {
		t.Fatalf("voice input off must not emit, got %d events", len(got))
	}

	chat.SetVoice(true, true)
	chat.SubmitAudio("QUJD")
	got := deps.bus.Emitted("voice_transcribe")
	if len(got) != 1 {
		t.Fatalf("expected 1 voice_transcribe, got %d", len(got))
	}
	if got[0].payloadMap()["audio"] != "QUJD" {
		t.Fatalf("unexpected payload %v", got[0].payload)
	}
}

func TestChatDisablingTTSFlushesQueue(t *testing.T) {
	chat, _, deps := newChatFixture(t)
	chat.SetVoice(true, false)

	deps.bus.Deliver("tts_audio", map[string]any{"audio": "QUJD"})
	chat.SetVoice(false, false)

	if _, ok := chat.TakeAudio(); ok {
		t.Fatal("disabling TTS must flush queued chunks")
	}
}

func TestChatSearchArchive(t *testing.T) {
	chat, _, deps := newChatFixture(t)
	archive := &recordingArchive{}
	chat.SetArchive(archive)

	deps.bus.Deliver("message", map[string]any{"sender": "GM", "content": "The dragon sleeps."})
	deps.bus.Deliver("message", map[string]any{"sender": "GM", "content": "The door is locked."})

	chat.SearchArchive("dragon")

	msgs := chat.Messages()
	last := msgs[len(msgs)-1]
	if last.Type != model.TypeSystem {
		t.Fatalf("expected a system message, got %v", last.Type)
	}
	if !strings.Contains(last.Content, "1 archived lines match \"dragon\"") {
		t.Fatalf("unexpected summary %q", last.Content)
	}
	if !strings.Contains(last.Content, "The dragon sleeps.") {
		t.Fatalf("expected the match in the body, got %q", last.Content)
	}

	// The result itself is local commentary and is never archived.
	if len(archive.appended) != 2 {
		t.Fatalf("expected archive untouched, got %d entries", len(archive.appended))
	}
}

func TestChatSearchArchiveDisabled(t *testing.T) {
	chat, _, deps := newChatFixture(t)

	chat.SearchArchive("dragon")

	if got := len(chat.Messages()); got != 0 {
		t.Fatalf("expected no transcript entry, got %d", got)
	}
	notices := deps.center.Notifications()
	if len(notices) == 0 || notices[len(notices)-1].Kind != notify.KindWarning {
		t.Fatal("expected a warning about the disabled archive")
	}
}
