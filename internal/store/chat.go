// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store contains the reactive state stores behind the UI.
package store

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/campfire-tui/internal/model"
	"github.com/jeranaias/campfire-tui/internal/notify"
	"github.com/jeranaias/campfire-tui/internal/transport"
)

// =============================================================================
// ARCHIVER
// =============================================================================

// Archiver receives substantive transcript messages for local archival
// and answers offline queries against the archive. The thinking
// placeholder is never archived.
type Archiver interface {
	Append(msg model.Message) error
	Clear() error
	Recent(n int) ([]model.Message, error)
	Search(term string) ([]model.Message, error)
	Count() (int, error)
}

// =============================================================================
// CHAT STORE
// =============================================================================

// Loading keys used with the notification center.
const (
	loadingKeySave = "saveGame"
	loadingKeyLoad = "loadGame"
)

// Chat owns the campaign transcript and its state machine. The transcript
// is append-only except for the singular thinking placeholder, which is
// the only message ever removed.
type Chat struct {
	bus    transport.Bus
	req    *transport.Correlator
	center *notify.Center

	// personas resolves the active persona for outgoing messages.
	personas *Persona

	// archive receives substantive messages; may be nil.
	archive Archiver

	// limiter throttles GM-bound sends; the server enforces its own
	// limit and pushes rate_limit_reached when exceeded.
	limiter *rate.Limiter

	mu           sync.Mutex
	messages     []model.Message
	thinking     bool
	input        string
	saveFilePath string
	audioQueue   []model.AudioChunk
	voiceTTS     bool
	voiceInput   bool

	changed subscribers
	logf    func(format string, args ...any)
}

// NewChat creates the chat store and registers its event subscriptions.
func NewChat(bus transport.Bus, req *transport.Correlator, center *notify.Center, personas *Persona) *Chat {
	c := &Chat{
		bus:      bus,
		req:      req,
		center:   center,
		personas: personas,
		limiter:  rate.NewLimiter(rate.Limit(1), 3),
		logf:     nopLogf,
	}
	c.bind()
	return c
}

// SetArchive installs the local transcript archive sink.
func (c *Chat) SetArchive(a Archiver) {
	c.mu.Lock()
	c.archive = a
	c.mu.Unlock()
}

// SetLogf installs a logging hook.
func (c *Chat) SetLogf(logf func(format string, args ...any)) {
	if logf != nil {
		c.logf = logf
	}
}

// Subscribe registers a change callback.
func (c *Chat) Subscribe(fn func()) func() {
	return c.changed.Add(fn)
}

// bind registers the store's transport subscriptions. Subscriptions are
// durable: they survive reconnection.
func (c *Chat) bind() {
	onMessage := func(data any) {
		raw, ok := data.(map[string]any)
		if !ok {
			c.logf("chat: malformed message payload %T", data)
			return
		}
		c.AddMessage(raw)
	}
	c.bus.On("message", onMessage)
	c.bus.On("new_message", onMessage)

	c.bus.On("load_messages", func(data any) {
		c.loadMessages(data)
	})

	c.bus.On("thinking_started", func(any) { c.SetThinking(true) })
	c.bus.On("thinking_stopped", func(any) { c.SetThinking(false) })
	c.bus.On("thinking_ended", func(any) { c.SetThinking(false) })

	c.bus.On("game_reset", func(any) { c.resetLocal() })

	c.bus.On("save_file_path", func(data any) {
		raw, ok := data.(map[string]any)
		if !ok {
			return
		}
		if path := model.Str(raw, "filepath"); path != "" {
			c.mu.Lock()
			c.saveFilePath = path
			c.mu.Unlock()
			c.changed.Fire()
		}
	})

	c.bus.On("tts_audio", func(data any) {
		raw, ok := data.(map[string]any)
		if !ok {
			return
		}
		chunk := model.DecodeAudioChunk(raw)
		if chunk.Audio == "" {
			return
		}
		c.mu.Lock()
		if !c.voiceTTS {
			c.mu.Unlock()
			return
		}
		c.audioQueue = append(c.audioQueue, chunk)
		c.mu.Unlock()
		c.changed.Fire()
	})

	c.bus.On("voice_transcription_result", func(data any) {
		c.handleTranscription(data)
	})

	c.bus.On("rate_limit_reached", func(data any) {
		wait := 30 * time.Second
		if raw, ok := data.(map[string]any); ok {
			if secs := model.Int(raw, "retry_after"); secs > 0 {
				wait = time.Duration(secs) * time.Second
			}
		}
		c.center.RateLimited(wait)
		c.SetThinking(false)
	})

	// The server replays full state in response to init, but the persona
	// fetch is cheap and guarantees a sendable state even if that replay
	// is partial. Fetch blocks on a correlated request, so it must not
	// run on the dispatch goroutine.
	c.bus.On(transport.EventConnect, func(any) {
		if c.personas.CurrentID() == "" {
			go c.personas.Fetch()
		}
		c.mu.Lock()
		noPath := c.saveFilePath == ""
		c.mu.Unlock()
		if noPath {
			go c.FetchSaveFilePath()
		}
	})
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Messages returns a snapshot of the transcript in arrival order.
func (c *Chat) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// IsThinking reports whether the thinking placeholder is present.
func (c *Chat) IsThinking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.thinking
}

// AddMessage normalizes an arbitrary incoming payload into a Message and
// appends it. Any substantive message ends the thinking state.
func (c *Chat) AddMessage(raw map[string]any) {
	msg := model.NormalizeMessage(raw)

	c.mu.Lock()
	c.appendLocked(msg)
	if !msg.IsThinking() {
		c.clearThinkingLocked()
	}
	archive := c.archive
	c.mu.Unlock()

	if archive != nil && !msg.IsThinking() {
		if err := archive.Append(msg); err != nil {
			c.logf("chat: archive append: %v", err)
		}
	}
	c.changed.Fire()
}

// SetThinking drives the thinking state machine. Entering thinking when
// already thinking is idempotent: no duplicate placeholder, no duplicate
// state change. A spurious stop when not thinking is a no-op.
func (c *Chat) SetThinking(thinking bool) {
	c.mu.Lock()
	if thinking == c.thinking {
		c.mu.Unlock()
		return
	}
	if thinking {
		c.thinking = true
		c.appendLocked(model.NewThinkingMessage())
	} else {
		c.clearThinkingLocked()
	}
	c.mu.Unlock()

	c.changed.Fire()
}

// appendLocked appends a message, refusing a second thinking placeholder.
func (c *Chat) appendLocked(msg model.Message) {
	if msg.IsThinking() {
		for _, m := range c.messages {
			if m.IsThinking() {
				return
			}
		}
		c.thinking = true
	}
	c.messages = append(c.messages, msg)
}

// clearThinkingLocked removes the placeholder and lowers the flag. The
// flag is true if and only if a placeholder exists in the transcript.
func (c *Chat) clearThinkingLocked() {
	c.thinking = false
	for i, m := range c.messages {
		if m.IsThinking() {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			return
		}
	}
}

// loadMessages replaces the transcript wholesale, e.g. after loading a
// saved game or an init replay. Accepts both a bare array and a
// {messages: [...]} object.
func (c *Chat) loadMessages(data any) {
	entries, ok := data.([]any)
	if !ok {
		if raw, isMap := data.(map[string]any); isMap {
			entries = model.Slice(raw, "messages")
		}
	}

	c.mu.Lock()
	c.messages = nil
	c.thinking = false
	for _, entry := range entries {
		if raw, ok := entry.(map[string]any); ok {
			msg := model.NormalizeMessage(raw)
			if msg.IsThinking() {
				continue
			}
			c.appendLocked(msg)
		}
	}
	c.mu.Unlock()

	c.changed.Fire()
}

// resetLocal clears the transcript after a server-side game reset.
func (c *Chat) resetLocal() {
	c.mu.Lock()
	c.messages = nil
	c.thinking = false
	archive := c.archive
	c.mu.Unlock()

	if archive != nil {
		if err := archive.Clear(); err != nil {
			c.logf("chat: archive clear: %v", err)
		}
	}
	c.changed.Fire()
}

// =============================================================================
// INPUT AND SEND ACTIONS
// =============================================================================

// Input returns the current input draft.
func (c *Chat) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// SetInput replaces the input draft.
func (c *Chat) SetInput(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
	c.changed.Fire()
}

// SendMessage sends the input draft to the game master. It requires a
// non-empty trimmed draft and a resolved current persona; both checks
// short-circuit locally without a network round-trip. The draft clears
// immediately. Sending alone does not enter the thinking state — only
// ContinueCampaign or a server thinking_started does.
func (c *Chat) SendMessage() {
	c.mu.Lock()
	text := strings.TrimSpace(c.input)
	c.mu.Unlock()
	if text == "" {
		return
	}

	personaID := c.personas.CurrentID()
	if personaID == "" {
		c.center.Warning("No game-master persona selected")
		return
	}

	if !c.limiter.Allow() {
		c.center.RateLimited(0)
		return
	}

	c.mu.Lock()
	c.input = ""
	c.mu.Unlock()

	c.bus.Emit("gm_message", map[string]any{
		"message":    text,
		"persona_id": personaID,
	})
	c.changed.Fire()
}

// ContinueCampaign advances the campaign without new input and enters
// the thinking state.
func (c *Chat) ContinueCampaign() {
	if !c.limiter.Allow() {
		c.center.RateLimited(0)
		return
	}
	c.bus.Emit("gm_continue", nil)
	c.SetThinking(true)
}

// =============================================================================
// SAVE / LOAD / RESET
// =============================================================================

// SaveFilePath returns the current save file path mirror.
func (c *Chat) SaveFilePath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveFilePath
}

// SetSaveFilePath updates the local save file path.
func (c *Chat) SetSaveFilePath(path string) {
	c.mu.Lock()
	c.saveFilePath = path
	c.mu.Unlock()
	c.changed.Fire()
}

// SaveGame persists the campaign server-side as a correlated request so
// the user gets explicit success or failure feedback.
func (c *Chat) SaveGame(path string) {
	c.mu.Lock()
	if path == "" {
		path = c.saveFilePath
	} else {
		c.saveFilePath = path
	}
	c.mu.Unlock()

	if path == "" {
		c.center.Warning("No save file path set")
		return
	}

	go func() {
		c.center.SetLoading(loadingKeySave, true)
		res := c.req.Request("save_game", map[string]any{"filepath": path})
		c.center.SetLoading(loadingKeySave, false)
		if res.Success {
			c.center.Success("Game saved")
		} else {
			c.center.Error("Failed to save game: " + res.Err)
		}
	}()
}

// LoadGame asks for confirmation, then loads a saved campaign. Loading
// replaces the current game state; the transcript is replaced by the
// server's load_messages push.
func (c *Chat) LoadGame(path string) {
	c.mu.Lock()
	if path == "" {
		path = c.saveFilePath
	} else {
		c.saveFilePath = path
	}
	c.mu.Unlock()

	if path == "" {
		c.center.Warning("No save file path set")
		return
	}

	c.center.ShowConfirmation(notify.DialogOptions{
		Title:   "Load Game",
		Message: "Loading a game will replace your current game state. Are you sure you want to continue?",
		Kind:    notify.DialogWarning,
		OnConfirm: func() {
			go func() {
				c.center.SetLoading(loadingKeyLoad, true)
				res := c.req.Request("load_game", map[string]any{"filepath": path})
				c.center.SetLoading(loadingKeyLoad, false)
				if !res.Success {
					c.center.Error("Failed to load game: " + res.Err)
				}
			}()
		},
	})
}

// ResetGame asks for confirmation, then clears the campaign server-side.
// Local state resets when the game_reset push arrives.
func (c *Chat) ResetGame() {
	c.center.ShowConfirmation(notify.DialogOptions{
		Title:   "Reset Game",
		Message: "This clears the transcript and all campaign state. Are you sure?",
		Kind:    notify.DialogDanger,
		OnConfirm: func() {
			c.bus.Emit("reset_game", nil)
		},
	})
}

// FetchSaveFilePath pulls the server's current save path via a
// correlated request.
func (c *Chat) FetchSaveFilePath() string {
	res := c.req.Request("get_save_file_path", nil)
	if !res.Success {
		return ""
	}
	path := res.Str("filepath")
	if path != "" {
		c.SetSaveFilePath(path)
	}
	return path
}

// =============================================================================
// VOICE AND AUDIO
// =============================================================================

// archiveRecentLimit bounds an empty-query archive lookup.
const archiveRecentLimit = 20

// SearchArchive queries the local transcript archive and posts the
// results as a system message. An empty query shows the most recent
// archived lines. Works entirely offline.
func (c *Chat) SearchArchive(query string) {
	c.mu.Lock()
	archive := c.archive
	c.mu.Unlock()
	if archive == nil {
		c.center.Warning("Transcript archive is disabled")
		return
	}

	query = strings.TrimSpace(query)
	var (
		matches []model.Message
		err     error
	)
	if query == "" {
		matches, err = archive.Recent(archiveRecentLimit)
	} else {
		matches, err = archive.Search(query)
	}
	if err != nil {
		c.center.Error("Archive lookup failed: " + err.Error())
		return
	}
	total, err := archive.Count()
	if err != nil {
		total = 0
	}

	var b strings.Builder
	switch {
	case query == "":
		b.WriteString("Last " + strconv.Itoa(len(matches)) + " archived lines")
	case len(matches) == 0:
		b.WriteString("No archived lines match \"" + query + "\"")
	default:
		b.WriteString(strconv.Itoa(len(matches)) + " archived lines match \"" + query + "\"")
	}
	if total > 0 {
		b.WriteString(" (" + strconv.Itoa(total) + " archived in total)")
	}
	for _, m := range matches {
		b.WriteString("\n  ")
		b.WriteString(m.Sender)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}

	// The result is local commentary, appended directly so it is never
	// re-archived.
	c.mu.Lock()
	c.appendLocked(model.NewSystemMessage(b.String()))
	c.mu.Unlock()
	c.changed.Fire()
}

// SetVoice applies the speech preferences. TTS pushes arriving while
// narration audio is off are dropped rather than queued.
func (c *Chat) SetVoice(tts, input bool) {
	c.mu.Lock()
	c.voiceTTS = tts
	c.voiceInput = input
	if !tts {
		c.audioQueue = nil
	}
	c.mu.Unlock()
}

// SubmitAudio sends recorded audio for transcription. The transcribed
// text lands in the input draft when the result arrives.
func (c *Chat) SubmitAudio(b64 string) {
	if b64 == "" {
		return
	}
	c.mu.Lock()
	enabled := c.voiceInput
	c.mu.Unlock()
	if !enabled {
		c.center.Warning("Voice input is disabled")
		return
	}
	if !c.limiter.Allow() {
		c.center.RateLimited(0)
		return
	}
	c.bus.Emit("voice_transcribe", map[string]any{"audio": b64})
}

// handleTranscription applies a voice_transcription_result push.
func (c *Chat) handleTranscription(data any) {
	raw, ok := data.(map[string]any)
	if !ok {
		return
	}
	if !model.Bool(raw, "success") {
		msg := model.Str(raw, "error")
		if msg == "" {
			msg = "transcription failed"
		}
		c.center.Error("Voice transcription failed: " + msg)
		return
	}
	text := model.Str(raw, "text")
	if text == "" {
		return
	}

	c.mu.Lock()
	if c.input == "" {
		c.input = text
	} else {
		c.input = strings.TrimRight(c.input, " ") + " " + text
	}
	c.mu.Unlock()
	c.changed.Fire()
}

// TakeAudio removes and returns the next queued TTS chunk for playback,
// if any.
func (c *Chat) TakeAudio() (model.AudioChunk, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.audioQueue) == 0 {
		return model.AudioChunk{}, false
	}
	chunk := c.audioQueue[0]
	c.audioQueue = c.audioQueue[1:]
	return chunk, true
}
