// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the campaign client.
package model

// =============================================================================
// SCENE / GAME STATE MIRRORS
// =============================================================================

// Scene mirrors the server's current scene description and campaign lore.
type Scene struct {
	Text string `json:"scene"`
	Lore string `json:"lore"`
}

// DecodeScene converts a scene_updated payload. Older server revisions
// pushed the scene text as a bare string; both shapes are accepted.
func DecodeScene(raw any, prev Scene) Scene {
	switch v := raw.(type) {
	case string:
		return Scene{Text: v, Lore: prev.Lore}
	case map[string]any:
		scene := Scene{
			Text: Str(v, "scene", "description", "text"),
			Lore: Str(v, "lore"),
		}
		if scene.Lore == "" {
			scene.Lore = prev.Lore
		}
		return scene
	}
	return prev
}

// AutosaveSettings mirrors the server's autosave configuration.
type AutosaveSettings struct {
	Enabled   bool `json:"enabled"`
	Threshold int  `json:"threshold"`
}

// =============================================================================
// AUDIO
// =============================================================================

// AudioChunk is a TTS audio push. The client treats the sample data as
// opaque: it is queued for a playback sink, never decoded here.
type AudioChunk struct {
	Audio      string `json:"audio"` // base64 sample data
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Format     string `json:"format"`
}

// DecodeAudioChunk converts a tts_audio payload.
func DecodeAudioChunk(raw map[string]any) AudioChunk {
	return AudioChunk{
		Audio:      Str(raw, "audio"),
		SampleRate: Int(raw, "sample_rate"),
		Channels:   Int(raw, "channels"),
		Format:     Str(raw, "format"),
	}
}
