// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the campaign client.
package model

// =============================================================================
// ABILITY SCORES
// =============================================================================

// AbilityScores holds the six core ability values for a character.
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// =============================================================================
// CHARACTER TYPE
// =============================================================================

// Character represents a party member. Characters are server-authoritative:
// the client never mutates combat state locally, it only mirrors wholesale
// snapshots pushed by the server.
type Character struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`

	// Descriptors
	Class       string `json:"class"`
	Race        string `json:"race"`
	Personality string `json:"personality,omitempty"`
	Background  string `json:"background,omitempty"`
	Motivation  string `json:"motivation,omitempty"`
	Avatar      string `json:"avatar,omitempty"`

	// Party state
	Active   bool `json:"active"`
	IsLeader bool `json:"is_leader"`

	// Combat stats
	AbilityScores    AbilityScores `json:"ability_scores"`
	MaxHP            int           `json:"max_hp"`
	CurrentHP        int           `json:"current_hp"`
	ArmorClass       int           `json:"armor_class"`
	ProficiencyBonus int           `json:"proficiency_bonus"`

	// Skills: name -> proficient
	SkillProficiencies map[string]bool `json:"skill_proficiencies,omitempty"`

	// Possessions
	Gold      float64         `json:"gold"`
	Inventory []InventoryItem `json:"inventory,omitempty"`

	// Voice for TTS narration
	VoiceID string `json:"voice_id,omitempty"`
}

// DecodeCharacter converts a loose payload into a Character.
func DecodeCharacter(id string, raw map[string]any) Character {
	ch := Character{
		ID:               id,
		Name:             Str(raw, "name"),
		Class:            Str(raw, "class"),
		Race:             Str(raw, "race"),
		Personality:      Str(raw, "personality"),
		Background:       Str(raw, "background"),
		Motivation:       Str(raw, "motivation"),
		Avatar:           Str(raw, "avatar"),
		Active:           Bool(raw, "active"),
		IsLeader:         Bool(raw, "is_leader"),
		MaxHP:            Int(raw, "max_hp"),
		CurrentHP:        Int(raw, "current_hp"),
		ArmorClass:       Int(raw, "armor_class"),
		ProficiencyBonus: Int(raw, "proficiency_bonus"),
		Gold:             Num(raw, "gold"),
		VoiceID:          Str(raw, "voice_id"),
	}

	if scores := Map(raw, "ability_scores"); scores != nil {
		ch.AbilityScores = AbilityScores{
			Strength:     Int(scores, "strength"),
			Dexterity:    Int(scores, "dexterity"),
			Constitution: Int(scores, "constitution"),
			Intelligence: Int(scores, "intelligence"),
			Wisdom:       Int(scores, "wisdom"),
			Charisma:     Int(scores, "charisma"),
		}
	}

	if skills := Map(raw, "skill_proficiencies"); skills != nil {
		ch.SkillProficiencies = make(map[string]bool, len(skills))
		for name, v := range skills {
			prof, _ := v.(bool)
			ch.SkillProficiencies[name] = prof
		}
	}

	for _, item := range Slice(raw, "inventory") {
		if m, ok := item.(map[string]any); ok {
			ch.Inventory = append(ch.Inventory, DecodeInventoryItem(id, m))
		}
	}

	return ch
}

// DecodeCharacters converts the characters object of a characters_updated
// push into a strict map. Entries that are not objects are dropped.
func DecodeCharacters(raw map[string]any) map[string]Character {
	out := make(map[string]Character, len(raw))
	for id, v := range raw {
		if m, ok := v.(map[string]any); ok {
			out[id] = DecodeCharacter(id, m)
		}
	}
	return out
}

// =============================================================================
// TTS VOICE
// =============================================================================

// TTSVoice describes a narration voice offered by the server.
type TTSVoice struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Languages []string `json:"languages,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	Age       string   `json:"age,omitempty"`
}

// DecodeTTSVoices converts the voices array of a tts_voices push.
func DecodeTTSVoices(raw []any) []TTSVoice {
	voices := make([]TTSVoice, 0, len(raw))
	for _, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		voice := TTSVoice{
			ID:     Str(m, "id"),
			Name:   Str(m, "name"),
			Gender: Str(m, "gender"),
			Age:    Str(m, "age"),
		}
		for _, lang := range Slice(m, "languages") {
			if s, ok := lang.(string); ok {
				voice.Languages = append(voice.Languages, s)
			}
		}
		voices = append(voices, voice)
	}
	return voices
}
