// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the campaign client.
package model

// Loose-payload accessors. Event payloads are decoded from JSON into
// map[string]any; these helpers pull typed values out with defaults so
// the decode step stays at the boundary instead of leaking nil checks
// into every store.

// Str returns the first present string value among keys, or "".
func Str(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Bool returns the boolean value at key, or false.
func Bool(raw map[string]any, key string) bool {
	v, _ := raw[key].(bool)
	return v
}

// Num returns the numeric value at key as float64, or 0.
// JSON numbers always decode to float64; integer payloads from other
// sources are handled for robustness.
func Num(raw map[string]any, key string) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Int returns the numeric value at key truncated to int, or 0.
func Int(raw map[string]any, key string) int {
	return int(Num(raw, key))
}

// Map returns the nested object at key, or nil.
func Map(raw map[string]any, key string) map[string]any {
	v, _ := raw[key].(map[string]any)
	return v
}

// Slice returns the array at key, or nil.
func Slice(raw map[string]any, key string) []any {
	v, _ := raw[key].([]any)
	return v
}
