// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the campfire application.
//
// This package contains common helper functions used throughout the
// application for string display, stat formatting, and file operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth, StringWidth: terminal-column aware helpers
//
// Stat Formatting:
//   - FormatGold: gold balances for display
//   - FormatModifier, AbilityModifier: ability score arithmetic
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long strings safely for display
//	display := util.TruncateRunes(longText, 50)
//
//	// Render a stat block modifier
//	s := util.FormatModifier(util.AbilityModifier(14))
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0644)
package util
