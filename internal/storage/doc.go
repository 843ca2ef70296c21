// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local transcript archival for campfire.
//
// The campaign server owns the authoritative game state; this package
// keeps a local, searchable record of the narration so past sessions
// survive server resets and can be browsed offline.
//
// # Key Types
//
//   - Transcript: SQLite-backed archive of campaign messages
//
// # Usage
//
// Open an archive and append messages:
//
//	archive, err := storage.OpenTranscript(dbPath)
//	err = archive.Append(msg)
//
// Browse and search:
//
//	recent, err := archive.Recent(50)
//	hits, err := archive.Search("dragon")
//
// # Storage Location
//
// The archive lives at ~/.campfire/transcript.db by default.
package storage
