// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the campaign server's REST
// endpoints. Binary payloads such as avatar images travel over HTTP
// rather than the event channel; everything else lives in the
// transport package.
package api
