// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the campaign API client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeRejected
	ErrTypeTooLarge
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeUnreachable, Message: "campaign server is unreachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrTooLarge    = &ClientError{Type: ErrTypeTooLarge, Message: "upload exceeds the server's size limit"}
)

// IsUnreachable checks if an error indicates the server is unreachable.
func IsUnreachable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnreachable
	}
	return errors.Is(err, ErrUnreachable)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the campaign API client.
type ClientConfig struct {
	// BaseURL is the campaign server base URL (default: http://127.0.0.1:5000)
	BaseURL string

	// Timeout for upload requests (default: 30s)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://127.0.0.1:5000",
		Timeout: 30 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles the campaign server's REST endpoints. It is safe for
// concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:5000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// =============================================================================
// AVATAR UPLOADS
// =============================================================================

// uploadResponse is the server's answer to an avatar upload.
type uploadResponse struct {
	Success   bool   `json:"success"`
	AvatarURL string `json:"avatar_url"`
	Error     string `json:"error"`
}

// UploadPersonaAvatar uploads an avatar image for a game-master persona
// and returns the served avatar URL.
func (c *Client) UploadPersonaAvatar(ctx context.Context, personaID, filename string, image io.Reader) (string, error) {
	return c.uploadAvatar(ctx, "/api/upload_persona_avatar", "persona_id", personaID, filename, image)
}

// UploadCharacterAvatar uploads an avatar image for a character and
// returns the served avatar URL.
func (c *Client) UploadCharacterAvatar(ctx context.Context, characterID, filename string, image io.Reader) (string, error) {
	return c.uploadAvatar(ctx, "/api/avatars", "character_id", characterID, filename, image)
}

// uploadAvatar posts a multipart form with the image under the "avatar"
// field and the owning entity's id alongside it.
func (c *Client) uploadAvatar(ctx context.Context, path, idField, id, filename string, image io.Reader) (string, error) {
	if id == "" {
		return "", &ClientError{Type: ErrTypeRejected, Message: "missing " + idField}
	}
	if err := checkImageExtension(filename); err != nil {
		return "", err
	}

	body, contentType, err := encodeAvatarForm(idField, id, filename, image)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusRequestEntityTooLarge {
		return "", ErrTooLarge
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", &ClientError{
				Type:    ErrTypeInvalidResponse,
				Message: "upload failed: " + resp.Status,
			}
		}
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK || !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "upload failed: " + resp.Status
		}
		return "", &ClientError{Type: ErrTypeRejected, Message: msg}
	}
	if result.AvatarURL == "" {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "upload response missing avatar_url"}
	}

	return result.AvatarURL, nil
}

// encodeAvatarForm builds the multipart body in memory. Avatars are
// small images, so buffering the whole form is fine.
func encodeAvatarForm(idField, id, filename string, image io.Reader) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField(idField, id); err != nil {
		return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode form", Cause: err}
	}
	part, err := w.CreateFormFile("avatar", filepath.Base(filename))
	if err != nil {
		return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode form", Cause: err}
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to read image", Cause: err}
	}
	if err := w.Close(); err != nil {
		return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode form", Cause: err}
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// allowedImageExtensions mirrors the server's accept list. Checking
// locally gives the user an immediate error instead of a round-trip.
var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

func checkImageExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExtensions[ext] {
		return &ClientError{
			Type:    ErrTypeRejected,
			Message: "unsupported image type " + ext,
		}
	}
	return nil
}
