// Package protocol defines the API request/response types.
package protocol

import "github.com/filebox/filebox/pkg/models"

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

// ErrorResponse is returned on API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// MultiUploadResponse is returned when more than one file was uploaded in
// a single request. Single-file uploads return the bare FileRecord.
type MultiUploadResponse struct {
	Message string              `json:"message"`
	Files   []models.FileRecord `json:"files"`
	Count   int                 `json:"count"`
}

// ShareResponse is returned by POST /api/shares/folder/email.
type ShareResponse struct {
	ID         int64  `json:"id"`
	FileID     int64  `json:"fileId"`
	Permission string `json:"permission"`
	Recipient  string `json:"recipientEmail,omitempty"`
	Link       string `json:"shareLink,omitempty"`
}
