// Package models defines the server-side rows for published files and their
// parts.
package models

import "time"

// SecretKey is the write capability for an upload session. It is generated
// at session open and never exposed publicly after finalization.
type SecretKey string

// FileID is the short public read capability assigned at finalization.
// Keeping it a distinct type from SecretKey means a read capability can
// never be passed where a write capability is required.
type FileID string

// File is one transfer unit. Identifier stays empty until finalization;
// an empty Identifier marks the session as still open for uploads.
type File struct {
	ID            int64
	SecretKey     SecretKey
	Identifier    FileID
	Name          string
	TotalSize     int64
	ExpiresAt     time.Time
	MaxDownloads  int64
	DownloadCount int64
	CreatedAt     time.Time
}

// Finalized reports whether the file has been published.
func (f *File) Finalized() bool {
	return f.Identifier != ""
}
