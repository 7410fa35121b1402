// Package models defines the client-local resume state persisted between
// runs. The server never sees these records.
package models

// UploadState tracks progress of one resumable upload, keyed by source
// path. BytesSent is cumulative committed bytes, not offset times chunk
// size: the final chunk of a file is usually short, so only the byte count
// gives an exact seek position.
type UploadState struct {
	Path       string
	SecretKey  string
	BytesSent  int64
	LastOffset int64
}

// PartRef is one entry of a cached part list.
type PartRef struct {
	Identifier string `json:"identifier"`
	Offset     int64  `json:"offset"`
	Size       int64  `json:"size"`
	Hash       string `json:"hash"`
}

// DownloadState tracks progress of one resumable download, keyed by the
// public identifier. Parts caches the full server-reported part list so a
// resumed run does not re-query it.
type DownloadState struct {
	Identifier string
	DestPath   string
	Name       string
	TotalSize  int64
	Parts      []PartRef
	PartsDone  int
}
