package models

// Part is one immutable content chunk of a file. Its Identifier is the blob
// storage key and lives in its own namespace, unrelated to file identifiers
// and secret keys.
type Part struct {
	ID         int64
	FileID     int64
	Identifier string
	Offset     int64 // 1-based, assigned by the server, gap-free per file
	Size       int64
	Hash       string
}

// PartStatus describes the newest committed part of a session, plus the
// cumulative number of bytes stored. BytesTotal is the exact position an
// uploader must seek its source to before resuming.
type PartStatus struct {
	Offset     int64
	Hash       string
	Size       int64
	BytesTotal int64
}
