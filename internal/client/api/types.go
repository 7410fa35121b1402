package api

// Wire DTOs mirroring the server responses. Timestamps are unix seconds.

type OpenSession struct {
	SecretKey string `json:"secret_key"`
	ExpiredAt int64  `json:"expired_at"`
}

type ChunkAck struct {
	Message string `json:"message"`
	Offset  int64  `json:"offset"`
}

type SessionStatus struct {
	Offset     int64  `json:"offset"`
	Hash       string `json:"hash"`
	FileSize   int64  `json:"file_size"`
	BytesTotal int64  `json:"bytes_total"`
}

type PublishedFile struct {
	Identifier string `json:"identifier"`
	ExpiredAt  int64  `json:"expired_at"`
}

type FileInfo struct {
	File  FileMeta   `json:"file"`
	Parts []PartMeta `json:"parts"`
}

type FileMeta struct {
	Name      string `json:"name"`
	FileSize  int64  `json:"file_size"`
	ExpiredAt int64  `json:"expired_at"`
}

type PartMeta struct {
	Identifier string `json:"identifier"`
	Offset     int64  `json:"offset"`
	Hash       string `json:"hash"`
	FileSize   int64  `json:"file_size"`
}
