package httpapi

// Wire DTOs. Timestamps travel as unix seconds under "expired_at", sizes as
// "file_size"; both names are part of the published protocol.

type openSessionResponse struct {
	SecretKey string `json:"secret_key"`
	ExpiredAt int64  `json:"expired_at"`
}

type acceptChunkResponse struct {
	Message string `json:"message"`
	Offset  int64  `json:"offset"`
}

type statusResponse struct {
	Offset     int64  `json:"offset"`
	Hash       string `json:"hash"`
	FileSize   int64  `json:"file_size"`
	BytesTotal int64  `json:"bytes_total"`
}

type finalizeResponse struct {
	Identifier string `json:"identifier"`
	ExpiredAt  int64  `json:"expired_at"`
}

type fileInfoResponse struct {
	File  fileMeta   `json:"file"`
	Parts []partMeta `json:"parts"`
}

type fileMeta struct {
	Name      string `json:"name"`
	FileSize  int64  `json:"file_size"`
	ExpiredAt int64  `json:"expired_at"`
}

type partMeta struct {
	Identifier string `json:"identifier"`
	Offset     int64  `json:"offset"`
	Hash       string `json:"hash"`
	FileSize   int64  `json:"file_size"`
}

type messageResponse struct {
	Message string `json:"message"`
}
