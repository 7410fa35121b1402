package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

// Open allocates a new upload session on the server.
func (c *Client) Open(ctx context.Context) (*OpenSession, error) {
	var out OpenSession
	if err := c.doJSON(ctx, http.MethodPost, "/file", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status fetches the authoritative resume point for an open session.
func (c *Client) Status(ctx context.Context, secretKey string) (*SessionStatus, error) {
	var out SessionStatus
	if err := c.doJSON(ctx, http.MethodGet, "/status/"+url.PathEscape(secretKey), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendChunk uploads one chunk as a multipart form and returns the offset the
// server committed it under. offset is the client's retry hint, not an
// instruction.
func (c *Client) SendChunk(ctx context.Context, secretKey string, offset int64, hash string, data []byte) (int64, error) {

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"secret_key": secretKey,
		"offset":     strconv.FormatInt(offset, 10),
		"hash":       hash,
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return 0, err
		}
	}

	fw, err := mw.CreateFormFile("file", "part")
	if err != nil {
		return 0, err
	}
	if _, err := fw.Write(data); err != nil {
		return 0, err
	}
	if err := mw.Close(); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/part_file", &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, statusError(resp)
	}

	var ack ChunkAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return 0, err
	}
	return ack.Offset, nil
}

// Finalize publishes the session and returns the public identifier. Empty
// name, expire or a zero maxDownloads leave the server defaults in effect.
func (c *Client) Finalize(ctx context.Context, secretKey, name, expire string, maxDownloads int64) (*PublishedFile, error) {

	q := url.Values{}
	if name != "" {
		q.Set("name", name)
	}
	if expire != "" {
		q.Set("expire", expire)
	}
	if maxDownloads > 0 {
		q.Set("max_download", strconv.FormatInt(maxDownloads, 10))
	}

	path := "/file/" + url.PathEscape(secretKey)
	if len(q) > 0 {
		path = fmt.Sprintf("%s?%s", path, q.Encode())
	}

	var out PublishedFile
	if err := c.doJSON(ctx, http.MethodPost, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a file and all of its parts via the write capability.
func (c *Client) Delete(ctx context.Context, secretKey string) error {
	return c.doJSON(ctx, http.MethodDelete, "/file/"+url.PathEscape(secretKey), nil)
}
