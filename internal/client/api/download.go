package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// FileInfo fetches the metadata and ordered part list of a published file.
func (c *Client) FileInfo(ctx context.Context, identifier string) (*FileInfo, error) {
	var out FileInfo
	if err := c.doJSON(ctx, http.MethodGet, "/file_info/"+url.PathEscape(identifier), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchPart downloads the raw bytes of one part. Parts are bounded by the
// chunk cap, so buffering the whole body is fine.
func (c *Client) FetchPart(ctx context.Context, partIdentifier string) ([]byte, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/file/"+url.PathEscape(partIdentifier), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	return io.ReadAll(resp.Body)
}
