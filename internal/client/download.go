package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
)

// DefaultDownloadName is used when the response carries no usable filename.
const DefaultDownloadName = "download"

// Matches the RFC 5987 form first (filename*=UTF-8''value), then the plain
// quoted or unquoted filename= parameter.
var dispositionRe = regexp.MustCompile(`(?i)filename\*=UTF-8''([^;]+)|filename="?([^";]+)"?`)

// FilenameFromDisposition extracts the download filename from a
// Content-Disposition header value. The extended UTF-8 form wins over the
// plain form; the value is URL-decoded; no match yields the fallback name.
func FilenameFromDisposition(disposition string) string {
	m := dispositionRe.FindStringSubmatch(disposition)
	if m == nil {
		return DefaultDownloadName
	}
	value := m[1]
	if value == "" {
		value = m[2]
	}
	if decoded, err := url.PathUnescape(value); err == nil {
		value = decoded
	}
	if value == "" {
		return DefaultDownloadName
	}
	return value
}

// Download streams a file's content into w and returns the server-suggested
// filename and the number of bytes written. Folders arrive as a zip archive.
// An authorization failure (401/403) is reported as ErrForbidden so callers
// can show a permission-denied message without tearing down the session.
func (c *Client) Download(ctx context.Context, fileID int64, w io.Writer) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+fmt.Sprintf("/api/files/download/%d", fileID), nil)
	if err != nil {
		return "", 0, err
	}
	c.applyAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		io.Copy(io.Discard, resp.Body)
		return "", 0, fmt.Errorf("%w: cannot download this file", ErrForbidden)
	}
	if err := c.checkStatus(resp); err != nil {
		return "", 0, err
	}

	filename := FilenameFromDisposition(resp.Header.Get("Content-Disposition"))
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return filename, n, fmt.Errorf("download %s: %w", filename, err)
	}
	return filename, n, nil
}
