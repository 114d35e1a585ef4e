package modrinth

import (
	"fmt"
	"io"
	"net/http"
)

// Download streams file's content into w and returns the number of bytes
// written. A non-200 response yields a *RegistryError carrying the status.
func (c *Client) Download(file *File, w io.Writer) (int64, error) {
	op := "download " + file.Filename

	req, err := http.NewRequest(http.MethodGet, file.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, networkError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return 0, statusError(op, resp.StatusCode, body)
	}

	var written int64
	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return written, fmt.Errorf("writing download: %w", writeErr)
			}
			written += int64(n)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, networkError(op, fmt.Errorf("reading download stream: %w", readErr))
		}
	}

	if resp.ContentLength > 0 && written != resp.ContentLength {
		return written, networkError(op, fmt.Errorf("short download: got %d of %d bytes", written, resp.ContentLength))
	}
	return written, nil
}
