package responder

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxBodySize caps how much of an upstream body is read.
const MaxBodySize = 10 << 20

// Read returns the response body, transparently inflating gzip-encoded payloads.
func Read(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Encoding")), "gzip") {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return io.ReadAll(io.LimitReader(reader, MaxBodySize))
}

// ReadJSON reads the body with Read and unmarshals it into out.
func ReadJSON(resp *http.Response, out any) error {
	body, err := Read(resp)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal body: %w", err)
	}
	return nil
}
