package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

var filenameQuoter = strings.NewReplacer(`"`, "", `\`, "", "\r", "", "\n", "")

// HTTPExporter delivers an export document as a browser download.
// The page script turns the response into a file through a transient
// anchor element, so the browser never navigates away.
type HTTPExporter struct {
	W    http.ResponseWriter
	sent bool
}

// Sent reports whether the response headers have been written.
func (e *HTTPExporter) Sent() bool {
	return e.sent
}

// Save writes data as an attachment named filename.
func (e *HTTPExporter) Save(ctx context.Context, data []byte, filename, mimeType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h := e.W.Header()
	h.Set("Content-Type", mimeType)
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filenameQuoter.Replace(filename)))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("Cache-Control", "no-store")
	e.W.WriteHeader(http.StatusOK)
	e.sent = true

	if _, err := e.W.Write(data); err != nil {
		return fmt.Errorf("write download: %w", err)
	}
	return nil
}
