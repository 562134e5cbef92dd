package transport

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/cognicase/cognicase/pkg/blob"
)

// handleDownload streams an uploaded file back to the client. Keys are
// opaque; no auth is required, matching the original static file serving.
func (rt *Router) handleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	rc, err := rt.blobs.Download(r.Context(), key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "File not found")
			return
		}
		rt.logger.Error("reading uploaded file", "key", key, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to read file.")
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}

	if _, err := io.Copy(w, rc); err != nil {
		rt.logger.Warn("streaming uploaded file", "key", key, "error", err)
	}
}
