package transport

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/auth"
	"github.com/cognicase/cognicase/pkg/storage"
)

// maxUploadSize bounds the in-memory portion of multipart parsing.
const maxUploadSize = 32 << 20 // 32 MB

func (rt *Router) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	docs, err := rt.store.ListDocuments(r.Context(), storage.DocumentFilter{
		CaseID: q.Get("caseId"),
		Search: q.Get("search"),
	})
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, emptyAsList(docs))
}

// handleCreateDocument accepts a multipart form with an optional "file"
// part plus metadata fields. When a file is present it is stored in
// blob storage and the document's fileType, fileSize, and fileUrl are
// derived from it; otherwise the form-supplied values are used.
func (rt *Router) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid multipart form.")
		return
	}

	name := r.FormValue("name")
	file, header, fileErr := r.FormFile("file")
	hasFile := fileErr == nil
	if hasFile {
		defer file.Close()
	}

	if name == "" && !hasFile {
		writeMessage(w, http.StatusBadRequest, "Document name or file is required.")
		return
	}
	if name == "" {
		name = header.Filename
	}
	if name == "" {
		name = "Untitled Document"
	}

	category := r.FormValue("category")
	if category == "" {
		category = "Other"
	}

	now := rt.nowTime()
	d := &api.Document{
		ID:          api.NewID(),
		Name:        name,
		Category:    category,
		Description: r.FormValue("description"),
		UploadedBy:  uploaderName(r),
		CreatedBy:   storage.GetOwner(r.Context()),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Only link a case when the field carries a real identifier. The
	// frontend sends literal "undefined"/"null" for unlinked uploads.
	caseID := strings.TrimSpace(r.FormValue("caseId"))
	if caseID != "" && caseID != "undefined" && caseID != "null" {
		d.CaseID = caseID
	}

	if hasFile {
		contentType := header.Header.Get("Content-Type")
		key := fmt.Sprintf("%d-%s", now.UnixMilli(), filepath.Base(header.Filename))

		if err := rt.blobs.Upload(r.Context(), key, file, header.Size, contentType); err != nil {
			rt.logger.Error("storing uploaded file", "key", key, "error", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to store uploaded file.")
			return
		}

		d.FileType = fileTypeFromMIME(contentType)
		d.FileSize = fmt.Sprintf("%.1f KB", float64(header.Size)/1024)
		d.FileURL = "/uploads/" + key
	} else {
		d.FileType = formValueOr(r, "fileType", "PDF")
		d.FileSize = formValueOr(r, "fileSize", "N/A")
		d.FileURL = "#"
	}

	if err := rt.store.CreateDocument(r.Context(), d); err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	if d.CaseID != "" {
		rt.recordActivity(r.Context(), d.CaseID, api.ActivityDocumentAdded,
			fmt.Sprintf("Document uploaded: %q", d.Name))
	}

	writeJSON(w, http.StatusCreated, d)
}

func (rt *Router) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	d, err := rt.store.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "Document not found")
		return
	}

	if err := rt.store.DeleteDocument(r.Context(), d.ID); err != nil {
		writeStoreError(w, err, "Document not found")
		return
	}

	// Metadata is gone; removing the blob is best-effort.
	if key, ok := strings.CutPrefix(d.FileURL, "/uploads/"); ok && key != "" {
		if err := rt.blobs.Delete(r.Context(), key); err != nil {
			rt.logger.Warn("deleting uploaded file", "key", key, "error", err)
		}
	}

	writeMessage(w, http.StatusOK, "Document deleted")
}

// fileTypeFromMIME derives the display file type from a MIME type:
// "application/pdf" -> "PDF".
func fileTypeFromMIME(contentType string) string {
	if _, subtype, ok := strings.Cut(contentType, "/"); ok && subtype != "" {
		return strings.ToUpper(subtype)
	}
	return "PDF"
}

// uploaderName resolves the display name recorded on the document.
func uploaderName(r *http.Request) string {
	u := auth.IdentityFromContext(r.Context())
	switch {
	case u == nil:
		return "Unknown"
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	}
	return "Unknown"
}

func formValueOr(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}
