package transport

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/cognicase/cognicase/pkg/api"
)

// uploadDocument posts a multipart form, optionally with a file part.
func uploadDocument(t *testing.T, env *testEnv, token string, fields map[string]string, filename, contentType, contents string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("writing field %s: %v", k, err)
		}
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("creating file part: %v", err)
		}
		if _, err := part.Write([]byte(contents)); err != nil {
			t.Fatalf("writing file part: %v", err)
		}
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func TestUploadDocumentWithFile(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "jane@firm.test")
	c := createCase(t, env, token, map[string]any{"title": "Smith v. Jones"})

	rec := uploadDocument(t, env, token,
		map[string]string{"caseId": c.ID, "category": "Pleadings"},
		"motion.pdf", "application/pdf", "pdf bytes here")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var d api.Document
	decodeBody(t, rec, &d)

	if d.Name != "motion.pdf" {
		t.Errorf("name = %q, want filename fallback", d.Name)
	}
	if d.FileType != "PDF" {
		t.Errorf("fileType = %q, want PDF", d.FileType)
	}
	if !strings.HasSuffix(d.FileSize, " KB") {
		t.Errorf("fileSize = %q, want KB suffix", d.FileSize)
	}
	if !strings.HasPrefix(d.FileURL, "/uploads/") || !strings.HasSuffix(d.FileURL, "-motion.pdf") {
		t.Errorf("fileUrl = %q", d.FileURL)
	}
	if d.Category != "Pleadings" {
		t.Errorf("category = %q", d.Category)
	}
	if d.UploadedBy != "jane" {
		t.Errorf("uploadedBy = %q, want account name", d.UploadedBy)
	}

	// The stored file is served back under its key.
	req := httptest.NewRequest(http.MethodGet, d.FileURL, nil)
	dl := httptest.NewRecorder()
	env.handler.ServeHTTP(dl, req)
	if dl.Code != http.StatusOK {
		t.Fatalf("download status = %d", dl.Code)
	}
	if ct := dl.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("download content-type = %q", ct)
	}
	data, _ := io.ReadAll(dl.Body)
	if string(data) != "pdf bytes here" {
		t.Errorf("download body = %q", data)
	}

	// DOCUMENT_ADDED is recorded against the case.
	ar := env.do(t, http.MethodGet, "/api/activities?caseId="+c.ID, token, nil)
	var activities []api.Activity
	decodeBody(t, ar, &activities)
	var found bool
	for _, a := range activities {
		if a.Type == api.ActivityDocumentAdded {
			found = true
			if a.Message != `Document uploaded: "motion.pdf"` {
				t.Errorf("message = %q", a.Message)
			}
		}
	}
	if !found {
		t.Error("no DOCUMENT_ADDED activity recorded")
	}
}

func TestUploadDocumentMetadataOnly(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "jane@firm.test")

	rec := uploadDocument(t, env, token,
		map[string]string{"name": "External exhibit"}, "", "", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var d api.Document
	decodeBody(t, rec, &d)
	if d.FileType != "PDF" || d.FileSize != "N/A" || d.FileURL != "#" {
		t.Errorf("fallback file fields wrong: %+v", d)
	}
	if d.Category != "Other" {
		t.Errorf("category = %q, want Other", d.Category)
	}
}

func TestUploadDocumentRequiresNameOrFile(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "jane@firm.test")

	rec := uploadDocument(t, env, token, map[string]string{"category": "Other"}, "", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["message"] != "Document name or file is required." {
		t.Errorf("message = %q", body["message"])
	}
}

func TestUploadDocumentIgnoresPlaceholderCaseID(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "jane@firm.test")

	for _, placeholder := range []string{"undefined", "null", "  "} {
		rec := uploadDocument(t, env, token,
			map[string]string{"name": "Doc", "caseId": placeholder}, "", "", "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d for caseId %q", rec.Code, placeholder)
		}
		var d api.Document
		decodeBody(t, rec, &d)
		if d.CaseID != "" {
			t.Errorf("caseId %q linked the document: %q", placeholder, d.CaseID)
		}
	}
}

func TestListDocumentsSearch(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "jane@firm.test")

	uploadDocument(t, env, token, map[string]string{"name": "Settlement Agreement"}, "", "", "")
	uploadDocument(t, env, token, map[string]string{"name": "Deposition transcript"}, "", "", "")

	rec := env.do(t, http.MethodGet, "/api/documents?search=settlement", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var docs []api.Document
	decodeBody(t, rec, &docs)
	if len(docs) != 1 || docs[0].Name != "Settlement Agreement" {
		t.Errorf("search returned %+v", docs)
	}
}

func TestDeleteDocumentRemovesBlob(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "jane@firm.test")

	rec := uploadDocument(t, env, token, nil, "exhibit.pdf", "application/pdf", "bytes")
	var d api.Document
	decodeBody(t, rec, &d)

	rec = env.do(t, http.MethodDelete, "/api/documents/"+d.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["message"] != "Document deleted" {
		t.Errorf("message = %q", body["message"])
	}

	// The blob is gone with the metadata.
	req := httptest.NewRequest(http.MethodGet, d.FileURL, nil)
	dl := httptest.NewRecorder()
	env.handler.ServeHTTP(dl, req)
	if dl.Code != http.StatusNotFound {
		t.Errorf("download after delete = %d, want 404", dl.Code)
	}
}

func TestDownloadMissingFile(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/uploads/no-such-key.pdf", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["message"] != "File not found" {
		t.Errorf("message = %q", body["message"])
	}
}
