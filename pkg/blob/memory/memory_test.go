package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/cognicase/cognicase/pkg/blob"
)

func TestUploadDownload(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.Upload(ctx, "123-brief.pdf", strings.NewReader("file contents"), 13, "application/pdf")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	rc, err := s.Download(ctx, "123-brief.pdf")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading object: %v", err)
	}
	if string(data) != "file contents" {
		t.Errorf("got %q, want %q", data, "file contents")
	}
}

func TestDownloadMissing(t *testing.T) {
	s := New()
	_, err := s.Download(context.Background(), "nope")
	if !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("got %v, want blob.ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Upload(ctx, "key", strings.NewReader("x"), 1, ""); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := s.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Download(ctx, "key"); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("object still present after delete")
	}

	// Deleting a missing key is not an error.
	if err := s.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestOverwrite(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Upload(ctx, "key", strings.NewReader("one"), 3, "")
	s.Upload(ctx, "key", strings.NewReader("two"), 3, "")

	rc, err := s.Download(ctx, "key")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "two" {
		t.Errorf("got %q, want latest upload", data)
	}
}
