package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	miniolib "github.com/minio/minio-go/v7"

	"github.com/cognicase/cognicase/pkg/blob"
)

// fakeAPI is an in-memory minioAPI for testing without a server. It
// mirrors the real client's laziness: GetObject never fails at call
// time, a missing key only errors on the first Read.
type fakeAPI struct {
	buckets     map[string]bool
	objects     map[string][]byte
	statErr     error
	madeBuckets []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		buckets: make(map[string]bool),
		objects: make(map[string][]byte),
	}
}

func (f *fakeAPI) BucketExists(_ context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], nil
}

func (f *fakeAPI) MakeBucket(_ context.Context, bucket string, _ miniolib.MakeBucketOptions) error {
	f.buckets[bucket] = true
	f.madeBuckets = append(f.madeBuckets, bucket)
	return nil
}

func (f *fakeAPI) PutObject(_ context.Context, bucket, key string, r io.Reader, _ int64, _ miniolib.PutObjectOptions) (miniolib.UploadInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return miniolib.UploadInfo{}, err
	}
	f.objects[bucket+"/"+key] = data
	return miniolib.UploadInfo{Bucket: bucket, Key: key}, nil
}

func (f *fakeAPI) StatObject(_ context.Context, bucket, key string, _ miniolib.StatObjectOptions) (miniolib.ObjectInfo, error) {
	if f.statErr != nil {
		return miniolib.ObjectInfo{}, f.statErr
	}
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return miniolib.ObjectInfo{}, miniolib.ErrorResponse{Code: "NoSuchKey"}
	}
	return miniolib.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (f *fakeAPI) GetObject(_ context.Context, bucket, key string, _ miniolib.GetObjectOptions) (io.ReadCloser, error) {
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return &lazyErrObject{err: miniolib.ErrorResponse{Code: "NoSuchKey"}}, nil
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeAPI) RemoveObject(_ context.Context, bucket, key string, _ miniolib.RemoveObjectOptions) error {
	delete(f.objects, bucket+"/"+key)
	return nil
}

// lazyErrObject fails on the first Read, like a *minio.Object for a key
// that does not exist.
type lazyErrObject struct{ err error }

func (o *lazyErrObject) Read([]byte) (int, error) { return 0, o.err }

func (o *lazyErrObject) Close() error { return nil }

func TestNewCreatesMissingBucket(t *testing.T) {
	api := newFakeAPI()

	_, err := NewWithAPI(context.Background(), api, "uploads")
	if err != nil {
		t.Fatalf("NewWithAPI: %v", err)
	}
	if len(api.madeBuckets) != 1 || api.madeBuckets[0] != "uploads" {
		t.Errorf("made buckets = %v, want [uploads]", api.madeBuckets)
	}
}

func TestNewSkipsExistingBucket(t *testing.T) {
	api := newFakeAPI()
	api.buckets["uploads"] = true

	_, err := NewWithAPI(context.Background(), api, "uploads")
	if err != nil {
		t.Fatalf("NewWithAPI: %v", err)
	}
	if len(api.madeBuckets) != 0 {
		t.Errorf("bucket recreated: %v", api.madeBuckets)
	}
}

func TestUploadDownloadDelete(t *testing.T) {
	api := newFakeAPI()
	ctx := context.Background()
	s, err := NewWithAPI(ctx, api, "uploads")
	if err != nil {
		t.Fatalf("NewWithAPI: %v", err)
	}

	if err := s.Upload(ctx, "123-brief.pdf", strings.NewReader("contents"), 8, "application/pdf"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	rc, err := s.Download(ctx, "123-brief.pdf")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "contents" {
		t.Errorf("got %q, want %q", data, "contents")
	}

	if err := s.Delete(ctx, "123-brief.pdf"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Download(ctx, "123-brief.pdf"); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("got %v after delete, want blob.ErrNotFound", err)
	}
}

func TestDownloadMissingMapsNotFound(t *testing.T) {
	api := newFakeAPI()
	ctx := context.Background()
	s, err := NewWithAPI(ctx, api, "uploads")
	if err != nil {
		t.Fatalf("NewWithAPI: %v", err)
	}

	if _, err := s.Download(ctx, "nope"); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("got %v, want blob.ErrNotFound", err)
	}
}

func TestDownloadOtherErrorsPassThrough(t *testing.T) {
	api := newFakeAPI()
	ctx := context.Background()
	s, err := NewWithAPI(ctx, api, "uploads")
	if err != nil {
		t.Fatalf("NewWithAPI: %v", err)
	}

	api.statErr = miniolib.ErrorResponse{Code: "AccessDenied"}
	if _, err := s.Download(ctx, "key"); err == nil || errors.Is(err, blob.ErrNotFound) {
		t.Errorf("got %v, want a non-NotFound error", err)
	}
}

func TestDownloadMissingNeverReturnsEmptyReader(t *testing.T) {
	api := newFakeAPI()
	ctx := context.Background()
	s, err := NewWithAPI(ctx, api, "uploads")
	if err != nil {
		t.Fatalf("NewWithAPI: %v", err)
	}

	// The underlying client hands back a reader even for missing keys
	// and only fails on the first Read. The store must not pass that
	// reader through as a successful download.
	obj, _ := api.GetObject(ctx, "uploads", "missing", miniolib.GetObjectOptions{})
	if _, readErr := io.ReadAll(obj); readErr == nil {
		t.Fatal("fake GetObject returned readable data for a missing key")
	}

	rc, err := s.Download(ctx, "missing")
	if !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("Download error = %v, want blob.ErrNotFound", err)
	}
	if rc != nil {
		t.Error("Download returned a reader for a missing key")
	}
}
