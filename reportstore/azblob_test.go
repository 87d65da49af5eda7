package reportstore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Well-known Azurite development key.
const devAccountKey = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="

// fakeBlobService implements just enough of the blob REST API for
// single-shot uploads, downloads and deletes.
type fakeBlobService struct {
	mu    sync.Mutex
	blobs map[string][]byte
	types map[string]string
}

func (f *fakeBlobService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.blobs[r.URL.Path] = body
		f.types[r.URL.Path] = r.Header.Get("x-ms-blob-content-type")
		w.WriteHeader(http.StatusCreated)
	case http.MethodGet:
		data, ok := f.blobs[r.URL.Path]
		if !ok {
			notFound(w)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	case http.MethodDelete:
		if _, ok := f.blobs[r.URL.Path]; !ok {
			notFound(w)
			return
		}
		delete(f.blobs, r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("x-ms-error-code", "BlobNotFound")
	w.WriteHeader(http.StatusNotFound)
}

func newFakeAzure(t *testing.T) (*AzureBlob, *fakeBlobService) {
	t.Helper()
	fake := &fakeBlobService{blobs: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	conn := "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=" + devAccountKey +
		";BlobEndpoint=" + srv.URL + "/devstoreaccount1;"
	s, err := NewAzureBlob(Config{Backend: "azblob", Container: "reports", ConnectionString: conn})
	if err != nil {
		t.Fatalf("new azure blob: %v", err)
	}
	return s, fake
}

func TestAzureBlobPutGetDelete(t *testing.T) {
	s, fake := newFakeAzure(t)
	ctx := context.Background()

	if err := s.Put(ctx, "r1.pdf", []byte("%PDF data")); err != nil {
		t.Fatalf("put: %v", err)
	}
	const path = "/devstoreaccount1/reports/r1.pdf"
	if got := fake.types[path]; got != pdfContentType {
		t.Errorf("content type: got %q, want %q", got, pdfContentType)
	}

	got, err := s.Get(ctx, "r1.pdf")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "%PDF data" {
		t.Errorf("get: got %q", got)
	}

	if err := s.Delete(ctx, "r1.pdf"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "r1.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "r1.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing: expected ErrNotFound, got %v", err)
	}
}

func TestAzureBlobRejectsInvalidKey(t *testing.T) {
	s, _ := newFakeAzure(t)
	if err := s.Put(context.Background(), "../x", []byte("x")); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestNewAzureBlobRequiresAuth(t *testing.T) {
	if _, err := NewAzureBlob(Config{Container: "reports"}); err == nil {
		t.Error("expected error without connection string or account URL")
	}
}
