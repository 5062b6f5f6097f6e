package uploads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tradecareers_backend/internal/storage"
	"tradecareers_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type fakeStore struct {
	maxSize    int64
	lastBucket string
	lastFolder string
}

func (f *fakeStore) GenerateUploadURL(_ context.Context, bucket, folder, fileName, contentType string, sizeBytes int64) (*storage.PresignedURL, error) {
	if err := f.ValidateFileSize(sizeBytes); err != nil {
		return nil, err
	}
	f.lastBucket = bucket
	f.lastFolder = folder
	return &storage.PresignedURL{
		URL:       "https://minio.example/" + bucket + "/" + folder + "/" + fileName,
		FileKey:   folder + "/" + fileName,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func (f *fakeStore) GenerateDownloadURL(context.Context, string, string) (*storage.PresignedURL, error) {
	return nil, nil
}
func (f *fakeStore) DownloadFile(context.Context, string, string) (io.ReadCloser, error) {
	return nil, nil
}
func (f *fakeStore) DeleteObject(context.Context, string, string) error { return nil }
func (f *fakeStore) EnsureBucketExists(context.Context, string) error   { return nil }
func (f *fakeStore) GetMaxFileSize() int64                              { return f.maxSize }

func (f *fakeStore) ValidateImageContentType(contentType string) error {
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("content type %q is not an allowed image format", contentType)
	}
	return nil
}

func (f *fakeStore) ValidateDocumentContentType(contentType string) error {
	if contentType != "application/pdf" {
		return fmt.Errorf("content type %q is not an allowed document format", contentType)
	}
	return nil
}

func (f *fakeStore) ValidateFileSize(sizeBytes int64) error {
	if sizeBytes > f.maxSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of %d bytes", sizeBytes, f.maxSize)
	}
	return nil
}

func newTestRouter(store *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, logger.New("test"))
	engine := gin.New()
	engine.POST("/uploads/company-logo", h.PresignCompanyLogo("company-logos"))
	engine.POST("/uploads/resume", h.PresignResume("resumes"))
	return engine
}

func TestPresignCompanyLogo(t *testing.T) {
	store := &fakeStore{maxSize: 5 << 20}
	engine := newTestRouter(store)

	body := `{"fileName":"logo.png","contentType":"image/png","sizeBytes":1024}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/uploads/company-logo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if store.lastBucket != "company-logos" {
		t.Fatalf("bucket = %q", store.lastBucket)
	}
	if store.lastFolder != "logos" {
		t.Fatalf("folder = %q", store.lastFolder)
	}
}

func TestPresignRejectsNonImageLogo(t *testing.T) {
	engine := newTestRouter(&fakeStore{maxSize: 5 << 20})

	body := `{"fileName":"logo.exe","contentType":"application/octet-stream","sizeBytes":1024}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/uploads/company-logo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPresignRejectsOversizedFile(t *testing.T) {
	engine := newTestRouter(&fakeStore{maxSize: 1024})

	body := `{"fileName":"resume.pdf","contentType":"application/pdf","sizeBytes":2048}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/uploads/resume", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPresignResumeAcceptsPDFOnly(t *testing.T) {
	engine := newTestRouter(&fakeStore{maxSize: 5 << 20})

	body := `{"fileName":"resume.png","contentType":"image/png","sizeBytes":1024}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/uploads/resume", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", rec.Code)
	}
}
