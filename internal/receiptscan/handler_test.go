package receiptscan

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScanner struct {
	result    Result
	err       error
	image     []byte
	mediaType string
}

func (s *stubScanner) Scan(ctx context.Context, image []byte, mediaType string) (Result, error) {
	s.image = image
	s.mediaType = mediaType
	return s.result, s.err
}

func newScanRouter(scanner Scanner) http.Handler {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	handler := NewHandler(logger, scanner)
	r := chi.NewRouter()
	r.Route("/receipts", handler.MountRoutes)
	return r
}

func TestHandlerParseBase64(t *testing.T) {
	scanner := &stubScanner{result: Result{Vendor: "Corner Cafe", LineItems: []ParsedLineItem{}, TaxLines: []ParsedTaxLine{}}}
	router := newScanRouter(scanner)

	image := []byte{0xff, 0xd8, 0xff, 0xe0}
	payload, err := json.Marshal(map[string]string{
		"image_base64": base64.StdEncoding.EncodeToString(image),
		"media_type":   "image/png",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/receipts/parse/base64", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Corner Cafe", result.Vendor)
	assert.Equal(t, image, scanner.image)
	assert.Equal(t, "image/png", scanner.mediaType)
}

func TestHandlerParseUpload(t *testing.T) {
	scanner := &stubScanner{result: Result{Vendor: "Taqueria", LineItems: []ParsedLineItem{}, TaxLines: []ParsedTaxLine{}}}
	router := newScanRouter(scanner)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="receipt.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("jpegdata"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/receipts/parse", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []byte("jpegdata"), scanner.image)
	assert.Equal(t, "image/jpeg", scanner.mediaType)
}

func TestHandlerParseRejectsUnknownContentType(t *testing.T) {
	router := newScanRouter(&stubScanner{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/receipts/parse", strings.NewReader("plain text"))
	req.Header.Set("Content-Type", "text/plain")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerParseBase64RejectsMissingImage(t *testing.T) {
	router := newScanRouter(&stubScanner{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/receipts/parse/base64", strings.NewReader(`{"media_type":"image/png"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerParseSurfacesScannerFailure(t *testing.T) {
	router := newScanRouter(&stubScanner{err: errors.New("vision service down")})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/receipts/parse/base64", strings.NewReader(`{"image_base64":"aGVsbG8="}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
