package server

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/otomasikan/home72/internal/logger"
)

// maxUploadBytes caps multipart image uploads at 5 MB.
const maxUploadBytes = 5 << 20

type httpError struct {
	status  int
	message string
}

// uploadFormFile reads the "file" part of a multipart form and stores it in
// the given bucket, returning the public URL.
func (s *Server) uploadFormFile(w http.ResponseWriter, r *http.Request, bucket string) (string, *httpError) {
	if s.store == nil {
		return "", &httpError{http.StatusServiceUnavailable, "object storage is not configured"}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", &httpError{http.StatusBadRequest, "invalid multipart form or file too large"}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", &httpError{http.StatusBadRequest, "file field is required"}
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", &httpError{http.StatusBadRequest, "failed to read file"}
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") && contentType != "application/pdf" {
		return "", &httpError{http.StatusBadRequest, "only image or pdf uploads are allowed"}
	}

	url, err := s.store.Upload(r.Context(), bucket, filepath.Ext(header.Filename), data, contentType)
	if err != nil {
		logger.Log.Error().Err(err).Str("bucket", bucket).Msg("Failed to upload file")
		return "", &httpError{http.StatusInternalServerError, "failed to store file"}
	}
	return url, nil
}

// notifyAdmin forwards a message to the admin Telegram chat when the bot is
// wired up. Failures are logged only.
func (s *Server) notifyAdmin(r *http.Request, text string) {
	if s.bot == nil {
		return
	}
	s.bot.NotifyAdminDirect(r.Context(), text)
}
