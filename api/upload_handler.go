package api

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	maxUploadSize     = 10 << 20
	multipartOverhead = 1 << 20
)

type mediaUploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error)
}

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	media     mediaUploader
}

func newUploadHandler(media mediaUploader) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		media:     media,
	}
}

// uploadMedia stores one image or video from the multipart field "file" and
// returns its public URL
// @Router /api/uploads [post]
func (h uploadHandler) uploadMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+multipartOverhead)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxUploadSize))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file", "A file is required"))
			return
		}
		defer file.Close()

		if header.Size > maxUploadSize {
			h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxUploadSize))
			return
		}

		contentType, err := detectContentType(header.Header.Get("Content-Type"), file)
		if err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}
		if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
			h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(contentType))
			return
		}

		url, err := h.media.Upload(r.Context(), header.Filename, contentType, file, header.Size)
		if err != nil {
			h.responder.WriteError(w, errs.NewServiceUnreachableError("s3", "Upload failed", err))
			return
		}

		h.logger.Info().Str("url", url).Int64("size", header.Size).Msg("media uploaded")
		h.responder.WriteJSON(w, uploadResponse{URL: url})
	}
}

// detectContentType trusts a specific declared type and sniffs the first 512
// bytes otherwise. The file is rewound afterwards.
func detectContentType(declared string, file io.ReadSeeker) (string, error) {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
		return mediaType, nil
	}

	buf := make([]byte, 512)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(buf[:n]))
	return mediaType, nil
}
