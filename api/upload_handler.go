package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/services"
)

const maxUploadBytes = 20 << 20

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	storage   services.Storage
}

func newUploadHandler(storage services.Storage) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()
	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		storage:   storage,
	}
}

// upload pushes a multipart file to the storage backend and returns the
// resulting URL and public id. Callers attach those references to project
// offers and deliverables.
func (h uploadHandler) upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid multipart body"))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewValidationError("file", "is required"))
			return
		}
		defer file.Close()

		folder := r.FormValue("folder")
		if folder == "" {
			folder = "attachments"
		}

		tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to buffer upload", err))
			return
		}
		defer os.Remove(tmp.Name())

		if _, err := io.Copy(tmp, file); err != nil {
			tmp.Close()
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to buffer upload", err))
			return
		}
		if err := tmp.Close(); err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to buffer upload", err))
			return
		}

		stored, err := h.storage.Upload(tmp.Name(), folder)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, stored)
	}
}
