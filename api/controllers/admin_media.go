package controllers

import (
	"io"
	"net/http"

	"github.com/novalux/backend/api/responses"
	"github.com/novalux/backend/internal/media"
	pkgerrors "github.com/novalux/backend/pkg/errors"
	"github.com/novalux/backend/pkg/logger"
)

const (
	uploadFormField = "files"
	maxUploadFiles  = 10
	// Form parse ceiling; the per-file limit lives in the media service.
	maxUploadMemory = 64 << 20
)

// AdminUploadImages accepts a multipart batch of product images and pushes
// them to object storage. Per-file failures are reported in the response
// without failing the batch.
func AdminUploadImages(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		headers := r.MultipartForm.File[uploadFormField]
		if len(headers) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no files provided"))
			return
		}
		if len(headers) > maxUploadFiles {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "too many files"))
			return
		}

		uploads := make([]media.Upload, 0, len(headers))
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload"))
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload"))
				return
			}
			uploads = append(uploads, media.Upload{
				Filename: header.Filename,
				Data:     data,
			})
		}

		result, err := svc.UploadImages(r.Context(), uploads)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
