package controllers

import (
	"io"
	"net/http"

	"github.com/matthurstrsa-droid/fastelavn/api/responses"
	"github.com/matthurstrsa-droid/fastelavn/internal/submissions"
	pkgerrors "github.com/matthurstrsa-droid/fastelavn/pkg/errors"
	"github.com/matthurstrsa-droid/fastelavn/pkg/logger"
)

const maxPhotoBytes = 10 << 20

// PhotosUpload accepts a multipart image and returns its hosted URL
// for attaching to a later rating or listing submission.
func PhotosUpload(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}

		if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, _, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image file is required"))
			return
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read image"))
			return
		}
		if len(data) > maxPhotoBytes {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "image exceeds upload limit"))
			return
		}

		url, err := svc.UploadPhoto(ctx, data)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"url": url})
	}
}
