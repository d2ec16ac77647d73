// Copyright (c) 2026 Ladle. All rights reserved.
// Author: dev@ladle.kitchen

package photo

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ladle-kitchen/ladle/internal/platform/apperr"
	"github.com/ladle-kitchen/ladle/internal/platform/respond"
)

// Handler implements photo HTTP endpoints.
type Handler struct {
	photoService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{photoService: service}
}

// Routes returns a [chi.Router] configured with photo routes.
//
// # Endpoints
//   - GET  / : Lists all photos with fresh presigned URLs.
//   - POST / : Uploads a multipart image (form field "photo").
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.upload)

	return router
}

// list handles GET /api/photos requests.
func (handler *Handler) list(writer http.ResponseWriter, req *http.Request) {
	views, err := handler.photoService.List(req.Context())
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, views)
}

// upload handles POST /api/photos requests.
//
// # Returns
//   - Writes HTTP 200 OK with {id, photo_url} on success.
//   - Writes HTTP 400 Bad Request for a missing part, unsupported content
//     type, or a body over the size cap.
func (handler *Handler) upload(writer http.ResponseWriter, req *http.Request) {
	// Reject oversized bodies before buffering the whole part. The small
	// slack covers multipart framing overhead around the image itself.
	req.Body = http.MaxBytesReader(writer, req.Body, MaxImageSizeBytes+64*1024)

	file, header, err := req.FormFile("photo")
	if err != nil {
		respond.Error(writer, req, apperr.ValidationError("Missing photo upload field"))
		return
	}
	defer file.Close()

	view, err := handler.photoService.Upload(req.Context(), UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, view)
}
