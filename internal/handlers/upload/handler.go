package upload

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"inap/infras/otel"
	"inap/internal/domains/upload/model"
	"inap/internal/domains/upload/model/dto"
	"inap/internal/domains/upload/service"
	"inap/shared"
	"inap/shared/constant"
	"inap/shared/failure"
	"inap/shared/validator"
	"inap/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Upload
	otel    otel.Otel
}

func New(service service.Upload, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/uploads", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.UploadFile)
		routerGroup.Delete("/", handler.DeleteFiles)
	})
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get(constant.RequestHeaderContentType))

	return err == nil && mediaType == constant.ContentTypeMultipartFormData
}

func readMultipart(r *http.Request) (model.File, error) {
	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return model.File{}, failure.BadRequest(fmt.Errorf("failed to parse multipart form: %w", err))
	}

	file, header, err := r.FormFile(constant.FormFile)
	if err != nil {
		return model.File{}, failure.BadRequest(fmt.Errorf("form field %q: %w", constant.FormFile, err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, model.MaxFileSize+1))
	if err != nil {
		return model.File{}, fmt.Errorf("failed to read upload: %w", err)
	}

	contentType := header.Header.Get(constant.RequestHeaderContentType)
	if contentType == constant.Empty || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return model.File{
		Name:        header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// UploadFile stores an image and returns its public URL.
// @Summary Upload an image
// @Description Accepts a multipart "file" field or a JSON body holding a base64 data URL.
// @Tags Upload
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param file formData file false "Image file"
// @Param request body dto.UploadBase64Request false "Base64 data URL"
// @Success 201 {object} response.Data[dto.UploadResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/uploads [post]
func (handler *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadFile")
	defer scope.End()

	var (
		res dto.UploadResponse
		err error
	)

	if isMultipart(r) {
		var file model.File

		file, err = readMultipart(r)
		if err == nil {
			res, err = handler.service.Upload(ctx, file)
		}
	} else {
		var req dto.UploadBase64Request

		err = validator.Validate(r.Body, &req)
		if err == nil {
			res, err = handler.service.UploadBase64(ctx, req)
		}
	}

	if err != nil {
		response.WithTracedError(w, scope, err, "failed to upload file")

		return
	}

	scope.AddEvent("File uploaded by user " + shared.Actor(ctx))

	response.WithJSON(w, http.StatusCreated, res)
}

// DeleteFiles removes stored images by their public URLs.
// @Summary Delete uploaded images
// @Tags Upload
// @Accept json
// @Produce json
// @Param request body dto.DeleteRequest true "Image URLs"
// @Success 200 {object} response.Data[dto.DeleteResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/uploads [delete]
func (handler *Handler) DeleteFiles(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteFiles")
	defer scope.End()

	var req dto.DeleteRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Delete(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int("urls", len(req.URLs)).Msg("failed to delete files")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
