package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"path"

	"inap/infras/otel"
	"inap/infras/s3"
	"inap/internal/domains/upload/model"
	"inap/internal/domains/upload/model/dto"
	"inap/shared"
	"inap/shared/base64"
	"inap/shared/constant"
	"inap/shared/failure"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrDeleteFiles = errors.New("failed to delete files")

type Upload interface {
	Upload(ctx context.Context, file model.File) (dto.UploadResponse, error)
	UploadBase64(ctx context.Context, req dto.UploadBase64Request) (dto.UploadResponse, error)
	Delete(ctx context.Context, req dto.DeleteRequest) (dto.DeleteResponse, error)
}

type serviceImpl struct {
	s3   s3.S3
	otel otel.Otel
}

func New(s3 s3.S3, otel otel.Otel) Upload {
	return &serviceImpl{
		s3:   s3,
		otel: otel,
	}
}

func (s *serviceImpl) Upload(ctx context.Context, file model.File) (res dto.UploadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".upload.Upload")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if len(file.Data) == 0 {
		return res, failure.BadRequestFromString("file is empty")
	}

	if len(file.Data) > model.MaxFileSize {
		return res, failure.BadRequestFromString(fmt.Sprintf("file exceeds %d MB", model.MaxFileSize>>20))
	}

	if !model.IsAllowed(file.ContentType) {
		return res, failure.BadRequestFromString("unsupported file type " + file.ContentType)
	}

	name := uuid.NewString() + base64.Extension(file.ContentType)

	url, err := s.s3.Put(ctx, path.Join(model.Directory, name), file.ContentType, file.Data)
	if err != nil {
		log.Error().Err(err).Str("file_name", file.Name).Msg("failed to store upload")

		return res, fmt.Errorf("failed to store upload: %w", err)
	}

	log.Info().Str("url", url).Str("actor", shared.Actor(ctx)).Msg("file uploaded")

	return dto.UploadResponse{URL: url, FileName: name}, nil
}

func (s *serviceImpl) UploadBase64(ctx context.Context, req dto.UploadBase64Request) (dto.UploadResponse, error) {
	file, err := req.ToModel()
	if err != nil {
		return dto.UploadResponse{}, err
	}

	return s.Upload(ctx, file)
}

// Delete removes every stored object named by the URLs. URLs outside the bucket are skipped.
func (s *serviceImpl) Delete(ctx context.Context, req dto.DeleteRequest) (res dto.DeleteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".upload.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	res.Skipped = []string{}

	var failed []error

	for _, url := range req.URLs {
		key := s.s3.KeyFromURL(url)
		if key == constant.Empty {
			log.Warn().Str("url", url).Msg("url does not point into the bucket")

			res.Skipped = append(res.Skipped, url)

			continue
		}

		if err := s.s3.Remove(ctx, key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to remove object")

			failed = append(failed, err)

			continue
		}

		res.Deleted++
	}

	if len(failed) > 0 {
		return res, fmt.Errorf("%w: %d of %d", ErrDeleteFiles, len(failed), len(req.URLs))
	}

	return res, nil
}
