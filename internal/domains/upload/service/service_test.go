package service_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"inap/infras/otel/mocks"
	s3Mocks "inap/infras/s3/mocks"
	"inap/internal/domains/upload/model"
	"inap/internal/domains/upload/model/dto"
	"inap/internal/domains/upload/service"
	"inap/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const pixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

func newService(t *testing.T) (*s3Mocks.MockS3, service.Upload) {
	t.Helper()

	storage := s3Mocks.NewMockS3(gomock.NewController(t))

	return storage, service.New(storage, mocks.NewOtel())
}

func TestUploadService_Upload(t *testing.T) {
	t.Run("stored under the rooms directory", func(t *testing.T) {
		storage, svc := newService(t)

		storage.EXPECT().Put(gomock.Any(), gomock.Any(), "image/png", []byte("png")).
			DoAndReturn(func(_ context.Context, key, _ string, _ []byte) (string, error) {
				assert.True(t, strings.HasPrefix(key, "rooms/"))
				assert.True(t, strings.HasSuffix(key, ".png"))

				return "https://cdn.example.com/" + key, nil
			})

		res, err := svc.Upload(context.Background(), model.File{Name: "a.png", ContentType: "image/png", Data: []byte("png")})

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/rooms/"+res.FileName, res.URL)
	})

	t.Run("rejects unsupported types", func(t *testing.T) {
		_, svc := newService(t)

		_, err := svc.Upload(context.Background(), model.File{ContentType: "application/pdf", Data: []byte("%PDF")})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		_, svc := newService(t)

		_, err := svc.Upload(context.Background(), model.File{ContentType: "image/png", Data: bytes.Repeat([]byte{1}, model.MaxFileSize+1)})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("storage failure", func(t *testing.T) {
		storage, svc := newService(t)

		storage.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("bucket gone"))

		_, err := svc.Upload(context.Background(), model.File{ContentType: "image/jpeg", Data: []byte("jpg")})

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestUploadService_UploadBase64(t *testing.T) {
	t.Run("decoded before storing", func(t *testing.T) {
		storage, svc := newService(t)

		storage.EXPECT().Put(gomock.Any(), gomock.Any(), "image/png", gomock.Any()).Return("https://cdn.example.com/rooms/x.png", nil)

		res, err := svc.UploadBase64(context.Background(), dto.UploadBase64Request{File: "data:image/png;base64," + pixel})

		require.NoError(t, err)
		assert.NotEmpty(t, res.FileName)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		_, svc := newService(t)

		_, err := svc.UploadBase64(context.Background(), dto.UploadBase64Request{File: "data:image/png;base64,@@"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestUploadService_Delete(t *testing.T) {
	t.Run("skips foreign urls", func(t *testing.T) {
		storage, svc := newService(t)

		storage.EXPECT().KeyFromURL("https://cdn.example.com/rooms/a.png").Return("rooms/a.png")
		storage.EXPECT().KeyFromURL("https://elsewhere.example.com/b.png").Return("")
		storage.EXPECT().Remove(gomock.Any(), "rooms/a.png").Return(nil)

		res, err := svc.Delete(context.Background(), dto.DeleteRequest{URLs: []string{
			"https://cdn.example.com/rooms/a.png",
			"https://elsewhere.example.com/b.png",
		}})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Deleted)
		assert.Equal(t, []string{"https://elsewhere.example.com/b.png"}, res.Skipped)
	})

	t.Run("reports failed removals", func(t *testing.T) {
		storage, svc := newService(t)

		storage.EXPECT().KeyFromURL(gomock.Any()).Return("rooms/a.png")
		storage.EXPECT().Remove(gomock.Any(), "rooms/a.png").Return(errors.New("denied"))

		_, err := svc.Delete(context.Background(), dto.DeleteRequest{URLs: []string{"https://cdn.example.com/rooms/a.png"}})

		assert.ErrorIs(t, err, service.ErrDeleteFiles)
	})
}
