package dto

import (
	"inap/internal/domains/upload/model"
	"inap/shared/base64"
	"inap/shared/failure"
)

type UploadBase64Request struct {
	File     string `json:"file"     validate:"required,mimetypes=image/jpeg image/jpg image/png image/webp,maxfilesize=7"`
	FileName string `json:"fileName" validate:"omitempty,max=255"`
}

func (r UploadBase64Request) ToModel() (model.File, error) {
	contentType, data, err := base64.Decode(r.File)
	if err != nil {
		return model.File{}, failure.BadRequest(err)
	}

	return model.File{
		Name:        r.FileName,
		ContentType: contentType,
		Data:        data,
	}, nil
}

type UploadResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

type DeleteRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,dive,url"`
}

type DeleteResponse struct {
	Deleted int      `json:"deleted"`
	Skipped []string `json:"skipped"`
}
