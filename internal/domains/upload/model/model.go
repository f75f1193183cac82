package model

import "slices"

const (
	EntityName = "upload"

	// Directory is the key prefix of every uploaded object.
	Directory = "rooms"

	MaxFileSize = 5 << 20
)

var AllowedContentTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

// File is an uploaded payload before it reaches storage.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func IsAllowed(contentType string) bool {
	return slices.Contains(AllowedContentTypes, contentType)
}
