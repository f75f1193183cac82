package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"inap/internal/domains/masterdata/model"
	gDto "inap/shared/dto"
	"inap/shared/failure"
)

const maxLabelLength = 100

// Request carries the display label. Room types send it as "type", amenities and
// features as "name".
type Request struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Label returns the trimmed label for kind, or a validation failure.
func (r Request) Label(kind model.Kind) (string, error) {
	label := r.Name
	if kind.LabelColumn == model.RoomType.LabelColumn {
		label = r.Type
	}

	label = strings.TrimSpace(label)

	switch {
	case label == "":
		return "", failure.BadRequestFromString(kind.LabelColumn + " is required")
	case len(label) > maxLabelLength:
		return "", failure.BadRequestFromString(fmt.Sprintf("%s must be less than or equal to %d", kind.LabelColumn, maxLabelLength))
	}

	return label, nil
}

// Response renders an item with its label under the kind's own key.
type Response struct {
	ID         string
	Label      string
	LabelField string
	gDto.Metadata
}

func (r *Response) FromModel(kind model.Kind, item model.Item) {
	r.ID = item.ID
	r.Label = item.Label
	r.LabelField = kind.LabelColumn
	r.Metadata.FromModel(item.Metadata)
}

func (r Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"id":          r.ID,
		r.LabelField:  r.Label,
		"created_at":  r.CreatedAt,
		"modified_at": r.ModifiedAt,
		"created_by":  r.CreatedBy,
		"modified_by": r.ModifiedBy,
	})
}

func FromModels(kind model.Kind, items []model.Item) []Response {
	res := make([]Response, len(items))
	for idx, item := range items {
		res[idx].FromModel(kind, item)
	}

	return res
}
