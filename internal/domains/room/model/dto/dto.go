package dto

import (
	"strings"
	"time"
	"unicode"

	"inap/internal/domains/room/model"
	"inap/shared"
	gDto "inap/shared/dto"
	gModel "inap/shared/model"
	"inap/shared/timezone"

	"github.com/google/uuid"
)

type ImageRequest struct {
	ImageURL  string `json:"imageUrl"  validate:"required,url,max=500"`
	IsPrimary bool   `json:"isPrimary"`
}

// UpdateRoomRequest is a full replacement of a room: every field must be present.
type UpdateRoomRequest struct {
	Name             *string        `json:"name"             validate:"required,min=1,max=100"`
	Description      *string        `json:"description"      validate:"required"`
	ShortDescription *string        `json:"shortDescription" validate:"required,max=255"`
	BasePrice        *int64         `json:"basePrice"        validate:"required,min=0"`
	MaxGuests        *int           `json:"maxGuests"        validate:"required,min=1"`
	SizeSqm          *float64       `json:"size_sqm"         validate:"required,min=0"`
	RoomTypeID       *string        `json:"roomTypeId"       validate:"required,min=1"`
	Amenities        []string       `json:"amenities"        validate:"required,dive,required"`
	Features         []string       `json:"features"         validate:"required,dive,required"`
	Images           []ImageRequest `json:"images"           validate:"required,dive"`
}

func (u *UpdateRoomRequest) ToModel(id, user string) model.Room {
	return model.Room{
		ID:               id,
		Name:             *u.Name,
		Description:      *u.Description,
		ShortDescription: *u.ShortDescription,
		BasePrice:        *u.BasePrice,
		MaxGuests:        *u.MaxGuests,
		SizeSqm:          *u.SizeSqm,
		RoomTypeID:       *u.RoomTypeID,
		Metadata: gModel.Metadata{
			ModifiedAt: timezone.Now(),
			ModifiedBy: user,
		},
	}
}

func (u *UpdateRoomRequest) ToLinks() model.Links {
	return toLinks(u.Amenities, u.Features, u.Images)
}

type CreateRoomRequest struct {
	UpdateRoomRequest
	Slug   string `json:"slug"   validate:"omitempty,max=120,slug"`
	Status string `json:"status" validate:"omitempty,oneof=available unavailable maintenance"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	room := c.UpdateRoomRequest.ToModel(uuid.NewString(), user)

	room.Slug = c.Slug
	if room.Slug == "" {
		room.Slug = Slugify(room.Name)
	}

	if room.Slug == "" {
		room.Slug = room.ID
	}

	room.Status = c.Status
	if room.Status == "" {
		room.Status = model.StatusAvailable
	}

	room.CreatedAt = room.ModifiedAt
	room.CreatedBy = user

	return room
}

type UpdateRoomStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available unavailable maintenance"`
}

type CreateRoomResponse struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

type GalleryImage struct {
	ImageURL  string `json:"imageUrl"`
	IsPrimary bool   `json:"isPrimary"`
}

type RoomResponse struct {
	ID               string         `json:"id"`
	Slug             string         `json:"slug"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	ShortDescription string         `json:"shortDescription"`
	Price            int64          `json:"price"`
	MaxGuests        int            `json:"maxGuests"`
	Size             float64        `json:"size"`
	Available        bool           `json:"available"`
	Status           string         `json:"status"`
	Type             string         `json:"type"`
	RoomTypeID       string         `json:"roomTypeId"`
	Images           []string       `json:"images"`
	Gallery          []GalleryImage `json:"gallery"`
	Amenities        []string       `json:"amenities"`
	AmenityIDs       []string       `json:"amenityIds"`
	Features         []string       `json:"features"`
	FeatureIDs       []string       `json:"featureIds"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(agg model.Aggregate) {
	r.ID = agg.ID
	r.Slug = agg.Slug
	r.Name = agg.Name
	r.Description = agg.Description
	r.ShortDescription = agg.ShortDescription
	r.Price = agg.BasePrice
	r.MaxGuests = agg.MaxGuests
	r.Size = agg.SizeSqm
	r.Available = agg.Available()
	r.Status = agg.Status
	r.Type = agg.Type
	r.RoomTypeID = agg.RoomTypeID
	r.Images = nonNil(agg.Images)
	r.Amenities = nonNil(agg.Amenities)
	r.AmenityIDs = nonNil(agg.AmenityIDs)
	r.Features = nonNil(agg.Features)
	r.FeatureIDs = nonNil(agg.FeatureIDs)

	r.Gallery = make([]GalleryImage, len(r.Images))
	for idx, url := range r.Images {
		r.Gallery[idx] = GalleryImage{ImageURL: url}
		if idx < len(agg.ImagesPrimary) {
			r.Gallery[idx].IsPrimary = agg.ImagesPrimary[idx]
		}
	}

	r.Metadata.FromModel(agg.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (g *GetRoomsResponse) FromModels(aggs []model.Aggregate, total, limit int) {
	g.Rooms = make([]RoomResponse, len(aggs))
	for idx, agg := range aggs {
		g.Rooms[idx].FromModel(agg)
	}

	g.TotalData = total
	g.TotalPage = shared.CalculateTotalPage(total, limit)
}

// Slugify lowercases name and joins its alphanumeric runs with "-".
func Slugify(name string) string {
	var builder strings.Builder

	pendingDash := false

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && builder.Len() > 0 {
				builder.WriteByte('-')
			}

			builder.WriteRune(r)

			pendingDash = false

			continue
		}

		pendingDash = true
	}

	return builder.String()
}

func toLinks(amenities, features []string, images []ImageRequest) model.Links {
	links := model.Links{
		AmenityIDs: append([]string{}, amenities...),
		FeatureIDs: append([]string{}, features...),
		Images:     make([]model.ImageInput, len(images)),
	}

	for idx, img := range images {
		links.Images[idx] = model.ImageInput{URL: img.ImageURL, IsPrimary: img.IsPrimary}
	}

	return links
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}

// RoomEvent is published after a room write commits.
type RoomEvent struct {
	Event      string    `json:"event"`
	RoomID     string    `json:"room_id"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}
