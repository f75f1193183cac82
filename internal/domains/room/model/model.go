package model

import (
	"inap/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	TableRoomAmenities = "room_amenities"
	TableRoomFeatures  = "room_features"
	TableRoomImages    = "room_images"
	TableRoomTypes     = "room_types"
	TableAmenities     = "amenities"
	TableFeatures      = "features"

	EntityRoomImage = "room_image"

	FieldID               = "id"
	FieldSlug             = "slug"
	FieldName             = "name"
	FieldDescription      = "description"
	FieldShortDescription = "short_description"
	FieldBasePrice        = "base_price"
	FieldMaxGuests        = "max_guests"
	FieldSizeSqm          = "size_sqm"
	FieldStatus           = "status"
	FieldRoomTypeID       = "room_type_id"
	FieldRoomID           = "room_id"
	FieldAmenityID        = "amenity_id"
	FieldFeatureID        = "feature_id"
	FieldCreatedAt        = "created_at"
)

const (
	StatusAvailable   = "available"
	StatusUnavailable = "unavailable"
	StatusMaintenance = "maintenance"
)

type Room struct {
	ID               string  `db:"id"`
	Slug             string  `db:"slug"`
	Name             string  `db:"name"`
	Description      string  `db:"description"`
	ShortDescription string  `db:"short_description"`
	BasePrice        int64   `db:"base_price"`
	MaxGuests        int     `db:"max_guests"`
	SizeSqm          float64 `db:"size_sqm"`
	Status           string  `db:"status"`
	RoomTypeID       string  `db:"room_type_id"`
	model.Metadata
}

// Available reports whether the room can be booked.
func (r Room) Available() bool {
	return r.Status == StatusAvailable
}

type Image struct {
	ID        string `db:"id"`
	RoomID    string `db:"room_id"`
	ImageURL  string `db:"image_url"`
	IsPrimary bool   `db:"is_primary"`
	Position  int    `db:"position"`
}

type ImageInput struct {
	URL       string
	IsPrimary bool
}

// Links is the full replacement set of a room's associations.
type Links struct {
	AmenityIDs []string
	FeatureIDs []string
	Images     []ImageInput
}

// Aggregate is a room together with its type label and its dependent collections,
// read in a single statement.
type Aggregate struct {
	Room
	Type          string         `db:"type"`
	Images        pq.StringArray `db:"images"`
	ImagesPrimary pq.BoolArray   `db:"images_primary"`
	Amenities     pq.StringArray `db:"amenities"`
	AmenityIDs    pq.StringArray `db:"amenity_ids"`
	Features      pq.StringArray `db:"features"`
	FeatureIDs    pq.StringArray `db:"feature_ids"`
}

// LinkOutcome tags the result of inserting one association row.
type LinkOutcome string

const (
	LinkInserted       LinkOutcome = "inserted"
	LinkAlreadyPresent LinkOutcome = "already_present"
)

type LinkResult struct {
	ID      string
	Outcome LinkOutcome
}

// WriteResult describes what a create or replace applied.
type WriteResult struct {
	Amenities []LinkResult
	Features  []LinkResult
	Images    int
}

// Duplicates returns the ids whose insert was a no-op.
func Duplicates(results []LinkResult) []string {
	ids := []string{}

	for _, res := range results {
		if res.Outcome == LinkAlreadyPresent {
			ids = append(ids, res.ID)
		}
	}

	return ids
}
