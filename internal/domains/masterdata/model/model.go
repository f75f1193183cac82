package model

import (
	"inap/shared/model"
)

const (
	FieldID = "id"

	CachePrefix = "masterdata"
)

// Kind describes one master data table: its identifier prefix, the column holding the
// display label and the table that references its rows.
type Kind struct {
	Key         string
	Name        string
	Route       string
	Table       string
	Prefix      string
	LabelColumn string
	RefTable    string
	RefColumn   string
}

var (
	RoomType = Kind{
		Key:         "room_type",
		Name:        "room type",
		Route:       "/room-types",
		Table:       "room_types",
		Prefix:      "Tp",
		LabelColumn: "type",
		RefTable:    "rooms",
		RefColumn:   "room_type_id",
	}

	Amenity = Kind{
		Key:         "amenity",
		Name:        "amenity",
		Route:       "/amenities",
		Table:       "amenities",
		Prefix:      "Am",
		LabelColumn: "name",
		RefTable:    "room_amenities",
		RefColumn:   "amenity_id",
	}

	Feature = Kind{
		Key:         "feature",
		Name:        "feature",
		Route:       "/features",
		Table:       "features",
		Prefix:      "Ft",
		LabelColumn: "name",
		RefTable:    "room_features",
		RefColumn:   "feature_id",
	}

	Kinds = []Kind{RoomType, Amenity, Feature}
)

type Item struct {
	ID    string `db:"id"`
	Label string `db:"label"`
	model.Metadata
}
