//go:build integration

package repository_test

import (
	"context"
	"testing"

	"inap/infras/otel/mocks"
	"inap/infras/postgres"
	"inap/infras/postgres/postgrestest"
	"inap/internal/domains/room/model"
	"inap/internal/domains/room/repository"
	"inap/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seed = `
INSERT INTO room_types (id, type) VALUES ('Tp-1', 'Deluxe'), ('Tp-2', 'Suite');
INSERT INTO amenities (id, name) VALUES ('Am-1', 'Wifi'), ('Am-2', 'Pool'), ('Am-3', 'Gym'), ('Am-9', 'Sauna');
INSERT INTO features (id, name) VALUES ('Ft-1', 'Balcony'), ('Ft-9', 'Sea view');
INSERT INTO rooms (id, slug, name, description, short_description, base_price, max_guests, size_sqm, status, room_type_id)
VALUES ('r1', 'ocean-deluxe', 'Ocean Deluxe', 'Facing the bay', 'Bay view', 350000, 2, 32.5, 'available', 'Tp-1');
INSERT INTO room_amenities (room_id, amenity_id) VALUES ('r1', 'Am-1'), ('r1', 'Am-2');
INSERT INTO room_features (room_id, feature_id) VALUES ('r1', 'Ft-1');
INSERT INTO room_images (id, room_id, image_url, is_primary, position)
VALUES ('00000000-0000-0000-0000-000000000001', 'r1', 'https://cdn.example.com/u1.png', TRUE, 0);
`

func setup(t *testing.T) (*postgres.Connection, repository.Room) {
	t.Helper()

	db := postgrestest.Start(t)
	postgrestest.Exec(t, db, seed)

	return db, repository.New(db, mocks.NewOtel())
}

func read(t *testing.T, repo repository.Room) model.Aggregate {
	t.Helper()

	agg, err := repo.GetAggregate(context.Background(), shared.FilterByID("r1", model.FieldID, model.TableName))
	require.NoError(t, err)
	require.Equal(t, "r1", agg.ID)

	return agg
}

func replacement(base model.Aggregate) model.Room {
	room := base.Room
	room.BasePrice = 500000

	return room
}

func TestReplaceAggregate_Scenario(t *testing.T) {
	_, repo := setup(t)

	before := read(t, repo)

	_, err := repo.ReplaceAggregate(context.Background(), replacement(before), model.Links{
		AmenityIDs: []string{"Am-2", "Am-3"},
		FeatureIDs: []string{},
		Images: []model.ImageInput{
			{URL: "https://cdn.example.com/u2.png"},
			{URL: "https://cdn.example.com/u3.png", IsPrimary: true},
		},
	})
	require.NoError(t, err)

	after := read(t, repo)

	assert.Equal(t, []string{"Am-2", "Am-3"}, []string(after.AmenityIDs))
	assert.Empty(t, after.FeatureIDs)
	assert.Equal(t, []string{"https://cdn.example.com/u2.png", "https://cdn.example.com/u3.png"}, []string(after.Images))
	assert.Equal(t, []bool{false, true}, []bool(after.ImagesPrimary))
	assert.Equal(t, int64(500000), after.BasePrice)

	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, before.Slug, after.Slug)
	assert.Equal(t, before.Description, after.Description)
	assert.Equal(t, before.MaxGuests, after.MaxGuests)
	assert.Equal(t, before.RoomTypeID, after.RoomTypeID)
	assert.Equal(t, "Deluxe", after.Type)
}

func TestReplaceAggregate_Idempotent(t *testing.T) {
	_, repo := setup(t)

	base := read(t, repo)
	links := model.Links{
		AmenityIDs: []string{"Am-3"},
		FeatureIDs: []string{"Ft-1"},
		Images:     []model.ImageInput{{URL: "https://cdn.example.com/a.png", IsPrimary: true}},
	}

	_, err := repo.ReplaceAggregate(context.Background(), base.Room, links)
	require.NoError(t, err)

	once := read(t, repo)

	_, err = repo.ReplaceAggregate(context.Background(), base.Room, links)
	require.NoError(t, err)

	twice := read(t, repo)

	assert.Equal(t, once.AmenityIDs, twice.AmenityIDs)
	assert.Equal(t, once.FeatureIDs, twice.FeatureIDs)
	assert.Equal(t, once.Images, twice.Images)
}

func TestReplaceAggregate_DuplicateAmenity(t *testing.T) {
	_, repo := setup(t)

	base := read(t, repo)

	res, err := repo.ReplaceAggregate(context.Background(), base.Room, model.Links{AmenityIDs: []string{"Am-3", "Am-3"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Am-3"}, model.Duplicates(res.Amenities))
	assert.Equal(t, []string{"Am-3"}, []string(read(t, repo).AmenityIDs))
}

func TestReplaceAggregate_ImageOrder(t *testing.T) {
	_, repo := setup(t)

	base := read(t, repo)
	urls := []string{"https://cdn.example.com/c.png", "https://cdn.example.com/a.png", "https://cdn.example.com/b.png"}

	images := make([]model.ImageInput, len(urls))
	for idx, url := range urls {
		images[idx] = model.ImageInput{URL: url}
	}

	_, err := repo.ReplaceAggregate(context.Background(), base.Room, model.Links{Images: images})
	require.NoError(t, err)

	assert.Equal(t, urls, []string(read(t, repo).Images))
}

func TestReplaceAggregate_RollsBackEveryStep(t *testing.T) {
	faults := []struct {
		name       string
		constraint string
		mutate     func(room *model.Room, links *model.Links)
	}{
		{
			name:       "room row",
			constraint: `ALTER TABLE rooms ADD CONSTRAINT injected_fault CHECK (name <> 'boom')`,
			mutate:     func(room *model.Room, _ *model.Links) { room.Name = "boom" },
		},
		{
			name:       "amenities",
			constraint: `ALTER TABLE room_amenities ADD CONSTRAINT injected_fault CHECK (amenity_id <> 'Am-9')`,
			mutate:     func(_ *model.Room, links *model.Links) { links.AmenityIDs = append(links.AmenityIDs, "Am-9") },
		},
		{
			name:       "features",
			constraint: `ALTER TABLE room_features ADD CONSTRAINT injected_fault CHECK (feature_id <> 'Ft-9')`,
			mutate:     func(_ *model.Room, links *model.Links) { links.FeatureIDs = append(links.FeatureIDs, "Ft-9") },
		},
		{
			name:       "images",
			constraint: `ALTER TABLE room_images ADD CONSTRAINT injected_fault CHECK (image_url <> 'https://cdn.example.com/boom.png')`,
			mutate: func(_ *model.Room, links *model.Links) {
				links.Images = append(links.Images, model.ImageInput{URL: "https://cdn.example.com/boom.png"})
			},
		},
	}

	for _, fault := range faults {
		t.Run(fault.name, func(t *testing.T) {
			db, repo := setup(t)
			postgrestest.Exec(t, db, fault.constraint)

			before := read(t, repo)

			room := replacement(before)
			links := model.Links{
				AmenityIDs: []string{"Am-3"},
				Images:     []model.ImageInput{{URL: "https://cdn.example.com/new.png", IsPrimary: true}},
			}
			fault.mutate(&room, &links)

			_, err := repo.ReplaceAggregate(context.Background(), room, links)
			require.Error(t, err)

			after := read(t, repo)

			assert.Equal(t, before.Room.Name, after.Room.Name)
			assert.Equal(t, before.BasePrice, after.BasePrice)
			assert.Equal(t, before.AmenityIDs, after.AmenityIDs)
			assert.Equal(t, before.FeatureIDs, after.FeatureIDs)
			assert.Equal(t, before.Images, after.Images)
			assert.Equal(t, before.ImagesPrimary, after.ImagesPrimary)
		})
	}
}

func TestReplaceAggregate_UnknownRoom(t *testing.T) {
	db, repo := setup(t)

	ghost := model.Room{ID: "ghost", Name: "Ghost", BasePrice: 1, MaxGuests: 1, RoomTypeID: "Tp-1"}

	_, err := repo.ReplaceAggregate(context.Background(), ghost, model.Links{AmenityIDs: []string{"Am-1"}})
	require.Error(t, err)

	var count int
	require.NoError(t, db.Read.Get(&count, `SELECT COUNT(*) FROM room_amenities WHERE room_id = 'ghost'`))
	assert.Zero(t, count)
}
