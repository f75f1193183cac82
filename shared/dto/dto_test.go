package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"inap/shared/constant"
	"inap/shared/dto"
	"inap/shared/model"
	"inap/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	created := time.Date(2030, 1, 1, 8, 30, 0, 0, time.UTC)

	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{CreatedAt: created, ModifiedAt: created.Add(time.Hour), CreatedBy: "u1", ModifiedBy: "guest"})

	assert.Equal(t, timezone.Format(created, constant.DateFormat), metadata.CreatedAt)
	assert.Equal(t, timezone.Format(created.Add(time.Hour), constant.DateFormat), metadata.ModifiedAt)
	assert.Equal(t, "u1", metadata.CreatedBy)
	assert.Equal(t, "guest", metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		withDefaults bool
		want         dto.QueryParams
	}{
		{
			name:  "explicit values",
			query: "page=2&limit=20&sort_by=base_price&sort_dir=asc",
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "base_price", SortDir: dto.SortDirAsc},
		},
		{
			name: "nothing without defaults",
			want: dto.QueryParams{},
		},
		{
			name:         "defaults",
			withDefaults: true,
			want:         dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:         "junk falls back",
			query:        "page=-1&limit=abc&sort_dir=sideways",
			withDefaults: true,
			want:         dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:         "limit capped",
			query:        "limit=5000",
			withDefaults: true,
			want:         dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.MaxValueLimit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := dto.QueryParams{}
			params.FromRequest(httptest.NewRequest("GET", "/rooms?"+tt.query, nil), tt.withDefaults)

			assert.Equal(t, tt.want, params)
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "eq",
			filter:    dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorEq, Table: "bookings"},
			wantWhere: "bookings.status = :status",
			wantArgs:  map[string]any{"status": "pending"},
		},
		{
			name:      "like with arg name",
			filter:    dto.Filter{ArgName: "q_name", Field: "name", Value: "Suite", Operator: dto.FilterOperatorLike, Table: "rooms"},
			wantWhere: "LOWER(rooms.name) LIKE LOWER(:q_name)",
			wantArgs:  map[string]any{"q_name": "%Suite%"},
		},
		{
			name:      "in",
			filter:    dto.Filter{Field: "status", Value: []string{"pending", "confirmed"}, Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status_0, :status_1)",
			wantArgs:  map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
		{
			name:      "greater or equal",
			filter:    dto.Filter{Field: "check_out", Value: "2030-01-01", Operator: dto.FilterOperatorGreaterEq},
			wantWhere: "check_out >= :check_out",
			wantArgs:  map[string]any{"check_out": "2030-01-01"},
		},
		{
			name:      "empty in matches nothing",
			filter:    dto.Filter{Field: "id", Value: []string{}, Operator: dto.FilterOperatorIn},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "is null",
			filter:    dto.Filter{Field: "user_id", Operator: dto.FilterIsNull, Table: "bookings"},
			wantWhere: "bookings.user_id IS NULL",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	search := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorOr,
		Filters: []any{
			dto.Filter{ArgName: "q_guest", Field: "guest_name", Value: "ann", Operator: dto.FilterOperatorLike},
			dto.Filter{ArgName: "q_email", Field: "guest_email", Value: "ann", Operator: dto.FilterOperatorLike},
		},
	}

	group := dto.FilterGroup{Filters: []any{
		dto.Filter{Field: "room_id", Value: "r1", Operator: dto.FilterOperatorEq},
		search,
	}}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(room_id = :room_id AND (LOWER(guest_name) LIKE LOWER(:q_guest) OR LOWER(guest_email) LIKE LOWER(:q_email)))", where)
	assert.Equal(t, map[string]any{"room_id": "r1", "q_guest": "%ann%", "q_email": "%ann%"}, args)

	empty := dto.FilterGroup{}
	where, args = empty.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}
