package adapters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"taskmanager/internal/feature/tasks/domain/entity"
)

func TestListQuery(t *testing.T) {
	t.Parallel()

	done := true
	tests := []struct {
		name       string
		filter     entity.ListFilter
		wantFilter bson.M
		wantSort   bson.D
		wantLimit  *int64
		wantSkip   *int64
	}{
		{
			name:       "owner only",
			filter:     entity.ListFilter{SortBy: entity.SortCreatedAt},
			wantFilter: bson.M{"owner_id": "owner-1"},
			wantSort:   bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
		},
		{
			name:       "completed page sorted desc",
			filter:     entity.ListFilter{Completed: &done, Limit: 10, Skip: 3, SortBy: entity.SortDescription, Desc: true},
			wantFilter: bson.M{"owner_id": "owner-1", "completed": true},
			wantSort:   bson.D{{Key: "description", Value: -1}, {Key: "_id", Value: -1}},
			wantLimit:  int64Ptr(10),
			wantSkip:   int64Ptr(30),
		},
		{
			name:       "page index beyond int range saturates",
			filter:     entity.ListFilter{Limit: 2, Skip: math.MaxInt/2 + 1, SortBy: entity.SortCreatedAt},
			wantFilter: bson.M{"owner_id": "owner-1"},
			wantSort:   bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
			wantLimit:  int64Ptr(2),
			wantSkip:   int64Ptr(int64(math.MaxInt)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			filter, builder := listQuery("owner-1", tt.filter)
			assert.Equal(t, tt.wantFilter, filter)

			var opts options.FindOptions
			for _, set := range builder.List() {
				require.NoError(t, set(&opts))
			}
			assert.Equal(t, tt.wantSort, opts.Sort)
			assert.Equal(t, tt.wantLimit, opts.Limit)
			assert.Equal(t, tt.wantSkip, opts.Skip)
		})
	}
}

func int64Ptr(v int64) *int64 { return &v }
