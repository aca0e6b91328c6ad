package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whendid/whendid/internal/common"
	"github.com/whendid/whendid/internal/models"
)

func setupRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func intp(v int) *int { return &v }

func TestUsers_CreateAndLookup(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	user := &models.User{
		ID:           "u1",
		Username:     "alice",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, CreateUser(ctx, user))

	byName, err := GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", byName.ID)
	assert.Equal(t, "$2a$10$hash", byName.PasswordHash)

	byID, err := GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUsers_UpdateAndList(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	require.NoError(t, CreateUser(ctx, &models.User{ID: "u1", Username: "alice"}))
	require.NoError(t, CreateUser(ctx, &models.User{ID: "u2", Username: "bob", IsAdmin: true}))

	alice, err := GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	alice.PasswordHash = "new-hash"
	require.NoError(t, UpdateUser(ctx, alice))

	reread, err := GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", reread.PasswordHash)

	users, err := GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestEvents_ListSortedByUpdatedAt(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	older := &models.Event{
		ID: "e1", UserID: "u1", Name: "older",
		UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := &models.Event{
		ID: "e2", UserID: "u1", Name: "newer",
		UpdatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, CreateEvent(ctx, older))
	require.NoError(t, CreateEvent(ctx, newer))

	events, err := GetEventsByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "newer", events[0].Name)

	other, err := GetEventsByUserID(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestOccurrences_ListSortedDesc(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	created := time.Now()
	jan := &models.Occurrence{
		ID: "o-jan", EventID: "e1", UserID: "u1",
		PartialTime: models.PartialTime{Year: intp(2024), Month: intp(1), Day: intp(15)},
		CreatedAt:   created,
	}
	jun := &models.Occurrence{
		ID: "o-jun", EventID: "e1", UserID: "u1",
		PartialTime: models.PartialTime{Year: intp(2024), Month: intp(6), Day: intp(1)},
		CreatedAt:   created,
	}
	require.NoError(t, CreateOccurrence(ctx, jan))
	require.NoError(t, CreateOccurrence(ctx, jun))

	occs, err := GetOccurrencesByEventID(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, occs, 2)
	assert.Equal(t, "o-jun", occs[0].ID)
	assert.Equal(t, "o-jan", occs[1].ID)
}

func TestOccurrences_UpdateDropsAbsentFields(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	occ := &models.Occurrence{
		ID: "o1", EventID: "e1", UserID: "u1",
		PartialTime: models.PartialTime{Year: intp(2024), Month: intp(1), Day: intp(15)},
	}
	require.NoError(t, CreateOccurrence(ctx, occ))

	occ.PartialTime = models.PartialTime{Month: intp(3)}
	require.NoError(t, UpdateOccurrence(ctx, occ))

	reread, err := GetOccurrenceByID(ctx, "o1")
	require.NoError(t, err)
	assert.Nil(t, reread.Year)
	assert.Nil(t, reread.Day)
	require.NotNil(t, reread.Month)
	assert.Equal(t, 3, *reread.Month)
}

func TestOccurrences_Delete(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	occ := &models.Occurrence{
		ID: "o1", EventID: "e1", UserID: "u1",
		PartialTime: models.PartialTime{Year: intp(2024)},
	}
	require.NoError(t, CreateOccurrence(ctx, occ))
	require.NoError(t, DeleteOccurrence(ctx, "o1", "e1"))

	_, err := GetOccurrenceByID(ctx, "o1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	occs, err := GetOccurrencesByEventID(ctx, "e1")
	require.NoError(t, err)
	assert.Empty(t, occs)

	// idempotent at this layer
	assert.NoError(t, DeleteOccurrence(ctx, "o1", "e1"))
}

func TestDeleteEvent_CascadesToOccurrences(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	event := &models.Event{ID: "e1", UserID: "u1", Name: "drink water"}
	require.NoError(t, CreateEvent(ctx, event))

	for _, id := range []string{"o1", "o2", "o3"} {
		occ := &models.Occurrence{
			ID: id, EventID: "e1", UserID: "u1",
			PartialTime: models.PartialTime{Year: intp(2024)},
		}
		require.NoError(t, CreateOccurrence(ctx, occ))
	}

	require.NoError(t, DeleteEvent(ctx, "e1", "u1"))

	_, err := GetEventByID(ctx, "e1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	occs, err := GetOccurrencesByEventID(ctx, "e1")
	require.NoError(t, err)
	assert.Empty(t, occs)

	for _, id := range []string{"o1", "o2", "o3"} {
		_, err := GetOccurrenceByID(ctx, id)
		assert.ErrorIs(t, err, common.ErrNotFound)
	}

	events, err := GetEventsByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, events)
}
