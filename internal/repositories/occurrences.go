package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/whendid/whendid/internal/common"
	"github.com/whendid/whendid/internal/models"
)

func keyOccurrence(id string) string { return "occurrence:" + id }
func keyEventOccurrences(eventID string) string { return "eventOccurrences:" + eventID }

func GetOccurrenceByID(ctx context.Context, id string) (*models.Occurrence, error) {
	data, err := RDB.Get(ctx, keyOccurrence(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var occ models.Occurrence
	if err := json.Unmarshal(data, &occ); err != nil {
		return nil, err
	}
	return &occ, nil
}

// GetOccurrencesByEventID returns the event's occurrences sorted by
// normalized timestamp, most recent first.
func GetOccurrencesByEventID(ctx context.Context, eventID string) ([]models.Occurrence, error) {
	ids, err := RDB.SMembers(ctx, keyEventOccurrences(eventID)).Result()
	if err != nil {
		return nil, err
	}
	occs := make([]models.Occurrence, 0, len(ids))
	for _, id := range ids {
		occ, err := GetOccurrenceByID(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		occs = append(occs, *occ)
	}
	models.SortOccurrencesDesc(occs)
	return occs, nil
}

func CreateOccurrence(ctx context.Context, occ *models.Occurrence) error {
	data, err := json.Marshal(occ)
	if err != nil {
		return err
	}
	if err := RDB.Set(ctx, keyOccurrence(occ.ID), data, 0).Err(); err != nil {
		return err
	}
	return RDB.SAdd(ctx, keyEventOccurrences(occ.EventID), occ.ID).Err()
}

func UpdateOccurrence(ctx context.Context, occ *models.Occurrence) error {
	data, err := json.Marshal(occ)
	if err != nil {
		return err
	}
	return RDB.Set(ctx, keyOccurrence(occ.ID), data, 0).Err()
}

// DeleteOccurrence removes the record and its index entry. Deleting an
// already-deleted occurrence is a no-op here; callers decide whether a
// missing record is an error.
func DeleteOccurrence(ctx context.Context, id, eventID string) error {
	if err := RDB.Del(ctx, keyOccurrence(id)).Err(); err != nil {
		return err
	}
	return RDB.SRem(ctx, keyEventOccurrences(eventID), id).Err()
}
