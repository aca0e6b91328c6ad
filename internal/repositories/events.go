package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/whendid/whendid/internal/common"
	"github.com/whendid/whendid/internal/models"
)

func keyEvent(id string) string { return "event:" + id }
func keyUserEvents(userID string) string { return "userEvents:" + userID }

func GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	data, err := RDB.Get(ctx, keyEvent(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var event models.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventsByUserID returns the user's events, most recently updated first.
func GetEventsByUserID(ctx context.Context, userID string) ([]models.Event, error) {
	ids, err := RDB.SMembers(ctx, keyUserEvents(userID)).Result()
	if err != nil {
		return nil, err
	}
	events := make([]models.Event, 0, len(ids))
	for _, id := range ids {
		event, err := GetEventByID(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].UpdatedAt.After(events[j].UpdatedAt)
	})
	return events, nil
}

func CreateEvent(ctx context.Context, event *models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := RDB.Set(ctx, keyEvent(event.ID), data, 0).Err(); err != nil {
		return err
	}
	return RDB.SAdd(ctx, keyUserEvents(event.UserID), event.ID).Err()
}

func UpdateEvent(ctx context.Context, event *models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return RDB.Set(ctx, keyEvent(event.ID), data, 0).Err()
}

// DeleteEvent removes an event together with every occurrence indexed under
// it. The deletes run sequentially with no rollback; a crash mid-way can
// leave orphaned occurrence records, which is accepted at this system's
// scale (last-write-wins storage, no transactions).
func DeleteEvent(ctx context.Context, eventID, userID string) error {
	occIDs, err := RDB.SMembers(ctx, keyEventOccurrences(eventID)).Result()
	if err != nil {
		return err
	}
	for _, occID := range occIDs {
		if err := RDB.Del(ctx, keyOccurrence(occID)).Err(); err != nil {
			return err
		}
	}
	if err := RDB.Del(ctx, keyEventOccurrences(eventID)).Err(); err != nil {
		return err
	}
	if err := RDB.Del(ctx, keyEvent(eventID)).Err(); err != nil {
		return err
	}
	return RDB.SRem(ctx, keyUserEvents(userID), eventID).Err()
}
