package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/whendid/whendid/internal/common"
	"github.com/whendid/whendid/internal/models"
)

// Users are stored under user:{username}, with userId:{id} mapping ids back
// to usernames and the "users" set holding every username.
const keyAllUsers = "users"

func keyUser(username string) string { return "user:" + username }
func keyUserID(id string) string { return "userId:" + id }

func GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	data, err := RDB.Get(ctx, keyUser(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByID(ctx context.Context, id string) (*models.User, error) {
	username, err := RDB.Get(ctx, keyUserID(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return GetUserByUsername(ctx, username)
}

func CreateUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := RDB.Set(ctx, keyUser(user.Username), data, 0).Err(); err != nil {
		return err
	}
	if err := RDB.Set(ctx, keyUserID(user.ID), user.Username, 0).Err(); err != nil {
		return err
	}
	return RDB.SAdd(ctx, keyAllUsers, user.Username).Err()
}

// UpdateUser rewrites the user record. Usernames never change, so the id
// mapping and membership set stay as they are.
func UpdateUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return RDB.Set(ctx, keyUser(user.Username), data, 0).Err()
}

func GetAllUsers(ctx context.Context) ([]models.User, error) {
	usernames, err := RDB.SMembers(ctx, keyAllUsers).Result()
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(usernames))
	for _, username := range usernames {
		user, err := GetUserByUsername(ctx, username)
		if errors.Is(err, common.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}
