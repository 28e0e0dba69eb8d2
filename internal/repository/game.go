package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
)

var ErrGameNotFound = errors.New("game not found")

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, snapshot entity.AreaSnapshot) error
	GetByAreaID(ctx context.Context, areaID string) (*entity.AreaSnapshot, error)
	DeleteByAreaID(ctx context.Context, areaID string) error
	Publish(ctx context.Context, snapshot entity.AreaSnapshot) error
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

// GameKey is where the current game of an area is stored.
func GameKey(areaID string) string {
	return "area:" + areaID + ":game"
}

// UpdatesChannel is where snapshots are published after every change.
func UpdatesChannel(areaID string) string {
	return "area:" + areaID
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, snapshot entity.AreaSnapshot) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot: %w", err)
	}

	err = that.client.Set(ctx, GameKey(snapshot.AreaID), snapshotJSON, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}

	return nil
}

func (that *dbGame) GetByAreaID(ctx context.Context, areaID string) (*entity.AreaSnapshot, error) {
	response, err := that.client.Get(ctx, GameKey(areaID)).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.AreaSnapshot{}, ErrGameNotFound
	}

	if err != nil {
		return &entity.AreaSnapshot{}, fmt.Errorf("failed to get snapshot by area id: %w", err)
	}

	var snapshot entity.AreaSnapshot
	if err = json.Unmarshal([]byte(response), &snapshot); err != nil {
		return &entity.AreaSnapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

func (that *dbGame) DeleteByAreaID(ctx context.Context, areaID string) error {
	deleted, err := that.client.Del(ctx, GameKey(areaID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot by area id: %w", err)
	}

	if deleted == 0 {
		return ErrGameNotFound
	}

	return nil
}

func (that *dbGame) Publish(ctx context.Context, snapshot entity.AreaSnapshot) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot: %w", err)
	}

	if err = that.client.Publish(ctx, UpdatesChannel(snapshot.AreaID), snapshotJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}

	return nil
}
