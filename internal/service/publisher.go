package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-area/internal/entity"
	"github.com/rocketscienceinc/tictactoe-area/internal/repository"
)

type snapshotRepo interface {
	CreateOrUpdate(ctx context.Context, snapshot entity.AreaSnapshot) error
	GetByAreaID(ctx context.Context, areaID string) (*entity.AreaSnapshot, error)
	DeleteByAreaID(ctx context.Context, areaID string) error
	Publish(ctx context.Context, snapshot entity.AreaSnapshot) error
}

type areaReader interface {
	Snapshot() entity.AreaSnapshot
}

// SnapshotPublisher stores the area snapshot after every change and
// announces it to subscribers of the area channel.
type SnapshotPublisher struct {
	logger *slog.Logger
	area   areaReader
	repo   snapshotRepo
}

func NewSnapshotPublisher(logger *slog.Logger, area areaReader, repo snapshotRepo) *SnapshotPublisher {
	return &SnapshotPublisher{
		logger: logger.With("component", "snapshot_publisher"),
		area:   area,
		repo:   repo,
	}
}

// AreaChanged never fails the command that triggered it; storage errors are only logged.
func (that *SnapshotPublisher) AreaChanged(ctx context.Context) {
	snapshot := that.area.Snapshot()

	log := that.logger.With("method", "AreaChanged", "areaID", snapshot.AreaID, "gameID", snapshot.GameID)

	if err := that.repo.CreateOrUpdate(ctx, snapshot); err != nil {
		log.Error("failed to store snapshot", "error", err)
		return
	}

	if err := that.repo.Publish(ctx, snapshot); err != nil {
		log.Error("failed to publish snapshot", "error", err)
		return
	}

	log.Debug("snapshot published")
}

// Reset drops a snapshot left in storage by a previous run and announces the
// current, freshly started area instead.
func (that *SnapshotPublisher) Reset(ctx context.Context) error {
	snapshot := that.area.Snapshot()

	log := that.logger.With("method", "Reset", "areaID", snapshot.AreaID)

	stale, err := that.repo.GetByAreaID(ctx, snapshot.AreaID)
	switch {
	case errors.Is(err, repository.ErrGameNotFound):
		log.Debug("no stored snapshot")
	case err != nil:
		return fmt.Errorf("failed to read stored snapshot: %w", err)
	default:
		if err = that.repo.DeleteByAreaID(ctx, snapshot.AreaID); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
			return fmt.Errorf("failed to delete stored snapshot: %w", err)
		}

		log.Info("discarded snapshot of a previous run", "staleGameID", stale.GameID)
	}

	if err = that.repo.Publish(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}

	return nil
}
