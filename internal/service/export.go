package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/futurenote/futurenote/internal/model"
	"github.com/futurenote/futurenote/internal/repository"
	"github.com/futurenote/futurenote/internal/storage"
)

var ErrExportDisabled = errors.New("export storage not configured")

const exportLinkExpiry = time.Hour

type ExportResult struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Goals int    `json:"goals"`
}

type exportDocument struct {
	ExportedAt time.Time          `json:"exportedAt"`
	Goals      []*model.AdminGoal `json:"goals"`
}

// ExportService writes email-free goal snapshots to object storage.
type ExportService struct {
	goals   repository.GoalRepository
	storage storage.Storage
	now     func() time.Time
}

// NewExportService accepts a nil storage; Export then returns ErrExportDisabled.
func NewExportService(goals repository.GoalRepository, storage storage.Storage) *ExportService {
	return &ExportService{
		goals:   goals,
		storage: storage,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *ExportService) Export(ctx context.Context) (*ExportResult, error) {
	if s.storage == nil {
		return nil, ErrExportDisabled
	}

	goals, err := s.goals.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	if goals == nil {
		goals = []*model.AdminGoal{}
	}

	now := s.now()
	var buf bytes.Buffer
	err = json.NewEncoder(&buf).Encode(exportDocument{ExportedAt: now, Goals: goals})
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	key := fmt.Sprintf("exports/goals-%s.json", now.Format("20060102T150405Z"))
	err = s.storage.Put(ctx, key, &buf, "application/json")
	if err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}

	url, err := s.storage.PresignedURL(ctx, key, exportLinkExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign export link: %w", err)
	}

	slog.Info("goals exported", "key", key, "goals", len(goals))
	return &ExportResult{Key: key, URL: url, Goals: len(goals)}, nil
}
