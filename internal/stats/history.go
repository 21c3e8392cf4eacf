package stats

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/arnold/taskboard/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

type HistoryEntry struct {
	models.Completion
	TaskTitle string `json:"taskTitle"`
	UserName  string `json:"userName"`
}

type HistoryPage struct {
	Entries []HistoryEntry `json:"entries"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
}

// History pages through the completions of the trailing window, newest day
// first. A nil userID covers every user.
func (e *Engine) History(ctx context.Context, userID *string, page, limit int) (HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	dates := e.clock.LastDays(MaxWindow)
	q := e.db.WithContext(ctx).Model(&models.Completion{}).
		Where("completions.completed_on BETWEEN ? AND ?", dates[0], dates[len(dates)-1])
	if userID != nil {
		q = q.Where("completions.user_id = ?", *userID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return HistoryPage{}, errors.Wrap(err, "counting completions")
	}

	// keep the offset within total
	if last := int(total)/limit + 1; page > last {
		page = last
	}
	offset := (page - 1) * limit

	entries := make([]HistoryEntry, 0, limit)
	if err := q.
		Select("completions.*, tasks.title AS task_title, users.name AS user_name").
		Joins("LEFT JOIN tasks ON tasks.id = completions.task_id").
		Joins("LEFT JOIN users ON users.id = completions.user_id").
		Order("completions.completed_on DESC").
		Order("completions.updated_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&entries).Error; err != nil {
		return HistoryPage{}, errors.Wrap(err, "loading completions")
	}

	return HistoryPage{Entries: entries, Total: total, Page: page, Limit: limit}, nil
}
