// Package notify stores user notifications and fans them out to live
// subscribers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/garnizeh/ustabul/pkg/models"
	"github.com/garnizeh/ustabul/pkg/repository"
)

// Publisher delivers a stored notification to whoever listens for its user.
type Publisher interface {
	Publish(ctx context.Context, n *models.Notification) error
}

type Emitter struct {
	repo      repository.NotificationRepo
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// New returns an Emitter. publisher may be nil, in which case notifications
// are only stored.
func New(repo repository.NotificationRepo, publisher Publisher, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Emitter{repo: repo, publisher: publisher, logger: logger, now: time.Now}
}

// Emit persists one unread notification for userID. A failed store is
// returned to the caller; a failed publish is only logged.
func (e *Emitter) Emit(ctx context.Context, userID string, typ models.NotificationType, title, message string, relatedJobID *string) (*models.Notification, error) {
	n := &models.Notification{
		ID:           uuid.NewString(),
		UserID:       userID,
		Type:         typ,
		Title:        title,
		Message:      message,
		RelatedJobID: relatedJobID,
		CreatedAt:    e.now().UTC(),
	}
	if err := e.repo.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("store %s notification: %w", typ, err)
	}

	if e.publisher != nil {
		if err := e.publisher.Publish(ctx, n); err != nil {
			e.logger.Warn("publish notification failed",
				slog.String("notification_id", n.ID),
				slog.String("user_id", userID),
				slog.Any("err", err),
			)
		}
	}

	return n, nil
}

// Channel is the pub/sub channel carrying a user's notifications.
func Channel(userID string) string {
	return "notifications:" + userID
}

func encode(n *models.Notification) ([]byte, error) {
	return json.Marshal(n)
}
