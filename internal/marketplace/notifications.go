package marketplace

import (
	"context"
	"fmt"

	"github.com/garnizeh/ustabul/pkg/models"
)

// ListNotifications returns userID's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.store.ListNotifications(ctx, userID, collectionLimit)
}

// MarkNotificationRead marks notification id as read on behalf of callerID.
// Only the addressee or an admin may do so.
func (s *Service) MarkNotificationRead(ctx context.Context, id, callerID string, callerRole models.Role) error {
	n, err := s.store.GetNotification(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("notification %s: %w", id, models.ErrNotFound)
	}
	if n.UserID != callerID && callerRole != models.RoleAdmin {
		return fmt.Errorf("notification %s belongs to another user: %w", id, models.ErrForbidden)
	}

	ok, err := s.store.MarkNotificationRead(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("notification %s: %w", id, models.ErrNotFound)
	}
	return nil
}
