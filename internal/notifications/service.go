package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	pkgerrors "github.com/pasarlokal/pasarlokal-backend/pkg/errors"
	"github.com/pasarlokal/pasarlokal-backend/pkg/pagination"
)

// Service exposes the notification feed for authenticated actors.
type Service interface {
	List(ctx context.Context, input ListInput) (*Feed, error)
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

// ListInput mirrors the feed query surface.
type ListInput struct {
	RecipientID uuid.UUID
	Limit       int
	Cursor      string
	UnreadOnly  bool
}

// Feed is a page of notifications plus the cursor for the next page.
type Feed struct {
	Notifications []models.Notification `json:"notifications"`
	NextCursor    *string               `json:"next_cursor,omitempty"`
}

type service struct {
	repo Repository
}

// NewService wires the notification feed service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*Feed, error) {
	if input.RecipientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient id is required")
	}

	params := ListParams{
		RecipientID: input.RecipientID,
		Limit:       input.Limit,
		UnreadOnly:  input.UnreadOnly,
	}
	if input.Cursor != "" {
		cursor, err := pagination.ParseCursor(input.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = cursor
	}

	items, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	feed := &Feed{Notifications: items}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		feed.NextCursor = &encoded
	}
	return feed, nil
}

// MarkRead is idempotent: marking an already-read notification is a no-op.
func (s *service) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	if recipientID == uuid.Nil || notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient id and notification id are required")
	}
	if _, err := s.repo.MarkRead(ctx, recipientID, notificationID, time.Now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	if recipientID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "recipient id is required")
	}
	updated, err := s.repo.MarkAllRead(ctx, recipientID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark all notifications read")
	}
	return updated, nil
}
