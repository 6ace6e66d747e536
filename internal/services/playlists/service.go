package playlists

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
	"github.com/OkayJosh/wrappai/internal/pkg/validate"
)

type Store interface {
	Create(ctx context.Context, playlist model.Playlist) (model.Playlist, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Playlist, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type StudioStore interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type MediaStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.MediaItem, error)
	SetPlaylist(ctx context.Context, id uuid.UUID, playlistID *uuid.UUID) error
	ListByPlaylist(ctx context.Context, playlistID uuid.UUID) ([]model.MediaItem, error)
}

type Service struct {
	store   Store
	studios StudioStore
	media   MediaStore
	now     func() time.Time
}

func NewService(store Store, studios StudioStore, media MediaStore) *Service {
	return &Service{
		store:   store,
		studios: studios,
		media:   media,
		now:     time.Now,
	}
}

type CreateInput struct {
	StudioID    *uuid.UUID
	Title       string
	Description *string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (model.Playlist, error) {
	if s.store == nil {
		return model.Playlist{}, fmt.Errorf("playlists store is not configured")
	}

	in.Title = strings.TrimSpace(in.Title)
	if !validate.Required(in.Title) {
		return model.Playlist{}, errs.Validationf("playlist title is required")
	}

	if in.StudioID != nil {
		if s.studios == nil {
			return model.Playlist{}, fmt.Errorf("playlists studio store is not configured")
		}
		exists, err := s.studios.Exists(ctx, *in.StudioID)
		if err != nil {
			return model.Playlist{}, fmt.Errorf("check playlist studio: %w", err)
		}
		if !exists {
			return model.Playlist{}, errs.Validationf("studio %s does not exist", *in.StudioID)
		}
	}

	return s.store.Create(ctx, model.Playlist{
		StudioID:    in.StudioID,
		Title:       in.Title,
		Description: in.Description,
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (model.Playlist, error) {
	if s.store == nil {
		return model.Playlist{}, fmt.Errorf("playlists store is not configured")
	}
	return s.store.GetByID(ctx, id)
}

// AttachMedia points a media item at this playlist. An item already in
// another playlist is re-pointed; one item never sits in two playlists.
func (s *Service) AttachMedia(ctx context.Context, playlistID, mediaID uuid.UUID) error {
	if s.store == nil || s.media == nil {
		return fmt.Errorf("playlists dependencies are not configured")
	}

	exists, err := s.store.Exists(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("check playlist: %w", err)
	}
	if !exists {
		return errs.Validationf("playlist %s does not exist", playlistID)
	}

	if _, err := s.media.GetByID(ctx, mediaID); err != nil {
		return err
	}

	return s.media.SetPlaylist(ctx, mediaID, &playlistID)
}

func (s *Service) DetachMedia(ctx context.Context, mediaID uuid.UUID) error {
	if s.media == nil {
		return fmt.Errorf("playlists media store is not configured")
	}
	return s.media.SetPlaylist(ctx, mediaID, nil)
}

func (s *Service) ListMedia(ctx context.Context, playlistID uuid.UUID) ([]model.MediaItem, error) {
	if s.media == nil {
		return nil, fmt.Errorf("playlists media store is not configured")
	}
	return s.media.ListByPlaylist(ctx, playlistID)
}

// Delete removes the playlist and the media items it owns.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return fmt.Errorf("playlists store is not configured")
	}
	return s.store.DeleteCascade(ctx, id)
}
