package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
	"github.com/OkayJosh/wrappai/internal/domain/rules"
	"github.com/OkayJosh/wrappai/internal/pkg/validate"
	pgrepo "github.com/OkayJosh/wrappai/internal/repo/postgres"
)

const defaultSignedURLTTL = 5 * time.Minute

type Store interface {
	Create(ctx context.Context, item model.MediaItem) (model.MediaItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.MediaItem, error)
	Archive(ctx context.Context, id uuid.UUID, at time.Time) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
	ReplaceContent(ctx context.Context, id uuid.UUID, content pgrepo.ContentReplacement) (int, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID, at time.Time) (int64, error)
	IncrementDownloadCount(ctx context.Context, id uuid.UUID, at time.Time) (int64, error)
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// URLCache keeps presigned URLs warm; a nil cache just means every serve
// presigns again.
type URLCache interface {
	Get(ctx context.Context, storagePath string) (string, bool, error)
	Set(ctx context.Context, storagePath, url string, presignTTL time.Duration) error
	Invalidate(ctx context.Context, storagePath string) error
}

type Config struct {
	StorageProvider string
	HostingLocation string
	SignedURLTTL    time.Duration
}

type Service struct {
	store    Store
	storage  ObjectStorage
	urlCache URLCache
	cfg      Config
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(store Store, storage ObjectStorage, urlCache URLCache, cfg Config, logger *zap.Logger) *Service {
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = defaultSignedURLTTL
	}
	if cfg.StorageProvider == "" {
		cfg.StorageProvider = "s3"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		store:    store,
		storage:  storage,
		urlCache: urlCache,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}
}

type UploadInput struct {
	Kind        enums.MediaKind
	PlaylistID  *uuid.UUID
	Title       string
	Description *string
	FileName    string
	ContentType string
	Format      string
	Body        io.Reader
	Size        int64
	Checksum    *string

	AvailableFormats []string

	DRMProtected       bool
	DRMType            *string
	LicenseExpiryDate  *time.Time
	RegionRestrictions []string
	DownloadAllowed    bool
	StreamingAllowed   *bool

	Music *model.MusicAttrs
	Photo *model.PhotoAttrs
	Video *model.VideoAttrs
}

// Upload stores the object first, then the record; a failed record insert
// compensates by deleting the freshly stored object so no orphan bytes stay
// behind.
func (s *Service) Upload(ctx context.Context, in UploadInput) (model.MediaItem, error) {
	if s.store == nil || s.storage == nil {
		return model.MediaItem{}, fmt.Errorf("media dependencies are not configured")
	}

	item, err := s.buildItem(in)
	if err != nil {
		return model.MediaItem{}, err
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return model.MediaItem{}, fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey, err := buildObjectKey(in.Kind, in.FileName)
	if err != nil {
		return model.MediaItem{}, fmt.Errorf("build object key: %w", err)
	}

	contentType := strings.TrimSpace(in.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.storage.Put(ctx, objectKey, in.Body, in.Size, contentType); err != nil {
		return model.MediaItem{}, fmt.Errorf("put object: %w", err)
	}

	item.StoragePath = objectKey
	item.URL = objectKey
	item.MimeType = contentType

	created, err := s.store.Create(ctx, item)
	if err != nil {
		_ = s.storage.Delete(ctx, objectKey)
		return model.MediaItem{}, err
	}

	return created, nil
}

func (s *Service) buildItem(in UploadInput) (model.MediaItem, error) {
	if !in.Kind.Valid() {
		return model.MediaItem{}, errs.Validationf("media kind %q", in.Kind)
	}
	in.Title = strings.TrimSpace(in.Title)
	if !validate.Required(in.Title) {
		return model.MediaItem{}, errs.Validationf("media title is required")
	}
	if in.Body == nil || in.Size <= 0 {
		return model.MediaItem{}, errs.Validationf("media content is required")
	}
	if !validate.Required(in.Format) {
		return model.MediaItem{}, errs.Validationf("media format is required")
	}

	streamingAllowed := true
	if in.StreamingAllowed != nil {
		streamingAllowed = *in.StreamingAllowed
	}

	item := model.MediaItem{
		MediaCore: model.MediaCore{
			Kind:               in.Kind,
			PlaylistID:         in.PlaylistID,
			Title:              in.Title,
			Description:        in.Description,
			Status:             enums.MediaStatusActive,
			Version:            1,
			AvailableFormats:   in.AvailableFormats,
			FileSize:           in.Size,
			Format:             in.Format,
			Checksum:           in.Checksum,
			StorageProvider:    s.cfg.StorageProvider,
			HostingLocation:    s.cfg.HostingLocation,
			DRMProtected:       in.DRMProtected,
			DRMType:            in.DRMType,
			LicenseExpiryDate:  in.LicenseExpiryDate,
			RegionRestrictions: in.RegionRestrictions,
			DownloadAllowed:    in.DownloadAllowed,
			StreamingAllowed:   streamingAllowed,
		},
	}

	switch in.Kind {
	case enums.MediaKindMusic:
		if in.Music == nil || !validate.Required(in.Music.Artist) {
			return model.MediaItem{}, errs.Validationf("music artist is required")
		}
		if in.Music.DurationSec <= 0 {
			return model.MediaItem{}, errs.Validationf("music duration is required")
		}
		item.Music = in.Music
	case enums.MediaKindPhoto:
		if in.Photo == nil || in.Photo.HeightPx <= 0 || in.Photo.WidthPx <= 0 {
			return model.MediaItem{}, errs.Validationf("photo dimensions are required")
		}
		item.Photo = in.Photo
	case enums.MediaKindVideo:
		if in.Video == nil {
			in.Video = &model.VideoAttrs{}
		}
		if in.Video.UploadedAt == nil {
			now := s.now().UTC()
			in.Video.UploadedAt = &now
		}
		item.Video = in.Video
	}

	return item, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (model.MediaItem, error) {
	if s.store == nil {
		return model.MediaItem{}, fmt.Errorf("media dependencies are not configured")
	}
	return s.store.GetByID(ctx, id)
}

// Archive hides the asset; archiving an already archived asset is a no-op,
// archiving a deleted one fails.
func (s *Service) Archive(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return fmt.Errorf("media dependencies are not configured")
	}
	return s.store.Archive(ctx, id, s.now().UTC())
}

// Delete soft-deletes the asset. The stored object stays until the cleanup
// job's retention window passes; only the serving URL dies immediately.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return fmt.Errorf("media dependencies are not configured")
	}

	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.SoftDelete(ctx, id, s.now().UTC()); err != nil {
		return err
	}

	s.invalidateURL(ctx, item.StoragePath)
	return nil
}

type ReplaceContentInput struct {
	FileName    string
	ContentType string
	Format      string
	Body        io.Reader
	Size        int64
	Checksum    *string
}

// ReplaceContent uploads the new object, bumps the version by exactly one
// and drops the old object. Only the current version is kept.
func (s *Service) ReplaceContent(ctx context.Context, id uuid.UUID, in ReplaceContentInput) (model.MediaItem, error) {
	if s.store == nil || s.storage == nil {
		return model.MediaItem{}, fmt.Errorf("media dependencies are not configured")
	}
	if in.Body == nil || in.Size <= 0 {
		return model.MediaItem{}, errs.Validationf("replacement content is required")
	}
	if !validate.Required(in.Format) {
		return model.MediaItem{}, errs.Validationf("replacement format is required")
	}

	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.MediaItem{}, err
	}

	objectKey, err := buildObjectKey(item.Kind, in.FileName)
	if err != nil {
		return model.MediaItem{}, fmt.Errorf("build object key: %w", err)
	}

	contentType := strings.TrimSpace(in.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.storage.Put(ctx, objectKey, in.Body, in.Size, contentType); err != nil {
		return model.MediaItem{}, fmt.Errorf("put replacement object: %w", err)
	}

	if _, err := s.store.ReplaceContent(ctx, id, pgrepo.ContentReplacement{
		URL:         objectKey,
		FileSize:    in.Size,
		Format:      in.Format,
		MimeType:    contentType,
		StoragePath: objectKey,
		Checksum:    in.Checksum,
	}); err != nil {
		_ = s.storage.Delete(ctx, objectKey)
		return model.MediaItem{}, err
	}

	if err := s.storage.Delete(ctx, item.StoragePath); err != nil {
		s.logger.Warn("failed to delete replaced media object",
			zap.Error(err), zap.String("object_key", item.StoragePath))
	}
	s.invalidateURL(ctx, item.StoragePath)

	return s.store.GetByID(ctx, id)
}

type ServeResult struct {
	URL   string
	Count int64
}

// Stream gates the request through the access rules, bumps the view counter
// atomically and hands back a presigned URL.
func (s *Service) Stream(ctx context.Context, id uuid.UUID, region string) (ServeResult, error) {
	return s.serve(ctx, id, region, rules.AccessModeStream)
}

// Download is Stream's sibling for the download flag and counter.
func (s *Service) Download(ctx context.Context, id uuid.UUID, region string) (ServeResult, error) {
	return s.serve(ctx, id, region, rules.AccessModeDownload)
}

func (s *Service) serve(ctx context.Context, id uuid.UUID, region string, mode rules.AccessMode) (ServeResult, error) {
	if s.store == nil || s.storage == nil {
		return ServeResult{}, fmt.Errorf("media dependencies are not configured")
	}

	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ServeResult{}, err
	}

	decision := rules.Access(item.MediaCore, rules.AccessRequest{
		Mode:   mode,
		Region: region,
		Now:    s.now().UTC(),
	})
	if !decision.Allowed {
		return ServeResult{}, errs.InvalidStatef("media item %s: %s", id, decision.Reason)
	}

	var count int64
	switch mode {
	case rules.AccessModeStream:
		count, err = s.store.IncrementViewCount(ctx, id, s.now().UTC())
	case rules.AccessModeDownload:
		count, err = s.store.IncrementDownloadCount(ctx, id, s.now().UTC())
	}
	if err != nil {
		return ServeResult{}, err
	}

	url, err := s.signedURL(ctx, item.StoragePath)
	if err != nil {
		return ServeResult{}, err
	}

	return ServeResult{URL: url, Count: count}, nil
}

func (s *Service) signedURL(ctx context.Context, storagePath string) (string, error) {
	if s.urlCache != nil {
		if url, ok, err := s.urlCache.Get(ctx, storagePath); err != nil {
			s.logger.Warn("signed url cache read failed", zap.Error(err))
		} else if ok {
			return url, nil
		}
	}

	url, err := s.storage.PresignGet(ctx, storagePath, s.cfg.SignedURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign media url: %w", err)
	}

	if s.urlCache != nil {
		if err := s.urlCache.Set(ctx, storagePath, url, s.cfg.SignedURLTTL); err != nil {
			s.logger.Warn("signed url cache write failed", zap.Error(err))
		}
	}

	return url, nil
}

func (s *Service) invalidateURL(ctx context.Context, storagePath string) {
	if s.urlCache == nil {
		return
	}
	if err := s.urlCache.Invalidate(ctx, storagePath); err != nil {
		s.logger.Warn("signed url cache invalidate failed", zap.Error(err))
	}
}

func buildObjectKey(kind enums.MediaKind, fileName string) (string, error) {
	rnd := make([]byte, 8)
	if _, err := rand.Read(rnd); err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if ext == "" {
		ext = ".bin"
	}

	stamp := time.Now().UTC().Format("20060102T150405")
	return fmt.Sprintf("media/%s/%s_%s%s", kind, stamp, hex.EncodeToString(rnd), ext), nil
}
