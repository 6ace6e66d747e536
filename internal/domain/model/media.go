package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
)

// MediaCore is the attribute set shared by all three asset kinds: lifecycle,
// versioning, storage, analytics and rights. Kind is the discriminator;
// MediaItem carries exactly one of the specialization blocks matching it.
type MediaCore struct {
	ID         uuid.UUID       `json:"id"`
	Kind       enums.MediaKind `json:"kind"`
	PlaylistID *uuid.UUID      `json:"playlist_id,omitempty"`

	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`

	Status     enums.MediaStatus `json:"status"`
	ArchivedAt *time.Time        `json:"archived_at,omitempty"`
	DeletedAt  *time.Time        `json:"deleted_at,omitempty"`

	// Version starts at 1 and only ever moves forward, bumped by exactly one
	// on each content replacement.
	Version int `json:"version"`

	AvailableFormats []string `json:"available_formats,omitempty"`
	FileSize         int64    `json:"file_size"`
	Format           string   `json:"format"`
	MimeType         string   `json:"mime_type"`
	StoragePath      string   `json:"storage_path"`
	Checksum         *string  `json:"checksum,omitempty"`
	StorageProvider  string   `json:"storage_provider"`
	HostingLocation  string   `json:"hosting_location"`

	ViewCount      int64      `json:"view_count"`
	DownloadCount  int64      `json:"download_count"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`

	DRMProtected       bool       `json:"drm_protected"`
	DRMType            *string    `json:"drm_type,omitempty"`
	LicenseExpiryDate  *time.Time `json:"license_expiry_date,omitempty"`
	RegionRestrictions []string   `json:"region_restrictions,omitempty"`
	DownloadAllowed    bool       `json:"download_allowed"`
	StreamingAllowed   bool       `json:"streaming_allowed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MusicAttrs struct {
	Artist      string     `json:"artist"`
	Album       *string    `json:"album,omitempty"`
	Genre       *string    `json:"genre,omitempty"`
	DurationSec int        `json:"duration_sec"`
	ReleasedAt  *time.Time `json:"released_at,omitempty"`
}

type PhotoAttrs struct {
	HeightPx   int        `json:"height_px"`
	WidthPx    int        `json:"width_px"`
	CapturedAt *time.Time `json:"captured_at,omitempty"`
}

type VideoAttrs struct {
	DurationSec *int       `json:"duration_sec,omitempty"`
	Resolution  *string    `json:"resolution,omitempty"`
	Codec       *string    `json:"codec,omitempty"`
	FrameRate   *float64   `json:"frame_rate,omitempty"`
	UploadedAt  *time.Time `json:"uploaded_at,omitempty"`
}

type MediaItem struct {
	MediaCore
	Music *MusicAttrs `json:"music,omitempty"`
	Photo *PhotoAttrs `json:"photo,omitempty"`
	Video *VideoAttrs `json:"video,omitempty"`
}
