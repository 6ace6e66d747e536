// Package rules holds the pure policy functions of the core. Access is the
// single authority other components must consult before serving media bytes.
package rules

import (
	"time"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
	"github.com/OkayJosh/wrappai/internal/domain/model"
)

type AccessMode string

const (
	AccessModeStream   AccessMode = "stream"
	AccessModeDownload AccessMode = "download"
)

type AccessRequest struct {
	Mode   AccessMode
	Region string
	Now    time.Time
}

type AccessDecision struct {
	Allowed bool
	Reason  string
}

// Access evaluates whether an asset may be served. It has no side effects:
// the clock comes in with the request and nothing is mutated.
func Access(asset model.MediaCore, req AccessRequest) AccessDecision {
	if asset.Status != enums.MediaStatusActive {
		return AccessDecision{Reason: "asset is not active"}
	}

	// An expired license on a DRM-protected asset overrides every allow flag.
	if asset.DRMProtected && asset.LicenseExpiryDate != nil && asset.LicenseExpiryDate.Before(req.Now) {
		return AccessDecision{Reason: "drm license expired"}
	}

	if req.Region != "" {
		for _, restricted := range asset.RegionRestrictions {
			if restricted == req.Region {
				return AccessDecision{Reason: "region restricted"}
			}
		}
	}

	switch req.Mode {
	case AccessModeStream:
		if !asset.StreamingAllowed {
			return AccessDecision{Reason: "streaming not allowed"}
		}
	case AccessModeDownload:
		if !asset.DownloadAllowed {
			return AccessDecision{Reason: "download not allowed"}
		}
	default:
		return AccessDecision{Reason: "unknown access mode"}
	}

	return AccessDecision{Allowed: true}
}
