package enums

// MediaStatus is the asset lifecycle: active items are servable, archived items
// are hidden but recoverable, deleted is terminal.
type MediaStatus string

const (
	MediaStatusActive   MediaStatus = "active"
	MediaStatusArchived MediaStatus = "archived"
	MediaStatusDeleted  MediaStatus = "deleted"
)

func (s MediaStatus) Valid() bool {
	switch s {
	case MediaStatusActive, MediaStatusArchived, MediaStatusDeleted:
		return true
	default:
		return false
	}
}
