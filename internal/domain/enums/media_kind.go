package enums

type MediaKind string

const (
	MediaKindMusic MediaKind = "music"
	MediaKindPhoto MediaKind = "photo"
	MediaKindVideo MediaKind = "video"
)

func (k MediaKind) Valid() bool {
	switch k {
	case MediaKindMusic, MediaKindPhoto, MediaKindVideo:
		return true
	default:
		return false
	}
}
