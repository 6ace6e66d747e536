package enums

type InteractionType string

const (
	InteractionWatched InteractionType = "WATCHED"
	InteractionSeen    InteractionType = "SEEN"
	InteractionPaid    InteractionType = "PAID"
)

func (t InteractionType) Valid() bool {
	switch t {
	case InteractionWatched, InteractionSeen, InteractionPaid:
		return true
	default:
		return false
	}
}
