package enums

type StudioStatus string

const (
	StudioStatusInReview  StudioStatus = "IN-REVIEW"
	StudioStatusApproved  StudioStatus = "APPROVED"
	StudioStatusRejected  StudioStatus = "REJECTED"
	StudioStatusSuspended StudioStatus = "SUSPENDED"
)

func (s StudioStatus) Valid() bool {
	switch s {
	case StudioStatusInReview, StudioStatusApproved, StudioStatusRejected, StudioStatusSuspended:
		return true
	default:
		return false
	}
}
