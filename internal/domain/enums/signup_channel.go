package enums

// SignupChannel is the source a user account arrived from.
type SignupChannel string

const (
	SignupChannelWeb      SignupChannel = "WEB"
	SignupChannelMobile   SignupChannel = "MOBILE"
	SignupChannelWaitlist SignupChannel = "WAITLIST"
	SignupChannelCampaign SignupChannel = "CAMPAIGN"
)

func (c SignupChannel) Valid() bool {
	switch c {
	case SignupChannelWeb, SignupChannelMobile, SignupChannelWaitlist, SignupChannelCampaign:
		return true
	default:
		return false
	}
}
