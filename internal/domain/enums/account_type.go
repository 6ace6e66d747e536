package enums

type AccountType string

const (
	AccountTypeWatcher AccountType = "WATCHER"
	AccountTypeStudio  AccountType = "STUDIO"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeWatcher, AccountTypeStudio:
		return true
	default:
		return false
	}
}
