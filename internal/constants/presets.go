package constants

// PresetAmounts are the certificate face values offered by default (UAH).
var PresetAmounts = []int{500, 1000, 2000, 5000}

const (
	CompanyName    = "FENIX ARMY STORE"
	WebsiteURL     = "fenix-voentorg.com.ua"
	DefaultManager = "Менеджер"
	Currency       = "грн"
)

// IsPreset returns true if amount is one of PresetAmounts.
func IsPreset(amount int) bool {
	for _, a := range PresetAmounts {
		if a == amount {
			return true
		}
	}
	return false
}
