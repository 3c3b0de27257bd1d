package domain

import "time"

// Certificate statuses. A certificate is created active; redeemed state is
// authoritative in the CRM, the local store never flips it.
const (
	CertificateStatusActive   = "active"
	CertificateStatusRedeemed = "redeemed"
)

// ExpiryDateLayout is the ISO calendar date layout used for expiryDate.
const ExpiryDateLayout = "2006-01-02"

// DefaultValidityMonths is how long a certificate is valid when no expiry is given.
const DefaultValidityMonths = 6

// Certificate is a locally issued gift certificate. The JSON shape is also
// the persisted shape of the history list.
type Certificate struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Amount        int       `json:"amount"`
	RecipientName string    `json:"recipientName"`
	ManagerName   string    `json:"managerName"`
	CreatedAt     time.Time `json:"createdAt"`
	ExpiryDate    string    `json:"expiryDate"`
	Status        string    `json:"status"`
}

// Draft is the caller-supplied part of a certificate.
type Draft struct {
	Code          string
	Amount        int
	RecipientName string
	ManagerName   string
	ExpiryDate    string // optional; defaults to DefaultValidityMonths after creation
}

// DefaultExpiry returns the calendar date DefaultValidityMonths after t.
func DefaultExpiry(t time.Time) string {
	return t.UTC().AddDate(0, DefaultValidityMonths, 0).Format(ExpiryDateLayout)
}
