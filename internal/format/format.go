package format

import (
	"fmt"
	"strings"
	"time"

	"fenix-certificates/internal/constants"
	"fenix-certificates/internal/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const displayDateLayout = "02.01.2006"

var ukPrinter = message.NewPrinter(language.Ukrainian)

// CRMText is the block operators paste into a CRM order.
func CRMText(c domain.Certificate) string {
	return fmt.Sprintf("СЕРТИФІКАТ FENIX\nКод: %s\nСума: %d %s\nДіє до: %s\nСтворив: %s",
		c.Code, c.Amount, constants.Currency, c.ExpiryDate, c.ManagerName)
}

// Amount groups digits the uk-UA way, e.g. 1234567 -> "1 234 567" with
// non-breaking spaces.
func Amount(n int) string {
	return ukPrinter.Sprintf("%d", n)
}

// Currency is Amount followed by the currency sign.
func Currency(n int) string {
	return Amount(n) + " " + constants.Currency
}

// Date converts an ISO calendar date (YYYY-MM-DD) to DD.MM.YYYY.
func Date(iso string) (string, error) {
	t, err := time.Parse(domain.ExpiryDateLayout, iso)
	if err != nil {
		return "", fmt.Errorf("format: bad date %q: %w", iso, err)
	}
	return t.Format(displayDateLayout), nil
}

// DisplayDate renders t as DD.MM.YYYY in loc (UTC when loc is nil).
func DisplayDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(displayDateLayout)
}

// IssueComment is the manager comment attached to a new CRM order.
func IssueComment(code string, amount int, expiry, recipient, manager string) string {
	if strings.TrimSpace(recipient) == "" {
		recipient = "—"
	}
	return fmt.Sprintf("Сертифікат: %s | %d %s | до %s | Отримувач: %s | Менеджер: %s",
		code, amount, constants.Currency, expiry, recipient, manager)
}

// RedemptionMarker is appended to the CRM comment when a certificate is used.
func RedemptionMarker(code, orderRef string) string {
	s := "[ВИКОРИСТАНО] Сертифікат " + code
	if orderRef != "" {
		s += " | Замовлення: #" + orderRef
	}
	return s
}

// AppendComment adds line to an existing comment without dropping it.
func AppendComment(existing, line string) string {
	existing = strings.TrimRight(existing, "\n ")
	if existing == "" {
		return line
	}
	return existing + "\n" + line
}
