package format

import (
	"strings"
	"testing"
	"time"
	"unicode"

	"fenix-certificates/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainSpaces maps locale grouping spaces (NBSP, narrow NBSP) to ' '.
func plainSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Zs, r) {
			return ' '
		}
		return r
	}, s)
}

func TestAmount_GroupsByThousands(t *testing.T) {
	assert.Equal(t, "1 234 567", plainSpaces(Amount(1234567)))
	assert.Equal(t, "500", plainSpaces(Amount(500)))
	assert.Equal(t, "5 000", plainSpaces(Amount(5000)))
	assert.NotContains(t, Amount(1234567), ",")
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "2 000 грн", plainSpaces(Currency(2000)))
}

func TestDate(t *testing.T) {
	got, err := Date("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, "01.06.2025", got)

	_, err = Date("2025/06/01")
	assert.Error(t, err)
	_, err = Date("")
	assert.Error(t, err)
}

func TestDisplayDate(t *testing.T) {
	ts := time.Date(2025, 6, 1, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, "01.06.2025", DisplayDate(ts, nil))
	kyiv := time.FixedZone("EEST", 3*60*60)
	assert.Equal(t, "02.06.2025", DisplayDate(ts, kyiv))
}

func TestCRMText_FieldOrder(t *testing.T) {
	c := domain.Certificate{
		Code:        "FNX-2025-ABCDEF",
		Amount:      1000,
		ExpiryDate:  "2025-12-01",
		ManagerName: "Олена",
	}
	assert.Equal(t, "СЕРТИФІКАТ FENIX\nКод: FNX-2025-ABCDEF\nСума: 1000 грн\nДіє до: 2025-12-01\nСтворив: Олена", CRMText(c))
}

func TestIssueComment(t *testing.T) {
	assert.Equal(t,
		"Сертифікат: FNX-2025-ABCDEF | 500 грн | до 2025-12-01 | Отримувач: — | Менеджер: Менеджер",
		IssueComment("FNX-2025-ABCDEF", 500, "2025-12-01", "", "Менеджер"))
	assert.Contains(t, IssueComment("C", 1, "d", "Іванов І.І.", "M"), "Отримувач: Іванов І.І.")
}

func TestRedemptionMarkerAndAppend(t *testing.T) {
	assert.Equal(t, "[ВИКОРИСТАНО] Сертифікат FNX-2025-ABCDEF", RedemptionMarker("FNX-2025-ABCDEF", ""))
	assert.Equal(t, "[ВИКОРИСТАНО] Сертифікат FNX-2025-ABCDEF | Замовлення: #42", RedemptionMarker("FNX-2025-ABCDEF", "42"))

	assert.Equal(t, "new", AppendComment("", "new"))
	assert.Equal(t, "old\nnew", AppendComment("old\n", "new"))
}
