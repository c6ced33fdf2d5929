package intent

import (
	"strings"
	"time"
)

type Kind int

const (
	KindFallback Kind = iota
	KindAdminReport
	KindPayment
	KindReminder
	KindPicture
	KindPrice
	KindBuy
	KindPromo
	KindRecommend
	KindInstallment
)

var kindNames = map[Kind]string{
	KindFallback:    "fallback",
	KindAdminReport: "admin_report",
	KindPayment:     "payment",
	KindReminder:    "reminder",
	KindPicture:     "picture",
	KindPrice:       "price",
	KindBuy:         "buy",
	KindPromo:       "promo",
	KindRecommend:   "recommend",
	KindInstallment: "installment",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Canned reports whether the intent is answered from the catalog without the model.
func (k Kind) Canned() bool {
	return k >= KindPicture && k <= KindInstallment
}

// Intent is the classified purpose of a message. Only the fields relevant
// to Kind are set.
type Intent struct {
	Kind Kind

	// Payment: text after the "paid" prefix
	Details string

	// Reminder
	Delay  time.Duration
	Amount int
	Unit   string
	Label  string
}

// Normalize is the only normalization applied before matching.
func Normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}
