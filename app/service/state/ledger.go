package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/elliotchance/pie/v2"
)

type SaleStatus string

const (
	StatusPending   SaleStatus = "pending"
	StatusCompleted SaleStatus = "completed"
	StatusPromised  SaleStatus = "promised"
)

const unspecifiedItem = "unspecified order"

// PaymentMatch tells what a payment confirmation was applied to.
type PaymentMatch int

const (
	// MatchNone means no open sale existed and a completed one was recorded.
	MatchNone PaymentMatch = iota
	MatchPending
	MatchLayBy
)

type Sale struct {
	ID        int
	SessionID string
	Item      string
	Amount    int
	Status    SaleStatus
	Date      time.Time
	// Installments counts payments made towards a promised sale.
	Installments int
}

type Counts struct {
	Completed int
	Pending   int
	Promised  int
}

// Ledger keeps every sale in exactly one of three status lists. It has no
// lock of its own; the Store serializes access.
type Ledger struct {
	defaultAmount int
	nextID        int

	completed []Sale
	pending   []Sale
	promised  []Sale
}

func NewLedger(defaultAmount int) *Ledger {
	return &Ledger{defaultAmount: defaultAmount}
}

func (l *Ledger) DefaultAmount() int {
	return l.defaultAmount
}

func (l *Ledger) RecordPending(sessionID, item string, amount int, now time.Time) Sale {
	sale := l.newSale(sessionID, item, amount, StatusPending, now)
	l.pending = append(l.pending, sale)
	return sale
}

func (l *Ledger) RecordPromised(sessionID, item string, amount int, now time.Time) Sale {
	sale := l.newSale(sessionID, item, amount, StatusPromised, now)
	l.promised = append(l.promised, sale)
	return sale
}

// ConfirmPaid completes the oldest pending sale of the session. Without one
// the payment counts as an installment on the oldest lay-by of the session,
// which stays promised. Only when the session has neither is a completed
// sale recorded for the default amount.
func (l *Ledger) ConfirmPaid(sessionID, details string, now time.Time) (Sale, PaymentMatch) {
	ofSession := func(s Sale) bool {
		return s.SessionID == sessionID
	}

	if idx := pie.FindFirstUsing(l.pending, ofSession); idx >= 0 {
		sale := l.pending[idx]
		l.pending = append(l.pending[:idx:idx], l.pending[idx+1:]...)

		sale.Status = StatusCompleted
		sale.Date = now
		l.completed = append(l.completed, sale)

		return sale, MatchPending
	}

	if idx := pie.FindFirstUsing(l.promised, ofSession); idx >= 0 {
		l.promised[idx].Installments++
		return l.promised[idx], MatchLayBy
	}

	item := strings.TrimSpace(details)
	if item == "" {
		item = unspecifiedItem
	}

	sale := l.newSale(sessionID, item, l.defaultAmount, StatusCompleted, now)
	l.completed = append(l.completed, sale)

	return sale, MatchNone
}

func (l *Ledger) Counts() Counts {
	return Counts{
		Completed: len(l.completed),
		Pending:   len(l.pending),
		Promised:  len(l.promised),
	}
}

func (l *Ledger) Sales(status SaleStatus) []Sale {
	var src []Sale
	switch status {
	case StatusCompleted:
		src = l.completed
	case StatusPending:
		src = l.pending
	case StatusPromised:
		src = l.promised
	}

	result := make([]Sale, len(src))
	copy(result, src)
	return result
}

// Report renders the ledger as markdown. Promised sales are limited to the
// ones dated on the same calendar day as now.
func (l *Ledger) Report(now time.Time) string {
	promisedToday := pie.Filter(l.promised, func(s Sale) bool {
		return sameDay(s.Date, now)
	})

	var b strings.Builder

	fmt.Fprintf(&b, "**📊 Sales Report (%s)**\n\n", now.Format(dateLayout))

	writeSection(&b, "Completed", l.completed)
	writeSection(&b, "Pending", l.pending)
	writeSection(&b, "Promised today", promisedToday)

	fmt.Fprintf(&b, "**Total completed:** R%d\n", sumAmounts(l.completed))

	return b.String()
}

func (l *Ledger) newSale(sessionID, item string, amount int, status SaleStatus, now time.Time) Sale {
	l.nextID++

	return Sale{
		ID:        l.nextID,
		SessionID: sessionID,
		Item:      item,
		Amount:    amount,
		Status:    status,
		Date:      now,
	}
}

const dateLayout = "2006-01-02"

func writeSection(b *strings.Builder, title string, sales []Sale) {
	fmt.Fprintf(b, "%s: %d\n\n", title, len(sales))

	for _, s := range sales {
		fmt.Fprintf(b, "- #%d %s | %s | R%d | session %s",
			s.ID, s.Date.Format(dateLayout), s.Item, s.Amount, shortID(s.SessionID))
		if s.Installments > 0 {
			fmt.Fprintf(b, " | %d installments paid", s.Installments)
		}
		b.WriteString("\n")
	}

	if len(sales) > 0 {
		b.WriteString("\n")
	}
}

func sumAmounts(sales []Sale) int {
	total := 0
	for _, s := range sales {
		total += s.Amount
	}
	return total
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
