package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/elliotchance/pie/v2"
)

const (
	paymentPrefix      = "paid"
	DefaultReminder    = "check in on your iPhone order"
	maxReminderAmount  = 100000
	reminderLabelDelim = "about"
)

var reminderPattern = regexp.MustCompile(
	`remind me in (\d+) (minutes|minute|hours|hour|days|day)\b(?:\s+` + reminderLabelDelim + `\s+(.+))?`,
)

var unitSeconds = map[string]time.Duration{
	"minute":  time.Minute,
	"minutes": time.Minute,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"day":     24 * time.Hour,
	"days":    24 * time.Hour,
}

// keyword sets in match order
var keywordRules = []struct {
	kind     Kind
	keywords []string
}{
	{KindPicture, []string{"picture", "image", "photo"}},
	{KindPrice, []string{"price", "cost", "how much"}},
	{KindBuy, []string{"buy", "order", "purchase"}},
	{KindPromo, []string{"promo", "discount", "special", "deal"}},
	{KindRecommend, []string{"recommend", "suggest", "which iphone"}},
	{KindInstallment, []string{"installment", "lay-by", "layby", "payment plan"}},
}

type rule struct {
	kind  Kind
	match func(msg string) (Intent, bool)
}

// Classifier maps a message to exactly one Intent. Rules are evaluated in
// order and the first match wins.
type Classifier struct {
	rules []rule
}

func NewClassifier(adminPhrase string) *Classifier {
	adminPhrase = Normalize(adminPhrase)

	rules := []rule{
		{KindAdminReport, func(msg string) (Intent, bool) {
			if adminPhrase == "" || !strings.Contains(msg, adminPhrase) {
				return Intent{}, false
			}
			return Intent{Kind: KindAdminReport}, true
		}},
		{KindPayment, matchPayment},
		{KindReminder, matchReminder},
	}

	for _, kr := range keywordRules {
		kind, keywords := kr.kind, kr.keywords
		rules = append(rules, rule{kind, func(msg string) (Intent, bool) {
			if !pie.Any(keywords, func(kw string) bool { return strings.Contains(msg, kw) }) {
				return Intent{}, false
			}
			return Intent{Kind: kind}, true
		}})
	}

	return &Classifier{rules: rules}
}

func (c *Classifier) Classify(message string) Intent {
	msg := Normalize(message)

	for _, r := range c.rules {
		if result, ok := r.match(msg); ok {
			return result
		}
	}

	return Intent{Kind: KindFallback}
}

func matchPayment(msg string) (Intent, bool) {
	if !strings.HasPrefix(msg, paymentPrefix) {
		return Intent{}, false
	}

	return Intent{
		Kind:    KindPayment,
		Details: strings.TrimSpace(strings.TrimPrefix(msg, paymentPrefix)),
	}, true
}

func matchReminder(msg string) (Intent, bool) {
	m := reminderPattern.FindStringSubmatch(msg)
	if m == nil {
		return Intent{}, false
	}

	amount, err := strconv.Atoi(m[1])
	if err != nil || amount > maxReminderAmount {
		return Intent{}, false
	}

	label := strings.TrimSpace(m[3])
	if label == "" {
		label = DefaultReminder
	}

	return Intent{
		Kind:   KindReminder,
		Delay:  time.Duration(amount) * unitSeconds[m[2]],
		Amount: amount,
		Unit:   m[2],
		Label:  label,
	}, true
}
