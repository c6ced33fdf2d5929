package catalog

import (
	"fmt"
	"strings"
	"time"

	_ "embed"
)

//go:embed system_prompt.txt
var systemPromptTemplate string

// SystemPrompt renders the business rules sent ahead of every model call.
func (c *Catalog) SystemPrompt(now time.Time) string {
	bank := c.business.Bank

	templateValues := map[string]any{
		"name":           c.business.Name,
		"discount":       c.business.DiscountPercent,
		"price_list":     strings.TrimSpace(c.discountedList()),
		"address":        c.business.Address,
		"phone":          c.business.Phone,
		"whatsapp":       c.business.WhatsApp,
		"account_holder": bank.AccountHolder,
		"bank_name":      bank.BankName,
		"branch_code":    bank.BranchCode,
		"account_number": bank.AccountNumber,
		"today":          now.Format("Monday, 2 January 2006"),
	}

	prompt := systemPromptTemplate
	for key, value := range templateValues {
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", fmt.Sprint(value))
	}

	return strings.TrimSpace(prompt)
}
