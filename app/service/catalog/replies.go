package catalog

import (
	"fmt"
	"strings"
)

func (c *Catalog) PictureReply() string {
	return fmt.Sprintf(`**📸 iPhone Images**

**🔗 View iPhone Pictures Here:**
👉 [Click to View iPhone Images](%s)

**💬 Need Help?**
If you have any issues viewing the pictures, you can request them via WhatsApp at:
**📞 %s**

**🎨 Looking for a specific color?**
Let me know, and I can provide more details based on your preference!`,
		c.business.GalleryURL, c.business.PicturesWhatsApp)
}

func (c *Catalog) PriceReply() string {
	var b strings.Builder

	fmt.Fprintf(&b, "**💰 iPhone Prices (%d%% off already applied)**\n\n", c.business.DiscountPercent)
	b.WriteString(c.priceList())
	fmt.Fprintf(&b, "\nTell me which model you like and I will help you order it via WhatsApp **%s**.",
		c.business.WhatsApp)

	return b.String()
}

func (c *Catalog) BuyReply(p Product, known bool) string {
	var b strings.Builder

	if known {
		fmt.Fprintf(&b, "**🛒 Great choice: %s for R%d**\n\n", p.Model, c.Price(p))
	} else {
		b.WriteString("**🛒 Let's get your order started!**\n\n")
		b.WriteString("Please tell us which model and color you want.\n\n")
	}

	fmt.Fprintf(&b, "✅ **Order Submission:** send the model and color to 📩 **%s**\n\n", c.business.WhatsApp)
	b.WriteString(c.bankingDetails())
	b.WriteString("\nOnce you have paid, reply with **paid** so we can confirm your order.")

	return b.String()
}

func (c *Catalog) PromoReply() string {
	cheapest := c.Cheapest()

	return fmt.Sprintf(`**🔥 Current Promotion**

Every iPhone is **%d%% off** right now, starting from **R%d** for the %s.

Ask me for the *price list* to see every model.`,
		c.business.DiscountPercent, c.Price(cheapest), cheapest.Model)
}

func (c *Catalog) RecommendReply() string {
	pick := func(model string) string {
		for _, p := range products {
			if p.Model == model {
				return fmt.Sprintf("**%s** (R%d)", p.Model, c.Price(p))
			}
		}
		return model
	}

	return fmt.Sprintf(`**⭐ Our Recommendations**

- **Best value:** %s
- **Best all-rounder:** %s
- **Top of the range:** %s

Every model comes in several colors, engravings and accessory bundles are available.`,
		pick("iPhone 13 Pro"), pick("iPhone 15 Pro"), pick("iPhone 16 Pro Max"))
}

func (c *Catalog) InstallmentReply(p Product, known bool) string {
	var b strings.Builder

	b.WriteString("**🗓️ Lay-by / Installments**\n\n")
	if known {
		fmt.Fprintf(&b, "We have noted your lay-by for the **%s (R%d)**.\n\n", p.Model, c.Price(p))
	}
	b.WriteString("Pay a deposit and settle the balance in installments; the phone is released once it is fully paid.\n\n")
	b.WriteString(c.bankingDetails())
	b.WriteString("\nReply with **paid** after each payment.")

	return b.String()
}

func (c *Catalog) PaymentReply(item string, amount int, existing bool) string {
	if existing {
		return fmt.Sprintf(`**✅ Payment noted for %s (R%d)**

Please send your **proof of payment** to WhatsApp 📩 **%s**. Orders are confirmed once proof of payment is received.`,
			item, amount, c.business.WhatsApp)
	}

	return fmt.Sprintf(`**✅ Thank you for your payment!**

Please send your **proof of payment** and the model you ordered to WhatsApp 📩 **%s** so we can match it to your order.`,
		c.business.WhatsApp)
}

func (c *Catalog) InstallmentPaymentReply(item string, amount, installments int) string {
	return fmt.Sprintf(`**✅ Installment %d noted for your lay-by: %s (R%d)**

Please send your **proof of payment** to WhatsApp 📩 **%s**. Your phone is released once the full amount is paid.`,
		installments, item, amount, c.business.WhatsApp)
}

func (c *Catalog) ReminderReply(amount int, unit, label string) string {
	return fmt.Sprintf("⏰ Got it! I'll remind you about **%s** in %d %s.", label, amount, unit)
}

func (c *Catalog) priceList() string {
	var b strings.Builder

	for _, p := range products {
		fmt.Fprintf(&b, "- **%s:** ~~R%d~~ **R%d**\n", p.Model, p.ListPrice, c.Price(p))
	}

	return b.String()
}

func (c *Catalog) bankingDetails() string {
	bank := c.business.Bank

	return fmt.Sprintf(`✅ **Banking Details:**
- **Account Holder:** %s
- **Bank Name:** %s
- **Branch Code:** %s
- **Account Number:** %s

Send **proof of payment** to WhatsApp 📩 **%s**.
`, bank.AccountHolder, bank.BankName, bank.BranchCode, bank.AccountNumber, c.business.WhatsApp)
}

func (c *Catalog) discountedList() string {
	var b strings.Builder

	for _, p := range products {
		fmt.Fprintf(&b, "- %s: R%d\n", p.Model, c.Price(p))
	}

	return b.String()
}
