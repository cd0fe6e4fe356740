package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/angelmondragon/packfinderz-storefront/internal/notify"
)

const nameColumnWidth = 28

func (m Model) renderCart() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.cart.IsLoading() && m.cartSnap.Empty() {
		b.WriteString(m.styles.Muted.Render(m.spinner.View() + " loading cart"))
		b.WriteString("\n")
		return b.String()
	}

	if m.cartSnap.Empty() {
		b.WriteString(m.styles.Muted.Render("your cart is empty"))
		b.WriteString("\n\n")
		b.WriteString(m.renderNotices())
		b.WriteString(m.renderCartHelp())
		return b.String()
	}

	for i, line := range m.cartSnap.Lines {
		cursor := "  "
		style := m.styles.Text
		if i == m.selected {
			cursor = "> "
			style = m.styles.Selected
		}

		qty := fmt.Sprintf("%3d", line.Quantity)
		if ed, ok := m.editors[line.ID]; ok {
			qty = fmt.Sprintf("%3s", ed.Display())
		}
		if m.editing && i == m.selected {
			qty = m.qtyInput.View()
		}
		if m.cart.LineBusy(line.ID) {
			qty = m.styles.Warning.Render(qty + "*")
		}

		price := money(line.UnitSellingPrice, m.cfg.Currency)
		if line.UnitPrice.GreaterThan(line.UnitSellingPrice) {
			price = m.styles.Strike.Render(money(line.UnitPrice, m.cfg.Currency)) + " " + price
		}

		row := fmt.Sprintf("%s%-*s  %s  × %s",
			cursor, nameColumnWidth, truncate(line.Name, nameColumnWidth), price, qty)
		if m.wishlist.Contains(line.ProductID) {
			row += "  " + m.styles.Danger.Render("♥")
		}
		b.WriteString(style.Render(row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderCouponRow())
	b.WriteString("\n")
	b.WriteString(m.renderPricingFooter())
	b.WriteString("\n")
	b.WriteString(m.renderNotices())
	b.WriteString(m.renderCartHelp())
	return b.String()
}

func (m Model) renderCouponRow() string {
	if m.couponMode {
		return m.couponInput.View()
	}
	if m.cartSnap.HasCoupon() {
		return m.styles.Success.Render(fmt.Sprintf("coupon %s (-%s%%)",
			m.cartSnap.CouponCode, m.cartSnap.DiscountPercent.String()))
	}
	return m.styles.Muted.Render("press c to apply a coupon")
}

// renderPricingFooter shows the derived breakdown. The subtotal is the
// pre-coupon selling total; sale savings already show per line as the
// struck-through original price, so the only footer discount row is the
// coupon's.
func (m Model) renderPricingFooter() string {
	var b strings.Builder
	rule := m.styles.FooterRule.Render(strings.Repeat("─", 44))
	currency := m.cfg.Currency

	b.WriteString(rule)
	b.WriteString("\n")

	b.WriteString(footerRow("subtotal", money(m.breakdown.PreCouponSelling, currency), m.styles.Text))
	if m.breakdown.ShowCouponDiscount() {
		label := "coupon"
		if m.cartSnap.CouponCode != "" {
			label = "coupon " + m.cartSnap.CouponCode
		}
		b.WriteString(footerRow(label, "-"+money(m.breakdown.CouponDiscount, currency), m.styles.Success))
	}
	if m.breakdown.Shipping.IsPositive() {
		b.WriteString(footerRow("shipping", money(m.breakdown.Shipping, currency), m.styles.Text))
	}
	b.WriteString(footerRow("total", money(m.breakdown.GrandTotal, currency), m.styles.Title))
	return b.String()
}

func footerRow(label, amount string, style lipgloss.Style) string {
	return style.Render(fmt.Sprintf("%-20s %12s", label, amount)) + "\n"
}

func (m Model) renderNotices() string {
	if len(m.recent) == 0 {
		return ""
	}
	var b strings.Builder
	for _, n := range m.recent {
		style := m.styles.Muted
		switch n.level {
		case notify.LevelError:
			style = m.styles.Danger
		case notify.LevelWarning:
			style = m.styles.Warning
		case notify.LevelSuccess:
			style = m.styles.Success
		}
		b.WriteString(style.Render("• " + n.message))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderTabs() string {
	cartTab := m.styles.TabIdle.Render("cart")
	wishTab := m.styles.TabIdle.Render("wishlist")
	if m.view == ViewCart {
		cartTab = m.styles.TabActive.Render("cart")
	} else {
		wishTab = m.styles.TabActive.Render("wishlist")
	}

	title := m.styles.Title.Render("storefront")
	count := ""
	if m.cartSnap.TotalItemCount > 0 {
		count = m.styles.Muted.Render(fmt.Sprintf(" (%d items)", m.cartSnap.TotalItemCount))
	}
	return fmt.Sprintf("%s%s   %s │ %s", title, count, cartTab, wishTab)
}

func (m Model) renderCartHelp() string {
	if m.editing {
		return m.styles.Muted.Render("type a quantity · enter commit · esc cancel")
	}
	if m.couponMode {
		return m.styles.Muted.Render("enter apply · esc cancel")
	}
	return m.styles.Muted.Render("j/k move · +/- quantity · e edit qty · d remove · c coupon · w wishlist · tab switch · q quit")
}
