package ui

import (
	"fmt"
	"strings"
)

func (m Model) renderWishlist() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.wishlist.IsLoading() && m.wishSnap.Empty() {
		b.WriteString(m.styles.Muted.Render(m.spinner.View() + " loading wishlist"))
		b.WriteString("\n")
		return b.String()
	}

	if errText := m.wishlist.Err(); errText != "" {
		b.WriteString(m.styles.Danger.Render(errText))
		b.WriteString("\n\n")
	}

	if m.wishSnap.Empty() {
		b.WriteString(m.styles.Muted.Render("your wishlist is empty"))
		b.WriteString("\n\n")
		b.WriteString(m.renderNotices())
		b.WriteString(m.renderWishlistHelp())
		return b.String()
	}

	for i, product := range m.wishSnap.Products {
		cursor := "  "
		style := m.styles.Text
		if i == m.wishSelected {
			cursor = "> "
			style = m.styles.Selected
		}

		price := money(product.SellingPrice, m.cfg.Currency)
		if product.Price.GreaterThan(product.SellingPrice) {
			price = m.styles.Strike.Render(money(product.Price, m.cfg.Currency)) + " " + price
		}

		variants := m.styles.Muted.Render(fmt.Sprintf("%d variants", len(product.Variants)))
		if variant, ok := product.FirstVariant(); ok && len(product.Variants) == 1 {
			variants = m.styles.Muted.Render(variant.Color + "/" + variant.Size)
		}

		row := fmt.Sprintf("%s%-*s  %s  %s",
			cursor, nameColumnWidth, truncate(product.Name, nameColumnWidth), price, variants)
		b.WriteString(style.Render(row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderNotices())
	b.WriteString(m.renderWishlistHelp())
	return b.String()
}

func (m Model) renderWishlistHelp() string {
	return m.styles.Muted.Render("j/k move · a add to cart · d remove · tab switch · q quit")
}
