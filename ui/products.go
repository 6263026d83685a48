package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sahilm/fuzzy"

	"github.com/valeriapadilla/ChatBot-Ecommerce/catalog"
)

// productBrowser is the paginated product listing with a fuzzy name filter.
type productBrowser struct {
	filterInput textinput.Model
	filtering   bool
	selected    int
}

func newProductBrowser() productBrowser {
	filterInput := textinput.New()
	filterInput.Placeholder = "Filter products"
	filterInput.Width = 40
	filterInput.CharLimit = 100

	return productBrowser{filterInput: filterInput}
}

// visibleProducts applies the fuzzy filter to the loaded listing.
func (p *productBrowser) visibleProducts(all []catalog.Product) []catalog.Product {
	query := strings.TrimSpace(p.filterInput.Value())
	if query == "" {
		return all
	}

	names := make([]string, len(all))
	for i, prod := range all {
		names[i] = prod.Name
	}

	matches := fuzzy.Find(query, names)
	filtered := make([]catalog.Product, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, all[m.Index])
	}
	return filtered
}

func (p *productBrowser) view(store *catalog.Store, width, height int) string {
	var b strings.Builder

	b.WriteString(centerTitle("Products", width) + "\n\n")

	if p.filtering || p.filterInput.Value() != "" {
		b.WriteString(p.filterInput.View() + "\n\n")
	}

	visible := p.visibleProducts(store.Products())
	if len(visible) == 0 {
		b.WriteString(DimStyle.Render("No products loaded.") + "\n")
	}

	if p.selected >= len(visible) {
		p.selected = len(visible) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}

	maxRows := height - 8
	if maxRows < 1 {
		maxRows = 1
	}
	start := 0
	if p.selected >= maxRows {
		start = p.selected - maxRows + 1
	}

	for i := start; i < len(visible) && i < start+maxRows; i++ {
		prod := visible[i]
		stock := DimStyle.Render("out of stock")
		if prod.InStock {
			stock = UserStyle.Render("in stock")
		}
		line := fmt.Sprintf("%-40s  $%8.2f  %-12s  %s",
			truncate(prod.Name, 40), prod.Price, truncate(prod.Category, 12), stock)
		if i == p.selected {
			line = SelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if err := store.Err(); err != "" {
		b.WriteString("\n" + ErrorStyle.Render(err) + "\n")
	}

	footer := FormatFooter(
		"j/k", "Navigate",
		"n", "Next page",
		"/", "Filter",
		"esc", "Back to chat",
	)
	b.WriteString("\n" + HelpStyle.Render(footer))

	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
