package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/caffeinecoffee/storefront/internal/domain"
	"github.com/caffeinecoffee/storefront/internal/receipt"
)

// cartView is the JSON shape of the cart
type cartView struct {
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     int64             `json:"total"`
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeProducts(w io.Writer, products []domain.Product) {
	for _, p := range products {
		fmt.Fprintf(w, "%-16s %-24s %s\n", p.ID, p.Name, receipt.FormatRupiah(p.Price))
	}
}

func writeCart(w io.Writer, view cartView) {
	if len(view.Items) == 0 {
		fmt.Fprintln(w, "Your cart is empty")
		return
	}
	for _, item := range view.Items {
		fmt.Fprintf(w, "%-16s %3d x %-24s %s\n", item.ID, item.Quantity, item.Name, receipt.FormatRupiah(item.LineTotal()))
	}
	fmt.Fprintf(w, "%d item(s), total %s\n", view.ItemCount, receipt.FormatRupiah(view.Total))
}
