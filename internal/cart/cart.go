// Package cart computes order totals from requested line items.  It is
// pure arithmetic: stock validation happens in the order workflow
// before the cart is finalized, never here.
package cart

// Line is one requested (item, quantity) pair priced at order time.
type Line struct {
	ItemID    uint64
	Qty       int
	UnitPrice int64
}

// PricedLine is a Line with its frozen net price (qty x unit price).
type PricedLine struct {
	ItemID    uint64
	Qty       int
	UnitPrice int64
	NetPrice  int64
}

// Totals aggregates a whole cart.
type Totals struct {
	Lines       []PricedLine
	TotalQty    int
	TotalAmount int64
}

// Aggregate prices every line and sums the cart.  Line order is
// preserved.  An empty input yields zero totals and no lines.
func Aggregate(lines []Line) Totals {
	t := Totals{Lines: make([]PricedLine, 0, len(lines))}
	for _, l := range lines {
		net := int64(l.Qty) * l.UnitPrice
		t.Lines = append(t.Lines, PricedLine{
			ItemID:    l.ItemID,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
			NetPrice:  net,
		})
		t.TotalQty += l.Qty
		t.TotalAmount += net
	}
	return t
}
