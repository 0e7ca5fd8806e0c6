package services

import "officeflow_app_go/models"

// LineInput is the totals engine's view of an invoice or quote row. Both
// line item models convert to it, so the engine stays independent of the
// persistence layer.
type LineInput struct {
	Description string
	Quantity    float64
	UnitPrice   float64
	VATRate     float64 // percentage, e.g. 21
	IsTextOnly  bool
}

// Totals is the derived subtotal/VAT/total triple. It is recomputed from
// its inputs on every change and never stored independently of them.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	VATAmount float64 `json:"vat_amount"`
	Total     float64 `json:"total"`
}

// LineTotal computes the derived line total: 0 for text-only rows, else
// quantity * unit price. Negative quantities and prices flow through
// unclamped so credit-note corrections stay expressible; input validation
// lives upstream.
func LineTotal(item LineInput) float64 {
	if item.IsTextOnly {
		return 0
	}
	return item.Quantity * item.UnitPrice
}

// CalculateTotals aggregates the line items under the given VAT display
// mode. Text-only rows contribute nothing. In exclusive mode the line
// total is net and VAT is added per line; in inclusive mode the line total
// is gross and the net price is backed out per line. Mixed rates sum
// independently. The grand total is computed once at the end from the two
// accumulators, never accumulated on its own.
func CalculateTotals(items []LineInput, mode string) Totals {
	var subtotal, vatAmount float64

	for _, item := range items {
		if item.IsTextOnly {
			continue
		}

		lineTotal := LineTotal(item)
		rate := item.VATRate / 100

		if mode == models.VATDisplayInclusive {
			net := lineTotal / (1 + rate)
			subtotal += net
			vatAmount += lineTotal - net
		} else {
			subtotal += lineTotal
			vatAmount += lineTotal * rate
		}
	}

	return Totals{
		Subtotal:  subtotal,
		VATAmount: vatAmount,
		Total:     subtotal + vatAmount,
	}
}

// InvoiceLineInputs converts invoice rows for the totals engine.
func InvoiceLineInputs(items []models.InvoiceLineItem) []LineInput {
	inputs := make([]LineInput, len(items))
	for i, item := range items {
		inputs[i] = LineInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			VATRate:     item.VATRate,
			IsTextOnly:  item.IsTextOnly,
		}
	}
	return inputs
}

// QuoteLineInputs converts quote rows for the totals engine.
func QuoteLineInputs(items []models.QuoteLineItem) []LineInput {
	inputs := make([]LineInput, len(items))
	for i, item := range items {
		inputs[i] = LineInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			VATRate:     item.VATRate,
			IsTextOnly:  item.IsTextOnly,
		}
	}
	return inputs
}

// ApplyLineTotals refreshes the cached LineTotal on invoice rows.
func ApplyLineTotals(items []models.InvoiceLineItem) {
	for i := range items {
		items[i].LineTotal = LineTotal(LineInput{
			Quantity:   items[i].Quantity,
			UnitPrice:  items[i].UnitPrice,
			IsTextOnly: items[i].IsTextOnly,
		})
	}
}

// ApplyQuoteLineTotals refreshes the cached LineTotal on quote rows.
func ApplyQuoteLineTotals(items []models.QuoteLineItem) {
	for i := range items {
		items[i].LineTotal = LineTotal(LineInput{
			Quantity:   items[i].Quantity,
			UnitPrice:  items[i].UnitPrice,
			IsTextOnly: items[i].IsTextOnly,
		})
	}
}
