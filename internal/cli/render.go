package cli

import (
	"fmt"
	"io"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/retail-store/internal/domain/product"
	"github.com/xenking/retail-store/internal/domain/store"
)

// Format selects how listings and receipts are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a configured output format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", errors.Errorf("unsupported output format: %q", s)
	}
}

type renderer interface {
	products(w io.Writer, products []*product.Product) error
	totalQuantity(w io.Writer, total int) error
	receipt(w io.Writer, items []store.LineItem, total decimal.Decimal) error
	orderError(w io.Writer, err error) error
}

func newRenderer(f Format) renderer {
	if f == FormatJSON {
		return jsonRenderer{}
	}
	return textRenderer{}
}

type textRenderer struct{}

func (textRenderer) products(w io.Writer, products []*product.Product) error {
	if _, err := fmt.Fprintln(w, "------"); err != nil {
		return err
	}
	for i, p := range products {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, p); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "------")
	return err
}

func (textRenderer) totalQuantity(w io.Writer, total int) error {
	_, err := fmt.Fprintf(w, "Total: %d items in store\n\n", total)
	return err
}

func (textRenderer) receipt(w io.Writer, _ []store.LineItem, total decimal.Decimal) error {
	_, err := fmt.Fprintf(w, "Order made! Total payment: $%s\n\n", displayTotal(total))
	return err
}

func (textRenderer) orderError(w io.Writer, err error) error {
	_, werr := fmt.Fprintf(w, "Error making order: %v\n\n", err)
	return werr
}

// jsonRenderer writes one JSON document per line.
type jsonRenderer struct{}

func (jsonRenderer) products(w io.Writer, products []*product.Product) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("products")
	e.ArrStart()
	for i, p := range products {
		encodeProduct(&e, i+1, p)
	}
	e.ArrEnd()
	e.ObjEnd()
	return writeLine(w, &e)
}

func (jsonRenderer) totalQuantity(w io.Writer, total int) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("total_quantity")
	e.Int(total)
	e.ObjEnd()
	return writeLine(w, &e)
}

func (jsonRenderer) receipt(w io.Writer, items []store.LineItem, total decimal.Decimal) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("lines")
	e.ArrStart()
	for _, item := range items {
		e.ObjStart()
		e.FieldStart("product_id")
		e.Str(item.Product.ID().String())
		e.FieldStart("name")
		e.Str(item.Product.Name())
		e.FieldStart("quantity")
		e.Int(item.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("total")
	e.Raw([]byte(displayTotal(total)))
	e.ObjEnd()
	return writeLine(w, &e)
}

func (jsonRenderer) orderError(w io.Writer, err error) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("error")
	e.Str(err.Error())
	var lineErr *store.LineError
	if errors.As(err, &lineErr) {
		e.FieldStart("line")
		e.Int(lineErr.Line)
		e.FieldStart("applied")
		e.Raw([]byte(displayTotal(lineErr.Applied)))
	}
	e.ObjEnd()
	return writeLine(w, &e)
}

func encodeProduct(e *jx.Encoder, index int, p *product.Product) {
	e.ObjStart()
	e.FieldStart("index")
	e.Int(index)
	e.FieldStart("id")
	e.Str(p.ID().String())
	e.FieldStart("name")
	e.Str(p.Name())
	e.FieldStart("kind")
	e.Str(string(p.Kind()))
	e.FieldStart("price")
	e.Raw([]byte(p.Price().String()))
	switch p.Kind() {
	case product.KindNonStocked:
		e.FieldStart("quantity")
		e.Null()
	case product.KindLimited:
		e.FieldStart("quantity")
		e.Int(p.Quantity())
		e.FieldStart("maximum")
		e.Int(p.Maximum())
	default:
		e.FieldStart("quantity")
		e.Int(p.Quantity())
	}
	e.FieldStart("promotion")
	if promo := p.Promotion(); promo != nil {
		e.Str(promo.Name())
	} else {
		e.Null()
	}
	e.ObjEnd()
}

func writeLine(w io.Writer, e *jx.Encoder) error {
	buf := append(e.Bytes(), '\n')
	_, err := w.Write(buf)
	return err
}

// displayTotal rounds to cents; integral totals print without decimals.
func displayTotal(total decimal.Decimal) string {
	return total.Round(2).String()
}
