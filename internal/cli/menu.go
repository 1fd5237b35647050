// Package cli implements the interactive store menu.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/retail-store/internal/domain/product"
	"github.com/xenking/retail-store/internal/domain/store"
)

const menuText = `
   Store Menu
   ----------
1. List all products in store
2. Show total amount in store
3. Make an order
4. Quit`

// errEndOfInput signals that the input stream was closed mid-session.
var errEndOfInput = errors.New("end of input")

// Menu drives a store through a numbered text menu read from in.
type Menu struct {
	store  *store.Store
	in     *bufio.Scanner
	out    io.Writer
	render renderer
}

// NewMenu creates a Menu reading choices from in and writing to out.
func NewMenu(s *store.Store, in io.Reader, out io.Writer, format Format) *Menu {
	return &Menu{
		store:  s,
		in:     bufio.NewScanner(in),
		out:    out,
		render: newRenderer(format),
	}
}

// Run shows the menu until the user quits, the input ends or ctx is done.
func (m *Menu) Run(ctx context.Context) error {
	lg := zctx.From(ctx)
	lg.Debug("Menu session started")
	defer lg.Debug("Menu session ended")

	for {
		if ctx.Err() != nil {
			return nil
		}

		if _, err := fmt.Fprintln(m.out, menuText); err != nil {
			return err
		}
		choice, err := m.prompt("Please choose a number: ")
		if errors.Is(err, errEndOfInput) {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(choice) {
		case "1":
			_, err = m.listProducts()
		case "2":
			err = m.render.totalQuantity(m.out, m.store.TotalQuantity())
		case "3":
			err = m.makeOrder(ctx)
		case "4":
			return nil
		default:
			lg.Debug("Unknown menu choice", zap.String("choice", choice))
		}
		if errors.Is(err, errEndOfInput) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) listProducts() ([]*product.Product, error) {
	active := m.store.ActiveProducts()
	return active, m.render.products(m.out, active)
}

// makeOrder collects line items until an empty answer and places the order.
// A line is rejected up front when, together with earlier lines for the same
// product, it would exceed the per-order maximum or the stock in hand.
func (m *Menu) makeOrder(ctx context.Context) error {
	active, err := m.listProducts()
	if err != nil {
		return err
	}

	var items []store.LineItem
	if _, err := fmt.Fprintln(m.out, "When you want to finish order, enter empty text."); err != nil {
		return err
	}

	for {
		choice, err := m.prompt("Which product # do you want? ")
		if err != nil {
			return err
		}
		if choice == "" {
			break
		}

		amountStr, err := m.prompt("What amount do you want? ")
		if err != nil {
			return err
		}
		if amountStr == "" {
			if _, err := fmt.Fprintln(m.out, "********"); err != nil {
				return err
			}
			break
		}

		item, ok := parseLine(active, items, choice, amountStr)
		if !ok {
			if _, err := fmt.Fprint(m.out, "Error adding product!\n\n"); err != nil {
				return err
			}
			continue
		}
		items = append(items, item)
		if _, err := fmt.Fprint(m.out, "Product added to list!\n\n"); err != nil {
			return err
		}
	}

	if len(items) == 0 {
		return nil
	}

	total, err := m.store.Order(ctx, items)
	if err != nil {
		zctx.From(ctx).Info("Order rejected", zap.Error(err))
		return m.render.orderError(m.out, err)
	}
	return m.render.receipt(m.out, items, total)
}

func parseLine(active []*product.Product, items []store.LineItem, choice, amountStr string) (store.LineItem, bool) {
	num, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil {
		return store.LineItem{}, false
	}
	amount, err := strconv.Atoi(strings.TrimSpace(amountStr))
	if err != nil {
		return store.LineItem{}, false
	}
	if num < 1 || num > len(active) || amount <= 0 {
		return store.LineItem{}, false
	}

	p := active[num-1]
	already := 0
	for _, item := range items {
		if item.Product.ID() == p.ID() {
			already += item.Quantity
		}
	}
	// Compared against the remaining allowance so huge amounts cannot wrap.
	if p.Kind() == product.KindLimited && amount > p.Maximum()-already {
		return store.LineItem{}, false
	}
	if p.Quantity() != 0 && amount > p.Quantity()-already {
		return store.LineItem{}, false
	}
	return store.LineItem{Product: p, Quantity: amount}, true
}

// prompt writes label and returns the next input line. Only an empty line
// counts as empty; whitespace is left for the caller to judge.
func (m *Menu) prompt(label string) (string, error) {
	if _, err := fmt.Fprint(m.out, label); err != nil {
		return "", err
	}
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", errors.Wrap(err, "read input")
		}
		return "", errEndOfInput
	}
	return strings.TrimSuffix(m.in.Text(), "\r"), nil
}
