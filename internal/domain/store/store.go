// Package store holds a collection of products and executes orders against
// it.
package store

import (
	"context"
	"math"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/retail-store/internal/domain/product"
)

// LineItem is a single (product, quantity) request within an order.
type LineItem struct {
	Product  *product.Product
	Quantity int
}

// Store owns an ordered collection of products. The same product may be
// added more than once.
//
// A Store and its products are not safe for concurrent use. Order performs
// check-then-write sequences per line, so a concurrent host must serialize
// all access to one store and its products.
type Store struct {
	products []*product.Product

	lg      *zap.Logger
	tracer  trace.Tracer
	metrics *storeMetrics
}

// New creates a store holding the given products in order.
func New(products []*product.Product, opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m, err := newStoreMetrics(o.meterProvider.Meter(instrumentationName))
	if err != nil {
		return nil, errors.Wrap(err, "create metrics")
	}

	s := &Store{
		products: make([]*product.Product, 0, len(products)),
		lg:       o.lg,
		tracer:   o.tracerProvider.Tracer(instrumentationName),
		metrics:  m,
	}
	s.products = append(s.products, products...)
	return s, nil
}

// AddProduct appends p to the collection.
func (s *Store) AddProduct(p *product.Product) {
	s.products = append(s.products, p)
}

// RemoveProduct removes the first occurrence of p. It returns ErrNotFound
// when p is not a member.
func (s *Store) RemoveProduct(p *product.Product) error {
	idx := s.indexOf(p)
	if idx < 0 {
		return errors.Wrapf(ErrNotFound, "remove %q", productName(p))
	}
	s.products = append(s.products[:idx], s.products[idx+1:]...)
	return nil
}

// Contains reports whether p is a member of the store.
func (s *Store) Contains(p *product.Product) bool {
	return s.indexOf(p) >= 0
}

// indexOf matches by product identity, never by name.
func (s *Store) indexOf(p *product.Product) int {
	if p == nil {
		return -1
	}
	for i, m := range s.products {
		if m.ID() == p.ID() {
			return i
		}
	}
	return -1
}

// TotalQuantity returns the summed stock of every member, active or not.
func (s *Store) TotalQuantity() int {
	total := 0
	for _, p := range s.products {
		total += p.Quantity()
	}
	return total
}

// ActiveProducts returns the active members in collection order.
func (s *Store) ActiveProducts() []*product.Product {
	active := make([]*product.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active
}

// Products returns every member in collection order.
func (s *Store) Products() []*product.Product {
	out := make([]*product.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Order buys each line in the given order and returns the summed price.
//
// Lines are not applied atomically: when a line fails, purchases made by
// earlier lines stay in effect and a *LineError describing the failed line
// is returned. Each purchase is validated against the product state at the
// time it runs, so a later line sees stock taken by an earlier one.
func (s *Store) Order(ctx context.Context, items []LineItem) (decimal.Decimal, error) {
	ctx, span := s.tracer.Start(ctx, "store.Order",
		trace.WithAttributes(attribute.Int("order.lines", len(items))),
	)
	defer span.End()

	total := decimal.Zero
	var units int64
	for i, item := range items {
		line := i + 1
		amount, err := s.buy(item)
		if err != nil {
			lineErr := &LineError{Line: line, Applied: total, Err: err}
			s.lg.Warn("Order line failed",
				zap.Int("line", line),
				zap.String("product", productName(item.Product)),
				zap.Int("quantity", item.Quantity),
				zap.Stringer("applied", total),
				zap.Error(err),
			)
			span.RecordError(lineErr)
			span.SetStatus(codes.Error, lineErr.Error())
			s.metrics.record(ctx, false, units, total)
			return decimal.Zero, lineErr
		}
		total = total.Add(amount)
		units = addUnits(units, item.Quantity)
	}

	span.SetAttributes(attribute.String("order.total", total.String()))
	s.metrics.record(ctx, true, units, total)
	s.lg.Info("Order made",
		zap.Int("lines", len(items)),
		zap.Int64("units", units),
		zap.Stringer("total", total),
	)
	return total, nil
}

func (s *Store) buy(item LineItem) (decimal.Decimal, error) {
	if !s.Contains(item.Product) {
		return decimal.Zero, errors.Wrapf(ErrProductNotInStore, "product %q", productName(item.Product))
	}
	return item.Product.Buy(item.Quantity)
}

func productName(p *product.Product) string {
	if p == nil {
		return "<nil>"
	}
	return p.Name()
}

// storeMetrics groups the order instruments.
type storeMetrics struct {
	orders    metric.Int64Counter
	unitsSold metric.Int64Counter
	revenue   metric.Float64Counter
}

func newStoreMetrics(meter metric.Meter) (*storeMetrics, error) {
	orders, err := meter.Int64Counter("store.orders",
		metric.WithDescription("Orders placed, by outcome"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "store.orders")
	}
	unitsSold, err := meter.Int64Counter("store.units_sold",
		metric.WithDescription("Units sold across all products"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "store.units_sold")
	}
	revenue, err := meter.Float64Counter("store.revenue",
		metric.WithDescription("Summed order totals"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "store.revenue")
	}
	return &storeMetrics{orders: orders, unitsSold: unitsSold, revenue: revenue}, nil
}

// record counts applied units and revenue for failed orders too, as lines
// before the failure are not rolled back.
func (m *storeMetrics) record(ctx context.Context, ok bool, units int64, total decimal.Decimal) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.orders.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	if units > 0 {
		m.unitsSold.Add(ctx, units)
	}
	if total.IsPositive() {
		m.revenue.Add(ctx, total.InexactFloat64())
	}
}

// addUnits saturates at math.MaxInt64. Quantities are positive here since
// Buy rejects anything else.
func addUnits(sum int64, quantity int) int64 {
	if int64(quantity) > math.MaxInt64-sum {
		return math.MaxInt64
	}
	return sum + int64(quantity)
}
