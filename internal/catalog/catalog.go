// Package catalog builds store products and promotions from a JSON catalog
// document.
package catalog

import (
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/xenking/retail-store/internal/domain/product"
	"github.com/xenking/retail-store/internal/domain/promotion"
	"github.com/xenking/retail-store/seed"
)

// Document is a parsed catalog.
type Document struct {
	Promotions []PromotionSpec
	Products   []ProductSpec
}

// PromotionSpec describes a promotion that products refer to by ID.
type PromotionSpec struct {
	ID      string
	Kind    promotion.Kind
	Name    string
	Percent decimal.Decimal
}

// ProductSpec describes a single product. Kind defaults to standard.
type ProductSpec struct {
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Kind      product.Kind
	Maximum   int
	Promotion string
}

// Default parses the embedded default catalog.
func Default() (*Document, error) {
	doc, err := Parse(seed.Catalog)
	if err != nil {
		return nil, errors.Wrap(err, "parse default catalog")
	}
	return doc, nil
}

// Load reads a catalog file. Files ending in .gz are decompressed.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return doc, nil
}

// Parse decodes a catalog document. Numbers are decoded exactly into
// decimals.
func Parse(data []byte) (*Document, error) {
	var doc Document
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "promotions":
			return d.Arr(func(d *jx.Decoder) error {
				spec, err := decodePromotion(d)
				if err != nil {
					return errors.Wrapf(err, "promotion %d", len(doc.Promotions)+1)
				}
				doc.Promotions = append(doc.Promotions, spec)
				return nil
			})
		case "products":
			return d.Arr(func(d *jx.Decoder) error {
				spec, err := decodeProduct(d)
				if err != nil {
					return errors.Wrapf(err, "product %d", len(doc.Products)+1)
				}
				doc.Products = append(doc.Products, spec)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func decodePromotion(d *jx.Decoder) (PromotionSpec, error) {
	var spec PromotionSpec
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			spec.ID, err = d.Str()
		case "kind":
			var kind string
			kind, err = d.Str()
			spec.Kind = promotion.Kind(kind)
		case "name":
			spec.Name, err = d.Str()
		case "percent":
			spec.Percent, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	return spec, err
}

func decodeProduct(d *jx.Decoder) (ProductSpec, error) {
	spec := ProductSpec{Kind: product.KindStandard}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			spec.Name, err = d.Str()
		case "price":
			spec.Price, err = decodeDecimal(d)
		case "quantity":
			spec.Quantity, err = d.Int()
		case "kind":
			var kind string
			kind, err = d.Str()
			spec.Kind = product.Kind(kind)
		case "maximum":
			spec.Maximum, err = d.Int()
		case "promotion":
			spec.Promotion, err = d.Str()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	return spec, err
}

// decodeDecimal accepts both JSON numbers and numeric strings.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(s)
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(string(n))
	default:
		return decimal.Zero, errors.Errorf("expected number, got %v", d.Next())
	}
}
