package catalog

import (
	"github.com/go-faster/errors"

	"github.com/xenking/retail-store/internal/domain/product"
	"github.com/xenking/retail-store/internal/domain/promotion"
)

// Build creates the promotions and products described by the document, in
// document order. Products referring to the same promotion ID share one
// promotion instance.
func (doc *Document) Build() ([]*product.Product, error) {
	promos := make(map[string]promotion.Promotion, len(doc.Promotions))
	for _, spec := range doc.Promotions {
		if spec.ID == "" {
			return nil, errors.Errorf("promotion %q: id is required", spec.Name)
		}
		if _, ok := promos[spec.ID]; ok {
			return nil, errors.Errorf("promotion %q: duplicate id", spec.ID)
		}
		promo, err := promotion.New(spec.Kind, spec.Name, spec.Percent)
		if err != nil {
			return nil, errors.Wrapf(err, "promotion %q", spec.ID)
		}
		promos[spec.ID] = promo
	}

	products := make([]*product.Product, 0, len(doc.Products))
	for _, spec := range doc.Products {
		p, err := buildProduct(spec)
		if err != nil {
			return nil, errors.Wrapf(err, "product %q", spec.Name)
		}
		if spec.Promotion != "" {
			promo, ok := promos[spec.Promotion]
			if !ok {
				return nil, errors.Errorf("product %q: unknown promotion %q", spec.Name, spec.Promotion)
			}
			p.SetPromotion(promo)
		}
		products = append(products, p)
	}
	return products, nil
}

func buildProduct(spec ProductSpec) (*product.Product, error) {
	switch spec.Kind {
	case product.KindStandard, "":
		return product.New(spec.Name, spec.Price, spec.Quantity)
	case product.KindNonStocked:
		return product.NewNonStocked(spec.Name, spec.Price)
	case product.KindLimited:
		return product.NewLimited(spec.Name, spec.Price, spec.Quantity, spec.Maximum)
	default:
		return nil, errors.Errorf("unsupported product kind: %q", spec.Kind)
	}
}
