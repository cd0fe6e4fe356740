package mockgateway

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variant is one purchasable SKU of a catalog product.
type Variant struct {
	ID    uuid.UUID `json:"id"`
	Color string    `json:"color"`
	Size  string    `json:"size"`
	SKU   string    `json:"sku"`
	Stock int       `json:"stock"`
}

// Product is a catalog entry with an original price and a (possibly
// discounted) selling price.
type Product struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	ImageURL     string          `json:"imageUrl"`
	Price        decimal.Decimal `json:"price"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Variants     []Variant       `json:"variants"`
}

// Coupon is a cart-wide percentage discount with a minimum pre-coupon
// order value. A coupon is single-use.
type Coupon struct {
	Code     string
	Percent  decimal.Decimal
	MinOrder decimal.Decimal
	Used     bool
}

type cartLine struct {
	id        uuid.UUID
	variantID uuid.UUID
	quantity  int
}

// State is the whole in-memory backend: one catalog, one cart, one
// wishlist, shared across every authenticated request.
type State struct {
	mu       sync.RWMutex
	products []Product
	coupons  map[string]*Coupon
	lines    []cartLine
	coupon   *Coupon
	wishlist []uuid.UUID
}

// NewState returns an empty backend.
func NewState() *State {
	return &State{coupons: map[string]*Coupon{}}
}

// NewSeededState returns a backend with the fixture catalog and coupons.
func NewSeededState() *State {
	s := NewState()
	s.products = fixtureProducts()
	for _, c := range fixtureCoupons() {
		coupon := c
		s.coupons[coupon.Code] = &coupon
	}
	return s
}

func (s *State) findVariant(variantID uuid.UUID) (Product, Variant, bool) {
	for _, p := range s.products {
		for _, v := range p.Variants {
			if v.ID == variantID {
				return p, v, true
			}
		}
	}
	return Product{}, Variant{}, false
}

func (s *State) findProduct(productID uuid.UUID) (Product, bool) {
	for _, p := range s.products {
		if p.ID == productID {
			return p, true
		}
	}
	return Product{}, false
}

func (s *State) lineByID(lineID uuid.UUID) (int, bool) {
	for i, l := range s.lines {
		if l.id == lineID {
			return i, true
		}
	}
	return 0, false
}

func (s *State) lineByVariant(variantID uuid.UUID) (int, bool) {
	for i, l := range s.lines {
		if l.variantID == variantID {
			return i, true
		}
	}
	return 0, false
}

// preCouponTotals sums the lines at catalog prices, before any coupon.
func (s *State) preCouponTotals() (total, selling decimal.Decimal) {
	for _, l := range s.lines {
		p, _, ok := s.findVariant(l.variantID)
		if !ok {
			continue
		}
		qty := decimal.NewFromInt(int64(l.quantity))
		total = total.Add(p.Price.Mul(qty))
		selling = selling.Add(p.SellingPrice.Mul(qty))
	}
	return total, selling
}
