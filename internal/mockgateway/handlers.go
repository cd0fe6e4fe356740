package mockgateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

const maxLineQuantity = 99

// Handlers serves the storefront contract against an in-memory State.
type Handlers struct {
	state *State
	logg  *logger.Logger
}

// NewHandlers wires the handler set.
func NewHandlers(state *State, logg *logger.Logger) *Handlers {
	return &Handlers{state: state, logg: logg}
}

type cartLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"productId"`
	VariantID        uuid.UUID       `json:"variantId"`
	Name             string          `json:"name"`
	ImageURL         string          `json:"imageUrl"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	UnitSellingPrice decimal.Decimal `json:"unitSellingPrice"`
	Quantity         int             `json:"quantity"`
}

type cartResponse struct {
	TotalPrice        decimal.Decimal    `json:"totalPrice"`
	TotalSellingPrice decimal.Decimal    `json:"totalSellingPrice"`
	DiscountPercent   *decimal.Decimal   `json:"discountPercent"`
	CouponCode        *string            `json:"couponCode"`
	TotalItemCount    int                `json:"totalItemCount"`
	Lines             []cartLineResponse `json:"lines"`
}

type wishlistResponse struct {
	Products []Product `json:"products"`
}

type lineUpdateResponse struct {
	ID       uuid.UUID `json:"id"`
	Quantity int       `json:"quantity"`
}

// cartResponseLocked builds the enveloped cart payload. Totals are always
// recomputed from the catalog; the coupon percentage is divided out of the
// selling total, never stored.
func (h *Handlers) cartResponseLocked() cartResponse {
	total, selling := h.state.preCouponTotals()

	resp := cartResponse{
		TotalPrice:        total,
		TotalSellingPrice: selling,
		Lines:             make([]cartLineResponse, 0, len(h.state.lines)),
	}
	if h.state.coupon != nil {
		pct := h.state.coupon.Percent
		hundred := decimal.NewFromInt(100)
		resp.TotalSellingPrice = selling.Mul(hundred.Sub(pct)).Div(hundred).Round(2)
		resp.DiscountPercent = &pct
		code := h.state.coupon.Code
		resp.CouponCode = &code
	}

	for _, l := range h.state.lines {
		p, _, ok := h.state.findVariant(l.variantID)
		if !ok {
			continue
		}
		resp.TotalItemCount += l.quantity
		resp.Lines = append(resp.Lines, cartLineResponse{
			ID:               l.id,
			ProductID:        p.ID,
			VariantID:        l.variantID,
			Name:             p.Name,
			ImageURL:         p.ImageURL,
			UnitPrice:        p.Price,
			UnitSellingPrice: p.SellingPrice,
			Quantity:         l.quantity,
		})
	}
	return resp
}

func (h *Handlers) wishlistResponseLocked() wishlistResponse {
	resp := wishlistResponse{Products: make([]Product, 0, len(h.state.wishlist))}
	for _, id := range h.state.wishlist {
		if p, ok := h.state.findProduct(id); ok {
			resp.Products = append(resp.Products, p)
		}
	}
	return resp
}

// GetCart answers 404 for an empty cart, per the contract's shorthand.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.state.mu.RLock()
	defer h.state.mu.RUnlock()

	if len(h.state.lines) == 0 {
		writeEnvelope(ctx, h.logg, w, http.StatusNotFound, types.EnvelopeNotFound, "cart is empty", nil)
		return
	}
	writeOK(ctx, h.logg, w, h.cartResponseLocked())
}

type addItemBody struct {
	VariantID string `json:"variantId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=99"`
}

func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body addItemBody
	if msg, ok := decodeJSONBody(r, &body); !ok {
		writeDomainError(ctx, h.logg, w, types.EnvelopeBadRequest, msg)
		return
	}
	variantID := uuid.MustParse(body.VariantID)

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	_, variant, ok := h.state.findVariant(variantID)
	if !ok {
		writeDomainError(ctx, h.logg, w, types.EnvelopeNotFound, "unknown variant")
		return
	}

	quantity := clampQuantity(body.Quantity, variant.Stock)
	if idx, exists := h.state.lineByVariant(variantID); exists {
		h.state.lines[idx].quantity = clampQuantity(h.state.lines[idx].quantity+quantity, variant.Stock)
	} else {
		h.state.lines = append(h.state.lines, cartLine{
			id:        uuid.New(),
			variantID: variantID,
			quantity:  quantity,
		})
	}

	writeCreated(ctx, h.logg, w, h.cartResponseLocked())
}

type updateQuantityBody struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=99"`
}

// UpdateItemQuantity confirms the mutation with a partial body only; the
// client re-fetches for the new totals.
func (h *Handlers) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lineID, err := uuid.Parse(chi.URLParam(r, "lineID"))
	if err != nil {
		writeDomainError(ctx, h.logg, w, types.EnvelopeBadRequest, "invalid line id")
		return
	}
	var body updateQuantityBody
	if msg, ok := decodeJSONBody(r, &body); !ok {
		writeDomainError(ctx, h.logg, w, types.EnvelopeBadRequest, msg)
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	idx, ok := h.state.lineByID(lineID)
	if !ok {
		writeDomainError(ctx, h.logg, w, types.EnvelopeNotFound, "unknown cart line")
		return
	}
	_, variant, ok := h.state.findVariant(h.state.lines[idx].variantID)
	if !ok {
		writeDomainError(ctx, h.logg, w, types.EnvelopeInternal, "cart line references a missing variant")
		return
	}

	h.state.lines[idx].quantity = clampQuantity(body.Quantity, variant.Stock)
	writeOK(ctx, h.logg, w, lineUpdateResponse{ID: lineID, Quantity: h.state.lines[idx].quantity})
}

// RemoveItem answers 204 with no body, which forces the client through its
// re-fetch path.
func (h *Handlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lineID, err := uuid.Parse(chi.URLParam(r, "lineID"))
	if err != nil {
		writeDomainError(ctx, h.logg, w, types.EnvelopeBadRequest, "invalid line id")
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	idx, ok := h.state.lineByID(lineID)
	if !ok {
		writeDomainError(ctx, h.logg, w, types.EnvelopeNotFound, "unknown cart line")
		return
	}
	h.state.lines = append(h.state.lines[:idx], h.state.lines[idx+1:]...)
	if len(h.state.lines) == 0 {
		h.state.coupon = nil
	}

	w.WriteHeader(http.StatusNoContent)
}

type applyCouponBody struct {
	CouponCode string `json:"couponCode" validate:"required"`
}

func (h *Handlers) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body applyCouponBody
	if msg, ok := decodeJSONBody(r, &body); !ok {
		writeDomainError(ctx, h.logg, w, types.EnvelopeBadRequest, msg)
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	if len(h.state.lines) == 0 {
		writeDomainError(ctx, h.logg, w, pkgerrors.EnvelopeCouponNotApplicable, "this coupon cannot be applied to an empty cart")
		return
	}

	coupon, ok := h.state.coupons[body.CouponCode]
	if !ok {
		writeDomainError(ctx, h.logg, w, pkgerrors.EnvelopeCouponInvalid, "this coupon is invalid or expired")
		return
	}
	if coupon.Used {
		writeDomainError(ctx, h.logg, w, pkgerrors.EnvelopeCouponAlreadyUsed, "this coupon has already been used")
		return
	}
	_, selling := h.state.preCouponTotals()
	if coupon.MinOrder.IsPositive() && selling.LessThan(coupon.MinOrder) {
		writeDomainError(ctx, h.logg, w, pkgerrors.EnvelopeCouponMinimumOrder,
			"minimum order value of "+coupon.MinOrder.StringFixed(2)+" not met")
		return
	}

	coupon.Used = true
	h.state.coupon = coupon
	writeOK(ctx, h.logg, w, h.cartResponseLocked())
}

func (h *Handlers) GetWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.state.mu.RLock()
	defer h.state.mu.RUnlock()

	if len(h.state.wishlist) == 0 {
		writeEnvelope(ctx, h.logg, w, http.StatusNotFound, types.EnvelopeNotFound, "wishlist is empty", nil)
		return
	}
	writeOK(ctx, h.logg, w, h.wishlistResponseLocked())
}

func (h *Handlers) AddWishlistProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeDomainError(ctx, h.logg, w, types.EnvelopeBadRequest, "invalid product id")
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	if _, ok := h.state.findProduct(productID); !ok {
		writeDomainError(ctx, h.logg, w, types.EnvelopeNotFound, "unknown product")
		return
	}
	for _, id := range h.state.wishlist {
		if id == productID {
			writeOK(ctx, h.logg, w, h.wishlistResponseLocked())
			return
		}
	}
	h.state.wishlist = append(h.state.wishlist, productID)

	writeCreated(ctx, h.logg, w, h.wishlistResponseLocked())
}

// RemoveWishlistProduct returns the updated snapshot, unlike cart removal.
// Removing an absent product is a no-op success.
func (h *Handlers) RemoveWishlistProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeDomainError(ctx, h.logg, w, types.EnvelopeBadRequest, "invalid product id")
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	for i, id := range h.state.wishlist {
		if id == productID {
			h.state.wishlist = append(h.state.wishlist[:i], h.state.wishlist[i+1:]...)
			break
		}
	}
	writeOK(ctx, h.logg, w, h.wishlistResponseLocked())
}

func clampQuantity(v, stock int) int {
	max := maxLineQuantity
	if stock > 0 && stock < max {
		max = stock
	}
	if v < 1 {
		return 1
	}
	if v > max {
		return max
	}
	return v
}
