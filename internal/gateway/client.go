// Package gateway is the HTTP client for the storefront backend. Every
// response arrives in the {code, message, data} envelope; callers branch
// on the envelope code, never on the HTTP status, except for the 404 and
// 204 shorthands the read and delete endpoints use for "empty".
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/angelmondragon/packfinderz-storefront/internal/cart"
	"github.com/angelmondragon/packfinderz-storefront/internal/wishlist"
	"github.com/angelmondragon/packfinderz-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/metrics"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

// TokenSource is the slice of the session the client needs. A missing
// token sends the request unauthenticated and lets the server answer with
// its auth code.
type TokenSource interface {
	Token() (string, bool)
}

// ClientParams groups dependencies for the gateway client.
type ClientParams struct {
	Config     config.GatewayConfig
	HTTPClient *http.Client
	Tokens     TokenSource
	Logger     *logger.Logger
	Metrics    *metrics.GatewayMetrics
}

// Client is the shared HTTP core. Cart() and Wishlist() expose the two
// store-facing contracts on top of it.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	tokens        TokenSource
	logg          *logger.Logger
	metrics       *metrics.GatewayMetrics
	retryAttempts uint64
	retryBackoff  time.Duration
}

// NewClient validates the configuration and builds the client.
func NewClient(params ClientParams) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(params.Config.BaseURL), "/")
	parsed, err := url.Parse(base)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, pkgerrors.Newf(pkgerrors.CodePrecondition, "gateway base url %q is not usable", params.Config.BaseURL)
	}
	if params.Tokens == nil {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "token source is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "logger is required")
	}

	httpClient := params.HTTPClient
	if httpClient == nil {
		timeout := params.Config.RequestTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	backoff := params.Config.RetryBackoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}

	return &Client{
		baseURL:       base,
		httpClient:    httpClient,
		tokens:        params.Tokens,
		logg:          params.Logger,
		metrics:       params.Metrics,
		retryAttempts: params.Config.RetryAttempts,
		retryBackoff:  backoff,
	}, nil
}

// Cart returns the cart-facing view of the client.
func (c *Client) Cart() *CartGateway { return &CartGateway{c} }

// Wishlist returns the wishlist-facing view of the client.
func (c *Client) Wishlist() *WishlistGateway { return &WishlistGateway{c} }

// CartGateway implements the cart store's gateway contract.
type CartGateway struct {
	c *Client
}

func (g *CartGateway) Get(ctx context.Context) (*cart.Snapshot, error) {
	env, err := g.c.getWithRetry(ctx, "cart_get", "/api/carts")
	if err != nil {
		return nil, err
	}
	if env == nil || !env.HasData() {
		return nil, nil
	}
	return decodeCart(*env)
}

func (g *CartGateway) AddItem(ctx context.Context, variantID uuid.UUID, quantity int) (*cart.Snapshot, error) {
	body := addItemRequest{VariantID: variantID.String(), Quantity: quantity}
	env, err := g.c.do(ctx, "cart_add", http.MethodPost, "/api/carts/add", body)
	if err != nil {
		return nil, err
	}
	if env == nil || !env.HasData() {
		return nil, pkgerrors.New(pkgerrors.CodeGateway, "add-to-cart returned no cart payload")
	}
	return decodeCart(*env)
}

func (g *CartGateway) UpdateItemQuantity(ctx context.Context, lineID uuid.UUID, quantity int) (cart.LineUpdate, error) {
	body := updateQuantityRequest{Quantity: quantity}
	env, err := g.c.do(ctx, "cart_update_quantity", http.MethodPut, "/api/cart-items/"+lineID.String(), body)
	if err != nil {
		return cart.LineUpdate{}, err
	}
	if env == nil || !env.HasData() {
		return cart.LineUpdate{}, pkgerrors.New(pkgerrors.CodeGateway, "quantity update returned no confirmation")
	}
	var update cart.LineUpdate
	if err := json.Unmarshal(env.Data, &update); err != nil {
		return cart.LineUpdate{}, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "undecodable line update payload")
	}
	return update, nil
}

func (g *CartGateway) RemoveItem(ctx context.Context, lineID uuid.UUID) (*cart.Snapshot, error) {
	env, err := g.c.do(ctx, "cart_remove", http.MethodDelete, "/api/cart-items/"+lineID.String(), nil)
	if err != nil {
		return nil, err
	}
	if env == nil || !env.HasData() {
		return nil, nil
	}
	return decodeCart(*env)
}

func (g *CartGateway) ApplyCoupon(ctx context.Context, code string) (*cart.Snapshot, error) {
	env, err := g.c.do(ctx, "cart_apply_coupon", http.MethodPost, "/api/carts/apply-coupon", applyCouponRequest{CouponCode: code})
	if err != nil {
		return nil, err
	}
	if env == nil || !env.HasData() {
		return nil, pkgerrors.New(pkgerrors.CodeGateway, "apply-coupon returned no cart payload")
	}
	return decodeCart(*env)
}

// WishlistGateway implements the wishlist store's gateway contract.
type WishlistGateway struct {
	c *Client
}

func (g *WishlistGateway) Get(ctx context.Context) (*wishlist.Snapshot, error) {
	env, err := g.c.getWithRetry(ctx, "wishlist_get", "/api/wishlists")
	if err != nil {
		return nil, err
	}
	if env == nil || !env.HasData() {
		return nil, nil
	}
	return decodeWishlist(*env)
}

func (g *WishlistGateway) AddProduct(ctx context.Context, productID uuid.UUID) (*wishlist.Snapshot, error) {
	env, err := g.c.do(ctx, "wishlist_add", http.MethodPost, "/api/wishlists/add/"+productID.String(), nil)
	if err != nil {
		return nil, err
	}
	if env == nil || !env.HasData() {
		return nil, pkgerrors.New(pkgerrors.CodeGateway, "wishlist add returned no payload")
	}
	return decodeWishlist(*env)
}

func (g *WishlistGateway) RemoveProduct(ctx context.Context, productID uuid.UUID) (*wishlist.Snapshot, error) {
	env, err := g.c.do(ctx, "wishlist_remove", http.MethodDelete, "/api/wishlists/remove/"+productID.String(), nil)
	if err != nil {
		return nil, err
	}
	if env == nil || !env.HasData() {
		return nil, nil
	}
	return decodeWishlist(*env)
}

// getWithRetry wraps do with fibonacci backoff for the idempotent read
// endpoints. Only transport-class failures are retried; an envelope error
// is the server's final word. A missing-resource 404 decodes to nil before
// retry is even considered.
func (c *Client) getWithRetry(ctx context.Context, op, path string) (*types.Envelope, error) {
	if c.retryAttempts == 0 {
		return c.do(ctx, op, http.MethodGet, path, nil)
	}

	fib, err := retry.NewFibonacci(c.retryBackoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bad retry backoff")
	}

	var env *types.Envelope
	err = retry.Do(ctx, retry.WithMaxRetries(c.retryAttempts, fib), func(ctx context.Context) error {
		var doErr error
		env, doErr = c.do(ctx, op, http.MethodGet, path, nil)
		if doErr == nil {
			return nil
		}
		if typed := pkgerrors.As(doErr); typed != nil && typed.Code() == pkgerrors.CodeTransport {
			return retry.RetryableError(doErr)
		}
		return doErr
	})
	if err != nil {
		return nil, err
	}
	return env, nil
}

// do runs one round trip. It returns nil for the empty-resource answers
// (HTTP 404 on reads, HTTP 204 on deletes) and a classified error for
// transport failures and non-zero envelope codes.
func (c *Client) do(ctx context.Context, op, method, path string, body any) (*types.Envelope, error) {
	ctx = c.logg.WithOperation(ctx, op)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveDuration(op, time.Since(started))
	if err != nil {
		c.metrics.IncFailure(op)
		c.logg.Error(ctx, "gateway request failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("%s %s failed", method, path))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		c.metrics.IncSuccess(op)
		return nil, nil
	case resp.StatusCode == http.StatusNotFound && method == http.MethodGet:
		c.metrics.IncSuccess(op)
		return nil, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncFailure(op)
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "read response body")
	}

	var env types.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.metrics.IncFailure(op)
		return nil, pkgerrors.Wrap(pkgerrors.CodeGateway, err,
			fmt.Sprintf("undecodable response from %s %s (http %d)", method, path, resp.StatusCode))
	}

	if !env.OK() {
		c.metrics.IncFailure(op)
		mapped := classifyEnvelope(env)
		c.logg.Error(ctx, "gateway rejected request", mapped)
		return nil, mapped
	}

	c.metrics.IncSuccess(op)
	c.logg.Debug(ctx, "gateway request ok")
	return &env, nil
}

// wireError preserves the raw envelope code in the error chain for
// debugging dumps.
type wireError struct {
	code    int
	message string
}

func (e *wireError) Error() string {
	return fmt.Sprintf("envelope code %d: %s", e.code, e.message)
}

func (e *wireError) EnvelopeCode() int { return e.code }

// classifyEnvelope maps a non-zero envelope code onto the domain taxonomy.
// Coupon rejections arrive as 1000-range codes; when the server sent a
// bare code with prose only, the legacy message classifier fills in the
// reason.
func classifyEnvelope(env types.Envelope) error {
	cause := &wireError{code: env.Code, message: env.Message}

	switch {
	case env.Code == types.EnvelopeUnauthenticated:
		return pkgerrors.Wrap(pkgerrors.CodeUnauthenticated, cause, "session rejected")
	case env.Code >= 1000 && env.Code < 2000:
		reason := pkgerrors.ClassifyCouponCode(env.Code)
		if reason == pkgerrors.CouponReasonUnknown {
			reason = pkgerrors.ClassifyCouponMessage(env.Message)
		}
		return pkgerrors.Wrap(pkgerrors.CodeBusiness, cause, env.Message).WithReason(reason)
	case env.Code == types.EnvelopeNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, env.Message)
	case env.Code == types.EnvelopeBadRequest, env.Code == types.EnvelopeConflict:
		return pkgerrors.Wrap(pkgerrors.CodeBusiness, cause, env.Message)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeGateway, cause, env.Message)
	}
}

func decodeCart(env types.Envelope) (*cart.Snapshot, error) {
	var wire cartWire
	if err := json.Unmarshal(env.Data, &wire); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "undecodable cart payload")
	}
	return wire.toSnapshot(), nil
}

func decodeWishlist(env types.Envelope) (*wishlist.Snapshot, error) {
	var wire wishlistWire
	if err := json.Unmarshal(env.Data, &wire); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "undecodable wishlist payload")
	}
	return wire.toSnapshot(), nil
}
