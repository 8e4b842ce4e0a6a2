package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"tokopos/internal/cart"
	"tokopos/internal/domain"
)

func (a *API) cartRoutes(r chi.Router) {
	r.Post("/", a.handleOpenCart)
	r.Route("/{cartID}", func(r chi.Router) {
		r.Get("/", a.handleGetCart)
		r.Delete("/", a.handleDiscardCart)
		r.Post("/items", a.handleAddCartItem)
		r.Patch("/items/{productID}", a.handleSetCartQuantity)
		r.Delete("/items/{productID}", a.handleRemoveCartItem)
		r.Put("/items/{productID}/price", a.handleOverridePrice)
		r.Put("/customer", a.handleSetCartCustomer)
		r.Post("/clear", a.handleClearCart)
		r.Post("/checkout", a.handleCartCheckout)
	})
}

type cartItemView struct {
	cart.Item
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

type cartView struct {
	ID         string                  `json:"id"`
	CustomerID *string                 `json:"customer_id"`
	Customer   domain.CustomerSnapshot `json:"customer"`
	Items      []cartItemView          `json:"items"`
	Totals     cart.Totals             `json:"totals"`
}

func viewCart(c *cart.Cart) cartView {
	customer := c.Customer()
	items := c.Items()
	view := cartView{
		ID:         c.ID(),
		CustomerID: domain.CustomerIDOf(customer),
		Customer:   customer.Snapshot(),
		Items:      make([]cartItemView, 0, len(items)),
		Totals:     c.Total(),
	}
	for _, item := range items {
		view.Items = append(view.Items, cartItemView{Item: item, UnitPrice: item.UnitPrice(), Total: item.Total()})
	}
	return view
}

func (a *API) writeCart(w http.ResponseWriter, r *http.Request, status int, c *cart.Cart, err error) {
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, status, map[string]any{"cart": viewCart(c)})
}

func (a *API) handleOpenCart(w http.ResponseWriter, r *http.Request) {
	c, err := a.carts.Open(r.Context())
	a.writeCart(w, r, http.StatusCreated, c, err)
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	c, err := a.carts.Get(r.Context(), chi.URLParam(r, "cartID"))
	a.writeCart(w, r, http.StatusOK, c, err)
}

func (a *API) handleDiscardCart(w http.ResponseWriter, r *http.Request) {
	if err := a.carts.Discard(r.Context(), chi.URLParam(r, "cartID")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	c, err := a.carts.AddItem(r.Context(), chi.URLParam(r, "cartID"), req.ProductID, req.Quantity)
	a.writeCart(w, r, http.StatusOK, c, err)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (a *API) handleSetCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := a.carts.SetQuantity(r.Context(), chi.URLParam(r, "cartID"), chi.URLParam(r, "productID"), req.Quantity)
	a.writeCart(w, r, http.StatusOK, c, err)
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	c, err := a.carts.RemoveItem(r.Context(), chi.URLParam(r, "cartID"), chi.URLParam(r, "productID"))
	a.writeCart(w, r, http.StatusOK, c, err)
}

func (a *API) handleOverridePrice(w http.ResponseWriter, r *http.Request) {
	var req setPriceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := a.carts.OverridePrice(r.Context(), chi.URLParam(r, "cartID"), chi.URLParam(r, "productID"), req.Price)
	a.writeCart(w, r, http.StatusOK, c, err)
}

type customerRequest struct {
	CustomerID string `json:"customer_id"`
}

// handleSetCartCustomer selects a registered customer; an empty id switches
// back to walk-in.
func (a *API) handleSetCartCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := a.carts.SetCustomer(r.Context(), chi.URLParam(r, "cartID"), req.CustomerID)
	a.writeCart(w, r, http.StatusOK, c, err)
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	c, err := a.carts.Clear(r.Context(), chi.URLParam(r, "cartID"))
	a.writeCart(w, r, http.StatusOK, c, err)
}

type cartCheckoutRequest struct {
	PaymentMethod  string          `json:"payment_method"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
}

func (a *API) handleCartCheckout(w http.ResponseWriter, r *http.Request) {
	var req cartCheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := a.carts.Checkout(r.Context(), chi.URLParam(r, "cartID"), req.PaymentMethod, req.ReceivedAmount, a.service.Checkout)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
