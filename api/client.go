package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goShop "github.com/MrEthical07/goShop"
	"github.com/MrEthical07/goShop/storage"
	"github.com/google/uuid"
)

// TokenSource yields the bearer token to present on a request, or "" when
// no valid token exists.
type TokenSource func(ctx context.Context) string

// StorageTokenSource derives the token from a storage mirror through the
// session guard, so the client presents exactly what the guard would
// accept: valid tokens only, nothing expired or malformed.
func StorageTokenSource(store storage.Store, tokenKey string) TokenSource {
	return func(ctx context.Context) string {
		return goShop.CurrentValidToken(ctx, store, tokenKey)
	}
}

// Config defines a public type used by goShop APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// HTTPClient overrides the default client; its Timeout wins over
	// Config.Timeout when set.
	HTTPClient *http.Client
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: unexpected status %d", e.Code)
}

// Client calls the remote shop API. Safe for concurrent use.
type Client struct {
	base   *url.URL
	http   *http.Client
	tokens TokenSource
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation fails.
func New(cfg Config, tokens TokenSource) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("base url required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		// keeps relative resolution from eating the base path's last segment
		base.Path += "/"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		base:   base,
		http:   httpClient,
		tokens: tokens,
	}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"clave"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		Email string `json:"email"`
	} `json:"usuario"`
}

// Login authenticates with the remote API and distills the response into a
// [goShop.LoginResult]. Implements [goShop.LoginAPI].
func (c *Client) Login(ctx context.Context, email, password string) (goShop.LoginResult, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp, false)
	if err != nil {
		return goShop.LoginResult{}, err
	}

	return goShop.LoginResult{
		AccessToken: resp.AccessToken,
		User:        resp.User.Email,
	}, nil
}

// Products lists the catalog.
func (c *Client) Products(ctx context.Context) ([]goShop.Product, error) {
	var products []goShop.Product
	if err := c.do(ctx, http.MethodGet, "/productos", nil, &products, false); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches a single catalog entry.
func (c *Client) Product(ctx context.Context, id int64) (goShop.Product, error) {
	var product goShop.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/productos/%d", id), nil, &product, false); err != nil {
		return goShop.Product{}, err
	}
	return product, nil
}

// User is the account record managed through the users endpoints. Password
// is write-only: it is sent on create/update and never populated by reads.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"nombre"`
	Surname  string `json:"apellidos"`
	Email    string `json:"email"`
	Phone    string `json:"telefono"`
	Password string `json:"clave,omitempty"`
	Role     string `json:"rol"`
}

// Users lists all accounts.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/usuarios", nil, &users, false); err != nil {
		return nil, err
	}
	return users, nil
}

// UserByEmail looks an account up by email address.
func (c *Client) UserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/usuarios/buscar/"+url.PathEscape(email), nil, &user, false); err != nil {
		return User{}, err
	}
	return user, nil
}

// CreateUser registers a new account.
func (c *Client) CreateUser(ctx context.Context, user User) (User, error) {
	var created User
	if err := c.do(ctx, http.MethodPost, "/usuarios", user, &created, false); err != nil {
		return User{}, err
	}
	return created, nil
}

// UpdateUser patches an existing account. Zero-valued fields are still
// sent; partial updates build the User from a prior read.
func (c *Client) UpdateUser(ctx context.Context, id int64, user User) (User, error) {
	var updated User
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/usuarios/%d", id), user, &updated, false); err != nil {
		return User{}, err
	}
	return updated, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/usuarios/%d", id), nil, nil, false)
}

// ServerCart is a server-held cart record, distinct from the local cart
// mirror. New carts start in the "activo" state.
type ServerCart struct {
	ID     int64  `json:"id"`
	UserID *int64 `json:"id_usuario"`
	Status string `json:"estado"`
}

// ServerCartLine is one product line of a server-held cart.
type ServerCartLine struct {
	ID        int64 `json:"id"`
	CartID    int64 `json:"id_carrito"`
	ProductID int64 `json:"id_producto"`
	Quantity  int   `json:"cantidad"`
}

type serverCartRequest struct {
	UserID *int64 `json:"id_usuario"`
	Status string `json:"estado"`
}

type serverCartLineRequest struct {
	CartID    int64 `json:"id_carrito"`
	ProductID int64 `json:"id_producto"`
	Quantity  int   `json:"cantidad"`
}

// CreateServerCart opens a server-held cart. A nil userID posts a null
// id_usuario, which the server accepts for anonymous carts.
func (c *Client) CreateServerCart(ctx context.Context, userID *int64) (ServerCart, error) {
	var cart ServerCart
	err := c.do(ctx, http.MethodPost, "/carritos", serverCartRequest{UserID: userID, Status: "activo"}, &cart, false)
	if err != nil {
		return ServerCart{}, err
	}
	return cart, nil
}

// AddServerCartProduct attaches a product line to a server-held cart.
func (c *Client) AddServerCartProduct(ctx context.Context, cartID, productID int64, quantity int) (ServerCartLine, error) {
	var line ServerCartLine
	err := c.do(ctx, http.MethodPost, "/carrito-productos", serverCartLineRequest{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}, &line, false)
	if err != nil {
		return ServerCartLine{}, err
	}
	return line, nil
}

// ServerCartLines lists the product lines of a server-held cart.
func (c *Client) ServerCartLines(ctx context.Context, cartID int64) ([]ServerCartLine, error) {
	var lines []ServerCartLine
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/carrito-productos?id_carrito=%d", cartID), nil, &lines, false); err != nil {
		return nil, err
	}
	return lines, nil
}

// RemoveServerCartLine deletes a single cart line by its own id.
func (c *Client) RemoveServerCartLine(ctx context.Context, lineID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/carrito-productos/%d", lineID), nil, nil, false)
}

// Order is the created-order record returned by the API.
type Order struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"id_usuario"`
	Status string `json:"estado"`
}

// OrderLine is one product line attached to an order.
type OrderLine struct {
	OrderID   int64   `json:"id_pedido"`
	ProductID int64   `json:"id_producto"`
	Quantity  int     `json:"cantidad"`
	UnitPrice float64 `json:"precio_unitario"`
}

// Payment is the payment record registered against an order. New payments
// start in the "pendiente" state; settlement is the server's business.
type Payment struct {
	ID      int64   `json:"id"`
	OrderID int64   `json:"id_pedido"`
	Method  string  `json:"metodo"`
	Amount  float64 `json:"monto"`
	Status  string  `json:"estado"`
}

type orderRequest struct {
	UserID int64  `json:"id_usuario"`
	Status string `json:"estado"`
}

type paymentRequest struct {
	OrderID int64   `json:"id_pedido"`
	Method  string  `json:"metodo"`
	Amount  float64 `json:"monto"`
	Status  string  `json:"estado"`
}

// CreateOrder opens a new order for the user.
func (c *Client) CreateOrder(ctx context.Context, userID int64) (Order, error) {
	var order Order
	err := c.do(ctx, http.MethodPost, "/pedidos", orderRequest{UserID: userID, Status: "pendiente"}, &order, true)
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

// AddOrderProducts attaches lines to an order, one request per line, in
// order. The first failure stops the sequence; already-posted lines stand.
func (c *Client) AddOrderProducts(ctx context.Context, orderID int64, lines []OrderLine) error {
	for _, line := range lines {
		line.OrderID = orderID
		if err := c.do(ctx, http.MethodPost, "/pedido-productos", line, nil, false); err != nil {
			return err
		}
	}
	return nil
}

// RegisterPayment records a pending payment against an order.
func (c *Client) RegisterPayment(ctx context.Context, orderID int64, method string, amount float64) (Payment, error) {
	var payment Payment
	err := c.do(ctx, http.MethodPost, "/pagos", paymentRequest{
		OrderID: orderID,
		Method:  method,
		Amount:  amount,
		Status:  "pendiente",
	}, &payment, true)
	if err != nil {
		return Payment{}, err
	}
	return payment, nil
}

// Checkout turns a cart snapshot into an order with lines and a pending
// payment. The amount is recomputed from the lines, not trusted from the
// caller.
func (c *Client) Checkout(ctx context.Context, userID int64, items []goShop.CartItem, method string) (Order, Payment, error) {
	order, err := c.CreateOrder(ctx, userID)
	if err != nil {
		return Order{}, Payment{}, err
	}

	lines := make([]OrderLine, 0, len(items))
	var amount float64
	for _, item := range items {
		lines = append(lines, OrderLine{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.Price,
		})
		amount += item.Product.Price * float64(item.Quantity)
	}

	if err := c.AddOrderProducts(ctx, order.ID, lines); err != nil {
		return order, Payment{}, err
	}

	payment, err := c.RegisterPayment(ctx, order.ID, method, amount)
	if err != nil {
		return order, Payment{}, err
	}

	return order, payment, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, idempotencyKey bool) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(ref).String(), body)
	if err != nil {
		return err
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	if c.tokens != nil {
		if tok := c.tokens(ctx); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: string(data)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
