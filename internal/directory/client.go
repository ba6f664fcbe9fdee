package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/yupiflow-admin/internal/models"
	appErrors "github.com/noah-isme/yupiflow-admin/pkg/errors"
	"github.com/noah-isme/yupiflow-admin/pkg/middleware/requestid"
)

const maxErrorBody = 64 << 10

// Client is the HTTP adapter for the directory API. Every call carries the session bearer token.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	session Session
	logger  *zap.Logger
}

// ClientOption customises the client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default transport.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a client rooted at baseURL, e.g. http://localhost:8080/api/v1.
func NewClient(baseURL string, session Session, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Session returns the session the client authenticates with.
func (c *Client) Session() Session {
	return c.session
}

// WithSession returns a copy of the client using another session.
func (c *Client) WithSession(session Session) *Client {
	clone := *c
	clone.session = session
	return &clone
}

// ListUsers issues GET /users.
func (c *Client) ListUsers(ctx context.Context, q Query) (*models.UserPage, error) {
	var page models.UserPage
	if err := c.do(ctx, http.MethodGet, "users", ComposeQuery(q), nil, &page, "Failed to load users"); err != nil {
		return nil, err
	}
	if page.Users == nil {
		page.Users = []models.User{}
	}
	return &page, nil
}

// GetUser issues GET /users/:id.
func (c *Client) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "users/"+strconv.FormatInt(id, 10), nil, nil, &user, "Failed to load user"); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUserBody is the POST /users payload.
type CreateUserBody struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
	Phone    *string         `json:"phone"`
	Username *string         `json:"username"`
}

// CreateUser issues POST /users.
func (c *Client) CreateUser(ctx context.Context, body CreateUserBody) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "users", nil, body, &user, "Failed to create user"); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser issues DELETE /users/:id.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "users/"+strconv.FormatInt(id, 10), nil, nil, nil, "Failed to delete user")
}

// ExportUsers downloads the directory export and returns the file name and bytes.
func (c *Client) ExportUsers(ctx context.Context, format string, q Query) (string, []byte, error) {
	params := ComposeQuery(q)
	params.Del("page")
	params.Del("limit")
	params.Set("format", format)

	res, err := c.send(ctx, http.MethodGet, "users/export", params, nil)
	if err != nil {
		return "", nil, asRequestError("export users", err, "Failed to export users")
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return "", nil, decodeError("export users", res, "Failed to export users")
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return "", nil, asRequestError("export users", err, "Failed to export users")
	}
	filename := "users." + format
	if _, params, err := mime.ParseMediaType(res.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return filename, data, nil
}

// ListRegistrations issues GET /registrations, optionally narrowed by status.
func (c *Client) ListRegistrations(ctx context.Context, status models.RegistrationStatus) ([]models.Registration, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", string(status))
	}
	var list models.RegistrationList
	if err := c.do(ctx, http.MethodGet, "registrations", params, nil, &list, "Failed to load registrations"); err != nil {
		return nil, err
	}
	if list.Registrations == nil {
		list.Registrations = []models.Registration{}
	}
	return list.Registrations, nil
}

// GetRegistration issues GET /registrations/:id.
func (c *Client) GetRegistration(ctx context.Context, id int64) (*models.Registration, error) {
	var reg models.Registration
	if err := c.do(ctx, http.MethodGet, "registrations/"+strconv.FormatInt(id, 10), nil, nil, &reg, "Failed to load registration"); err != nil {
		return nil, err
	}
	return &reg, nil
}

// ReviewRegistration issues PATCH /registrations/:id/status.
func (c *Client) ReviewRegistration(ctx context.Context, id int64, status models.RegistrationStatus, note string) (*models.Registration, error) {
	body := map[string]string{"status": string(status), "note": note}
	var reg models.Registration
	if err := c.do(ctx, http.MethodPatch, "registrations/"+strconv.FormatInt(id, 10)+"/status", nil, body, &reg, "Failed to update registration"); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Login exchanges credentials for a token. It does not need an authenticated session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var res models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "auth/login", nil, body, &res, "Failed to sign in"); err != nil {
		return nil, err
	}
	return &res, nil
}

// Me issues GET /auth/me.
func (c *Client) Me(ctx context.Context) (*models.UserInfo, error) {
	var info models.UserInfo
	if err := c.do(ctx, http.MethodGet, "auth/me", nil, nil, &info, "Failed to load profile"); err != nil {
		return nil, err
	}
	return &info, nil
}

// Roles issues GET /roles.
func (c *Client) Roles(ctx context.Context) ([]models.RoleInfo, error) {
	var roles []models.RoleInfo
	if err := c.do(ctx, http.MethodGet, "roles", nil, nil, &roles, "Failed to load roles"); err != nil {
		return nil, err
	}
	return roles, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out interface{}, fallback string) error {
	op := strings.ToLower(method) + " " + path
	res, err := c.send(ctx, method, path, params, body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return asRequestError(op, err, fallback)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeError(op, res, fallback)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return asRequestError(op, fmt.Errorf("decode response: %w", err), fallback)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, params url.Values, body interface{}) (*http.Response, error) {
	endpoint := c.baseURL.JoinPath(path)
	if len(params) > 0 {
		endpoint.RawQuery = params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("directory request failed", zap.String("method", method), zap.String("url", endpoint.String()), zap.Error(err))
		return nil, err
	}
	c.logger.Debug("directory request",
		zap.String("method", method),
		zap.String("url", endpoint.String()),
		zap.Int("status", res.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", res.Header.Get(requestid.HeaderKey)),
	)
	return res, nil
}

// decodeError reads the {message, code} body of a failed response.
func decodeError(op string, res *http.Response, fallback string) error {
	var body struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			body.Message = ""
		}
	}

	code := body.Code
	if code == "" {
		code = appErrors.ErrRequest.Code
	}
	message := strings.TrimSpace(body.Message)
	if message == "" {
		message = fallback
	}
	return &RequestError{
		Op:     op,
		Status: res.StatusCode,
		Err:    appErrors.Wrap(errors.New(res.Status), code, res.StatusCode, message),
	}
}
