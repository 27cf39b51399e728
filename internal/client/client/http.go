package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
	"github.com/dmitrijs2005/todokeeper/internal/common"
)

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
}

// NewHTTPClient builds a client for the server at baseURL, e.g.
// "http://localhost:3000". timeout bounds every single request.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server address: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server address %q: scheme and host required", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

type userEnvelope struct {
	Data models.User `json:"data"`
}

type todoEnvelope struct {
	Todo models.Todo `json:"todo"`
}

type todosEnvelope struct {
	Todos []models.Todo `json:"todos"`
}

type errorEnvelope struct {
	Message string              `json:"message"`
	Errors  []common.FieldError `json:"errors"`
}

func (c *HTTPClient) Register(ctx context.Context, username, email string, password []byte) (*models.User, error) {
	req := map[string]string{"username": username, "email": email, "password": string(password)}
	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/users/create", req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	req := map[string]string{"email": email, "password": string(password)}
	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/users/login", req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/users/logout", nil, nil)
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *HTTPClient) ListTodos(ctx context.Context) ([]models.Todo, error) {
	var out todosEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/todos/get-todos", nil, &out); err != nil {
		return nil, err
	}
	return out.Todos, nil
}

func (c *HTTPClient) CreateTodo(ctx context.Context, content string) (*models.Todo, error) {
	var out todoEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/todos/create-todo", map[string]string{"content": content}, &out); err != nil {
		return nil, err
	}
	return &out.Todo, nil
}

func (c *HTTPClient) GetTodo(ctx context.Context, id string) (*models.Todo, error) {
	var out todoEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/todos/get-todo/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Todo, nil
}

func (c *HTTPClient) UpdateTodo(ctx context.Context, id string, upd models.TodoUpdate) (*models.Todo, error) {
	var out todoEnvelope
	if err := c.do(ctx, http.MethodPut, "/api/todos/update-todo/"+url.PathEscape(id), upd, &out); err != nil {
		return nil, err
	}
	return &out.Todo, nil
}

func (c *HTTPClient) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/todos/delete-todo/"+url.PathEscape(id), nil, nil)
}

// Ping checks server liveness via /healthz.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// do sends body as JSON (when non-nil) and decodes a 2xx response into out
// (when non-nil). Other statuses are mapped by mapError.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapError(resp *http.Response) error {
	var env errorEnvelope
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env)
	if env.Message == "" {
		env.Message = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, env.Message)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrUnavailable, env.Message)
	}
	return &APIError{Status: resp.StatusCode, Message: env.Message, Fields: env.Errors}
}
