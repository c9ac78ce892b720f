package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/go-playground/validator/v10"
)

const maxErrorBody = 64 << 10

var errDecode = errors.New("decode response")

// HTTPClient talks JSON over HTTP to the Authentication and Expense APIs.
// It is safe for concurrent use.
type HTTPClient struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
}

// NewHTTPClient returns a client for the API rooted at baseURL, e.g.
// "http://127.0.0.1:3000/api". timeout bounds every request.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		validate: validator.New(),
	}
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type expenseEnvelope struct {
	Expense *models.Expense `json:"expense"`
}

// do sends a JSON request and decodes a 2xx response into out (if non-nil).
// Non-2xx answers are turned into *APIError by classify.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any, classify func(status int) error) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrServerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg, Err: classify(resp.StatusCode)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", errDecode, err)
	}
	return nil
}

func classifyAuth(status int) error {
	if status >= 500 {
		return ErrServerUnreachable
	}
	return ErrCredentialsRejected
}

func classifyExpense(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status >= 500:
		return ErrServerUnreachable
	}
	return ErrRequestFailed
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req := map[string]string{"email": email, "password": password}

	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &res, classifyAuth); err != nil {
		if errors.Is(err, errDecode) {
			return nil, &APIError{Status: http.StatusOK, Err: ErrCredentialsRejected}
		}
		return nil, err
	}

	if err := c.validate.Struct(&res); err != nil {
		return nil, &APIError{Status: http.StatusOK, Err: ErrCredentialsRejected}
	}
	return &res, nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) error {
	req := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/auth/register", "", req, nil, classifyAuth)
}

func (c *HTTPClient) ListExpenses(ctx context.Context, token string, userID int64) ([]models.Expense, error) {
	var out []models.Expense
	path := "/expenses/" + strconv.FormatInt(userID, 10)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out, classifyExpense); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateExpense(ctx context.Context, token string, in models.ExpenseInput) (*models.Expense, error) {
	var env expenseEnvelope
	if err := c.do(ctx, http.MethodPost, "/expenses", token, in, &env, classifyExpense); err != nil {
		return nil, err
	}
	return env.Expense, nil
}

func (c *HTTPClient) UpdateExpense(ctx context.Context, token string, id int64, in models.ExpenseInput) (*models.Expense, error) {
	var env expenseEnvelope
	path := "/expenses/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodPut, path, token, in, &env, classifyExpense); err != nil {
		return nil, err
	}
	return env.Expense, nil
}

func (c *HTTPClient) DeleteExpense(ctx context.Context, token string, id int64) error {
	path := "/expenses/" + strconv.FormatInt(id, 10)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil, classifyExpense)
}

// Close releases idle keep-alive connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
