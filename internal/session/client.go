package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/goaltrack/backend/internal/model"
	"github.com/google/uuid"
)

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to the goaltrack API. All calls attach the stored access
// token; on a 401 the client refreshes once and retries once. A second
// 401 after a successful refresh is returned to the caller as-is.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore

	// refreshMu keeps the silent refresh single-flight: concurrent
	// callers that all hit a 401 perform one rotation, not many.
	refreshMu sync.Mutex
}

func NewClient(baseURL string, store TokenStore) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		store: store,
	}
}

// Login opens a session and persists the token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	return c.authCall(ctx, "/api/v1/auth/login", model.LoginRequest{Email: email, Password: password})
}

// Signup creates an account; like login it ends in an active session.
func (c *Client) Signup(ctx context.Context, email, password, name string) (*model.AuthResponse, error) {
	return c.authCall(ctx, "/api/v1/auth/signup", model.SignupRequest{Email: email, Password: password, Name: name})
}

// LoginWithGoogle exchanges a Google ID token for a session.
func (c *Client) LoginWithGoogle(ctx context.Context, credential string) (*model.AuthResponse, error) {
	return c.authCall(ctx, "/api/v1/auth/google", model.GoogleLoginRequest{Credential: credential})
}

func (c *Client) authCall(ctx context.Context, path string, body any) (*model.AuthResponse, error) {
	var res model.AuthResponse
	if err := c.doOnce(ctx, http.MethodPost, path, "", body, &res); err != nil {
		return nil, err
	}
	if err := c.store.Save(res.Tokens.AccessToken, res.Tokens.RefreshToken); err != nil {
		return nil, err
	}
	return &res, nil
}

// Refresh redeems the stored refresh token for a new pair and persists
// it. Most callers never need this directly; do() invokes it on 401.
func (c *Client) Refresh(ctx context.Context) (*model.AuthResponse, error) {
	_, refreshToken, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	if refreshToken == "" {
		_ = c.store.Clear()
		return nil, ErrSessionExpired
	}

	var res model.AuthResponse
	if err := c.doOnce(ctx, http.MethodPost, "/api/v1/auth/refresh", refreshToken, nil, &res); err != nil {
		_ = c.store.Clear()
		return nil, ErrSessionExpired
	}
	if err := c.store.Save(res.Tokens.AccessToken, res.Tokens.RefreshToken); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout revokes the refresh token server-side and clears local state.
// Local tokens are cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	_, refreshToken, err := c.store.Load()
	if err != nil {
		return err
	}

	var callErr error
	if refreshToken != "" {
		var res model.LogoutResponse
		callErr = c.doOnce(ctx, http.MethodPost, "/api/v1/auth/logout", refreshToken, nil, &res)
	}
	if err := c.store.Clear(); err != nil {
		return err
	}
	return callErr
}

func (c *Client) Me(ctx context.Context) (*model.PublicUser, error) {
	var user model.PublicUser
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Tasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id uuid.UUID, req model.UpdateTaskRequest) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPatch, "/api/v1/tasks/"+id.String(), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+id.String(), nil, nil)
}

func (c *Client) Goals(ctx context.Context) ([]model.Goal, error) {
	var goals []model.Goal
	if err := c.do(ctx, http.MethodGet, "/api/v1/goals", nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (c *Client) CreateGoal(ctx context.Context, req model.CreateGoalRequest) (*model.Goal, error) {
	var goal model.Goal
	if err := c.do(ctx, http.MethodPost, "/api/v1/goals", req, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (c *Client) UpdateGoal(ctx context.Context, id uuid.UUID, req model.UpdateGoalRequest) (*model.Goal, error) {
	var goal model.Goal
	if err := c.do(ctx, http.MethodPatch, "/api/v1/goals/"+id.String(), req, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (c *Client) CompleteGoal(ctx context.Context, id uuid.UUID) (*model.Goal, error) {
	var goal model.Goal
	if err := c.do(ctx, http.MethodPost, "/api/v1/goals/"+id.String()+"/complete", nil, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (c *Client) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/goals/"+id.String(), nil, nil)
}

func (c *Client) SuggestTask(ctx context.Context) (*model.TaskSuggestion, error) {
	var suggestion model.TaskSuggestion
	if err := c.do(ctx, http.MethodPost, "/api/v1/suggestions/task", nil, &suggestion); err != nil {
		return nil, err
	}
	return &suggestion, nil
}

// do runs one authenticated call with the single-retry policy:
// try with the current access token; on 401 refresh once and retry
// once with the new token; anything else propagates.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	accessToken, _, err := c.store.Load()
	if err != nil {
		return err
	}

	err = c.doOnce(ctx, method, path, accessToken, body, out)
	if !isUnauthorized(err) {
		return err
	}

	newAccess, err := c.refreshAfter401(ctx, accessToken)
	if err != nil {
		return err
	}

	return c.doOnce(ctx, method, path, newAccess, body, out)
}

// refreshAfter401 performs the single silent refresh. Under the lock it
// re-reads the store first: if another goroutine already rotated the
// pair, its fresh access token is reused instead of spending this
// client's one refresh on a token that is already stale.
func (c *Client) refreshAfter401(ctx context.Context, usedAccess string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	access, refresh, err := c.store.Load()
	if err != nil {
		return "", err
	}
	if access != "" && access != usedAccess {
		return access, nil
	}
	if refresh == "" {
		_ = c.store.Clear()
		return "", ErrSessionExpired
	}

	res, err := c.Refresh(ctx)
	if err != nil {
		return "", err
	}
	return res.Tokens.AccessToken, nil
}

func (c *Client) doOnce(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errRes model.ErrorResponse
		message := resp.Status
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errRes); decodeErr == nil && errRes.Error != "" {
			message = errRes.Error
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func isUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusUnauthorized
}
