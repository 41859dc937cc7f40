// Package flowapi implements the service interfaces against the remote
// function-invocation backend. Every response uses a {success, ...}
// envelope; callers only ever see the typed payload or a classified error.
package flowapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"flowlist/internal/config"
	"flowlist/internal/service"
)

// Backend function paths.
const (
	pathLogin       = "/auth/login"
	pathRegister    = "/auth/register"
	pathVerify      = "/auth/verify"
	pathTasksList   = "/tasks/get-all"
	pathTasksCreate = "/tasks/create"
	pathTasksUpdate = "/tasks/update"
	pathTasksDelete = "/tasks/delete"
	pathTasksToggle = "/tasks/toggle-complete"
)

// Fallback messages when the server envelope carries no error text.
const (
	fallbackLogin    = "Login failed"
	fallbackRegister = "Registration failed"
	fallbackVerify   = "Verification failed"
	fallbackList     = "Failed to fetch tasks"
	fallbackCreate   = "Failed to create task"
	fallbackUpdate   = "Failed to update task"
	fallbackDelete   = "Failed to delete task"
	fallbackToggle   = "Failed to toggle task completion"
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	token   service.TokenFunc
	httpc   *http.Client
	timeout time.Duration
}

// New creates a gateway client from config. The token func may return ""
// at any time; authenticated calls then fail fast with ErrUnauthenticated.
func New(cfg *config.Config, token service.TokenFunc) (*Client, error) {
	base := strings.TrimRight(cfg.Settings.APIBaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("no API base URL configured (set api_base_url in %s or %s)",
			cfg.SettingsPath(), config.EnvAPIURL)
	}
	timeout := cfg.Settings.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Client{
		baseURL: base,
		token:   token,
		httpc:   &http.Client{},
		timeout: timeout,
	}, nil
}

// envelope is the wire response shape shared by every backend function.
type envelope struct {
	Success bool           `json:"success"`
	Error   string         `json:"error"`
	Tasks   []service.Task `json:"tasks"`
	Task    *service.Task  `json:"task"`
	User    *service.User  `json:"user"`
	Token   string         `json:"token"`
}

// authRejections are envelope messages that mean the token is no longer
// good even though the request itself was well formed.
var authRejections = map[string]bool{
	"session expired":   true,
	"invalid token":     true,
	"token expired":     true,
	"not authenticated": true,
	"unauthorized":      true,
}

// invoke performs one backend call and decodes the envelope.
// withAuth calls fail with ErrUnauthenticated before any network activity
// when no token is available.
func (c *Client) invoke(ctx context.Context, path string, body any, withAuth bool, fallback string) (*envelope, error) {
	var bearer string
	if withAuth {
		bearer = c.token()
		if bearer == "" {
			return nil, service.ErrUnauthenticated
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, service.NewDomainError("", fallback)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reqBody)
	if err != nil {
		return nil, service.NewDomainError("", fallback)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		log.WithFields(log.Fields{"path": path, "request_id": reqID}).
			Debugf("request failed: %v", err)
		return nil, service.NewDomainError("", fallback)
	}
	defer resp.Body.Close()

	// Only calls that carried a token can have it rejected. Login and
	// register answer 401 for bad credentials; that is a domain failure.
	if withAuth && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		return nil, service.ErrUnauthenticated
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		log.WithFields(log.Fields{"path": path, "request_id": reqID}).
			Debugf("malformed response: %v", err)
		return nil, service.NewDomainError("", fallback)
	}

	log.WithFields(log.Fields{
		"path":       path,
		"request_id": reqID,
		"status":     resp.StatusCode,
		"success":    env.Success,
		"duration":   time.Since(start),
	}).Debug("backend call")

	if !env.Success {
		if withAuth && authRejections[strings.ToLower(strings.TrimSpace(env.Error))] {
			return nil, service.ErrUnauthenticated
		}
		return nil, service.NewDomainError(env.Error, fallback)
	}
	return &env, nil
}

// Login implements service.Authenticator.
func (c *Client) Login(ctx context.Context, email, password string) (service.Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	env, err := c.invoke(ctx, pathLogin, body, false, fallbackLogin)
	if err != nil {
		return service.Credentials{}, err
	}
	if env.User == nil || env.Token == "" {
		return service.Credentials{}, service.NewDomainError("", fallbackLogin)
	}
	return service.Credentials{User: *env.User, Token: env.Token}, nil
}

// Register implements service.Authenticator.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	_, err := c.invoke(ctx, pathRegister, body, false, fallbackRegister)
	return err
}

// Verify implements service.Authenticator.
func (c *Client) Verify(ctx context.Context) (service.User, error) {
	env, err := c.invoke(ctx, pathVerify, nil, true, fallbackVerify)
	if err != nil {
		return service.User{}, err
	}
	if env.User == nil {
		return service.User{}, service.NewDomainError("", fallbackVerify)
	}
	return *env.User, nil
}

// ListAll implements service.TaskService. Server order is preserved.
func (c *Client) ListAll(ctx context.Context) ([]service.Task, error) {
	env, err := c.invoke(ctx, pathTasksList, nil, true, fallbackList)
	if err != nil {
		return nil, err
	}
	return env.Tasks, nil
}

// GetByID implements service.TaskService by scanning ListAll.
func (c *Client) GetByID(ctx context.Context, id string) (service.Task, error) {
	tasks, err := c.ListAll(ctx)
	if err != nil {
		return service.Task{}, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return service.Task{}, service.ErrNotFound
}

// Create implements service.TaskService.
func (c *Client) Create(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	env, err := c.invoke(ctx, pathTasksCreate, draft, true, fallbackCreate)
	if err != nil {
		return service.Task{}, err
	}
	if env.Task == nil {
		return service.Task{}, service.NewDomainError("", fallbackCreate)
	}
	return *env.Task, nil
}

// Update implements service.TaskService.
func (c *Client) Update(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	body := struct {
		TaskID  string            `json:"taskId"`
		Updates service.TaskPatch `json:"updates"`
	}{TaskID: id, Updates: patch}
	env, err := c.invoke(ctx, pathTasksUpdate, body, true, fallbackUpdate)
	if err != nil {
		return service.Task{}, err
	}
	if env.Task == nil {
		return service.Task{}, service.NewDomainError("", fallbackUpdate)
	}
	return *env.Task, nil
}

// Delete implements service.TaskService.
func (c *Client) Delete(ctx context.Context, id string) error {
	body := map[string]string{"taskId": id}
	_, err := c.invoke(ctx, pathTasksDelete, body, true, fallbackDelete)
	return err
}

// ToggleComplete implements service.TaskService.
func (c *Client) ToggleComplete(ctx context.Context, id string) (service.Task, error) {
	body := map[string]string{"taskId": id}
	env, err := c.invoke(ctx, pathTasksToggle, body, true, fallbackToggle)
	if err != nil {
		return service.Task{}, err
	}
	if env.Task == nil {
		return service.Task{}, service.NewDomainError("", fallbackToggle)
	}
	return *env.Task, nil
}
