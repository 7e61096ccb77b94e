package client

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

	dto "project-board.com/project-board/internal/data_models"
	apperrors "project-board.com/project-board/internal/errors"
	model "project-board.com/project-board/internal/models"
)

// APIError is a non-2xx response that has no richer typed form.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("task api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("task api: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the task API and keeps Cache in step with confirmed responses.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *Cache
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   NewCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Cache() *Cache {
	return c.cache
}

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, http.StatusOK, &tasks); err != nil {
		return nil, err
	}
	c.cache.ReplaceAll(tasks)
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return c.fetch(ctx, id, "/tasks/"+url.PathEscape(id))
}

func (c *Client) FreshTask(ctx context.Context, id string) (*model.Task, error) {
	return c.fetch(ctx, id, "/tasks/"+url.PathEscape(id)+"/fresh")
}

func (c *Client) CreateTask(ctx context.Context, fields dto.TaskFields) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", dto.CreateTaskRequest{TaskFields: fields}, http.StatusCreated, &task); err != nil {
		return nil, err
	}
	c.cache.Put(&task)
	return &task, nil
}

// AttemptUpdate sends a full update at expectedVersion. A 409 is returned as
// *apperrors.ConflictError and its snapshot is cached as the confirmed state.
func (c *Client) AttemptUpdate(ctx context.Context, id string, fields dto.TaskFields, expectedVersion int64) (*model.Task, error) {
	req := dto.UpdateTaskRequest{TaskFields: fields, Version: &expectedVersion}

	var task model.Task
	err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), req, http.StatusOK, &task)
	if err != nil {
		c.observeError(id, err)
		return nil, err
	}
	c.cache.Put(&task)
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, http.StatusNoContent, nil)
	if err != nil {
		c.observeError(id, err)
		return err
	}
	c.cache.Remove(id)
	return nil
}

func (c *Client) CheckConflict(ctx context.Context, id string, lastFetched time.Time) (*dto.ConflictCheck, error) {
	path := "/tasks/" + url.PathEscape(id) + "/conflict-check?lastFetched=" +
		url.QueryEscape(lastFetched.UTC().Format(time.RFC3339Nano))

	var check dto.ConflictCheck
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &check); err != nil {
		c.observeError(id, err)
		return nil, err
	}
	if check.CurrentSnapshot != nil {
		c.cache.Put(check.CurrentSnapshot)
	}
	return &check, nil
}

func (c *Client) BulkUpdateStatus(ctx context.Context, ids []string, status string) ([]model.Task, error) {
	var tasks []model.Task
	req := dto.BulkStatusRequest{TaskIDs: ids, Status: status}
	if err := c.do(ctx, http.MethodPatch, "/tasks/bulk-status", req, http.StatusOK, &tasks); err != nil {
		return nil, err
	}
	for i := range tasks {
		c.cache.Put(&tasks[i])
	}
	return tasks, nil
}

func (c *Client) fetch(ctx context.Context, id, path string) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &task); err != nil {
		c.observeError(id, err)
		return nil, err
	}
	c.cache.Put(&task)
	return &task, nil
}

// observeError applies what a failed response confirms about task id.
func (c *Client) observeError(id string, err error) {
	var conflict *apperrors.ConflictError
	switch {
	case errors.As(err, &conflict):
		c.cache.Put(conflict.Current)
	case errors.Is(err, apperrors.ErrTaskNotFound):
		c.cache.Remove(id)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != want {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	switch status {
	case http.StatusNotFound:
		return apperrors.ErrTaskNotFound

	case http.StatusConflict:
		var body dto.ConflictResponse
		if err := json.Unmarshal(raw, &body); err == nil && body.CurrentData != nil {
			return &apperrors.ConflictError{
				Message:          body.Message,
				CurrentVersion:   body.CurrentData.Version,
				AttemptedVersion: body.AttemptedVersion,
				Current:          body.CurrentData,
				Timestamp:        time.UnixMilli(body.Timestamp).UTC(),
			}
		}

	case http.StatusBadRequest:
		var body dto.ValidationResponse
		if err := json.Unmarshal(raw, &body); err == nil && len(body.FieldErrors) > 0 {
			return &apperrors.ValidationError{Fields: body.FieldErrors}
		}
	}

	var body dto.ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return &APIError{StatusCode: status, Code: http.StatusText(status), Message: strings.TrimSpace(string(raw))}
	}
	return &APIError{StatusCode: status, Code: body.Error, Message: body.Message}
}
