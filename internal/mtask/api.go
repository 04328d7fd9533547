package mtask

import (
	"context"
	"fmt"
	"net/http"

	"kyri56xcaesar/abac-front/internal/gateway"
)

// Identity yields the acting user's id from the session.
type Identity interface {
	CurrentUserID() (int64, error)
}

// Service maps the /task resource.
type Service struct {
	api gateway.Doer
}

func NewService(api gateway.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) All(ctx context.Context) ([]Task, error) {
	var resp struct {
		Records []Task `json:"records"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/task", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	return resp.Records, nil
}

func (s *Service) ByID(ctx context.Context, taskID int64) (Task, error) {
	var resp struct {
		Record Task `json:"record"`
	}
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/task/%d", taskID), nil, &resp); err != nil {
		return Task{}, fmt.Errorf("failed to fetch task by id: %w", err)
	}

	return resp.Record, nil
}

func (s *Service) ByTeam(ctx context.Context, teamID int64) ([]Task, error) {
	var resp struct {
		Records []Task `json:"records"`
	}
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/task/team/%d", teamID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch tasks by team: %w", err)
	}

	return resp.Records, nil
}

// Create returns the id of the new task.
func (s *Service) Create(ctx context.Context, req CreateTaskRequest) (int64, error) {
	var resp struct {
		TaskID int64 `json:"taskId"`
		Record struct {
			ID int64 `json:"id"`
		} `json:"record"`
	}
	if err := s.api.Do(ctx, http.MethodPost, "/task", req, &resp); err != nil {
		return 0, fmt.Errorf("failed to create task: %w", err)
	}

	id := resp.TaskID
	if id == 0 {
		id = resp.Record.ID
	}
	if id == 0 {
		return 0, fmt.Errorf("failed to create task: no id in response: %w", gateway.ErrDecode)
	}

	return id, nil
}

func (s *Service) Update(ctx context.Context, taskID int64, req UpdateTaskRequest) error {
	if err := s.api.Do(ctx, http.MethodPatch, fmt.Sprintf("/task/%d", taskID), req, nil); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

func (s *Service) Delete(ctx context.Context, taskID int64) error {
	if err := s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/task/%d", taskID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
