package mtask

import (
	"context"
	"fmt"
	"net/http"

	"kyri56xcaesar/abac-front/internal/gateway"
)

// AssignmentService maps the /task_by_user join resource.
type AssignmentService struct {
	api gateway.Doer
}

func NewAssignmentService(api gateway.Doer) *AssignmentService {
	return &AssignmentService{api: api}
}

func (s *AssignmentService) All(ctx context.Context) ([]Assignment, error) {
	var resp struct {
		Records []Assignment `json:"records"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/task_by_user", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	return resp.Records, nil
}

func (s *AssignmentService) TaskIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	var resp struct {
		TaskIDs []int64 `json:"taskIds"`
	}
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/task_by_user/user/%d", userID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch tasks by user: %w", err)
	}

	return resp.TaskIDs, nil
}

func (s *AssignmentService) UserIDsByTask(ctx context.Context, taskID int64) ([]int64, error) {
	var resp struct {
		UserIDs []int64 `json:"userIds"`
	}
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/task_by_user/task/%d", taskID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch users by task: %w", err)
	}

	return resp.UserIDs, nil
}

func (s *AssignmentService) Assign(ctx context.Context, taskID, userID int64) error {
	body := assignRequest{TaskID: taskID, UserID: userID}
	if err := s.api.Do(ctx, http.MethodPost, "/task_by_user", body, nil); err != nil {
		return fmt.Errorf("failed to assign task: %w", err)
	}

	return nil
}

func (s *AssignmentService) Unassign(ctx context.Context, assignmentID int64) error {
	if err := s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/task_by_user/%d", assignmentID), nil, nil); err != nil {
		return fmt.Errorf("failed to unassign task: %w", err)
	}

	return nil
}

// ClearTask drops every assignment of taskID.
func (s *AssignmentService) ClearTask(ctx context.Context, taskID int64) error {
	if err := s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/task_by_user/task/%d", taskID), nil, nil); err != nil {
		return fmt.Errorf("failed to clear task assignments: %w", err)
	}

	return nil
}
