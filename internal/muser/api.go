package muser

import (
	"context"
	"fmt"
	"net/http"

	"kyri56xcaesar/abac-front/internal/gateway"
)

// Service maps the /user resource.
type Service struct {
	api gateway.Doer
}

func NewService(api gateway.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) All(ctx context.Context) ([]User, error) {
	var resp struct {
		Records []User `json:"records"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/user", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	return resp.Records, nil
}

func (s *Service) ByID(ctx context.Context, userID int64) (User, error) {
	var resp struct {
		Record User `json:"record"`
	}
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/user/%d", userID), nil, &resp); err != nil {
		return User{}, fmt.Errorf("failed to fetch user by id: %w", err)
	}

	return resp.Record, nil
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) error {
	if err := s.api.Do(ctx, http.MethodPost, "/user", req, nil); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (s *Service) Update(ctx context.Context, userID int64, req UpdateUserRequest) error {
	if err := s.api.Do(ctx, http.MethodPatch, fmt.Sprintf("/user/%d", userID), req, nil); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

func (s *Service) Delete(ctx context.Context, userID int64) error {
	if err := s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/user/%d", userID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
