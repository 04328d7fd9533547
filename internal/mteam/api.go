package mteam

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

// Service maps the /team resource.
type Service struct {
	api gateway.Doer
}

func NewService(api gateway.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) All(ctx context.Context) ([]Team, error) {
	var resp struct {
		Records []Team `json:"records"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/team", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %w", err)
	}

	return resp.Records, nil
}

func (s *Service) ByID(ctx context.Context, teamID int64) (Team, error) {
	var resp struct {
		Record Team `json:"record"`
	}
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/team/%d", teamID), nil, &resp); err != nil {
		return Team{}, fmt.Errorf("failed to fetch team by id: %w", err)
	}

	return resp.Record, nil
}

// Create returns the id of the new team.
func (s *Service) Create(ctx context.Context, req CreateTeamRequest) (int64, error) {
	var resp struct {
		TeamID int64 `json:"teamId"`
		Record struct {
			TeamID int64 `json:"team_id"`
		} `json:"record"`
	}
	if err := s.api.Do(ctx, http.MethodPost, "/team", req, &resp); err != nil {
		return 0, fmt.Errorf("failed to create team: %w", err)
	}

	id := resp.TeamID
	if id == 0 {
		id = resp.Record.TeamID
	}
	if id == 0 {
		return 0, fmt.Errorf("failed to create team: no id in response: %w", gateway.ErrDecode)
	}

	return id, nil
}

func (s *Service) Update(ctx context.Context, teamID int64, req UpdateTeamRequest) error {
	if err := s.api.Do(ctx, http.MethodPatch, fmt.Sprintf("/team/%d", teamID), req, nil); err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}

	return nil
}

func (s *Service) Delete(ctx context.Context, teamID int64) error {
	if err := s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/team/%d", teamID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	return nil
}
