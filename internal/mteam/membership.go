package mteam

import (
	"context"
	"fmt"
	"net/http"

	"kyri56xcaesar/abac-front/internal/gateway"
)

// MembershipService maps the /user_by_team join resource.
type MembershipService struct {
	api gateway.Doer
}

func NewMembershipService(api gateway.Doer) *MembershipService {
	return &MembershipService{api: api}
}

func (s *MembershipService) All(ctx context.Context) ([]Membership, error) {
	var resp struct {
		Records []Membership `json:"records"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/user_by_team", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch memberships: %w", err)
	}

	return resp.Records, nil
}

// TeamsByUser lists the teams userID owns or belongs to.
func (s *MembershipService) TeamsByUser(ctx context.Context, userID int64) ([]Team, error) {
	var resp struct {
		Teams []Team `json:"teams"`
	}
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/user_by_team/user/%d", userID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch teams by user: %w", err)
	}

	return resp.Teams, nil
}

func (s *MembershipService) UsersByTeam(ctx context.Context, teamID int64) ([]Membership, error) {
	var resp struct {
		Users []Membership `json:"users"`
	}
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/user_by_team/team/%d", teamID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch users by team: %w", err)
	}

	return resp.Users, nil
}

func (s *MembershipService) Add(ctx context.Context, teamID, userID int64) error {
	body := addMemberRequest{TeamID: teamID, UserID: userID}
	if err := s.api.Do(ctx, http.MethodPost, "/user_by_team", body, nil); err != nil {
		return fmt.Errorf("failed to add user to team: %w", err)
	}

	return nil
}

func (s *MembershipService) Remove(ctx context.Context, membershipID int64) error {
	if err := s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/user_by_team/%d", membershipID), nil, nil); err != nil {
		return fmt.Errorf("failed to remove user from team: %w", err)
	}

	return nil
}
