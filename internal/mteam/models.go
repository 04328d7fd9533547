package mteam

type Team struct {
	TeamID      int64  `json:"team_id"`
	Name        string `json:"team_name"`
	Description string `json:"team_description,omitempty"`
	Owner       int64  `json:"owner"`
	CreatedBy   int64  `json:"created_by"`
}

// Membership is one (team, user) row; ID is its own surrogate key and the deletion key.
type Membership struct {
	ID       int64  `json:"user_by_team_id"`
	TeamID   int64  `json:"team_id"`
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
}

type CreateTeamRequest struct {
	Name        string `json:"team_name" form:"team_name"`
	Description string `json:"team_description,omitempty" form:"team_description"`
	Owner       int64  `json:"owner"`
	CreatedBy   int64  `json:"created_by"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"team_name,omitempty" form:"team_name"`
	Description *string `json:"team_description,omitempty" form:"team_description"`
}

type addMemberRequest struct {
	TeamID int64 `json:"team_id"`
	UserID int64 `json:"user_id"`
}
