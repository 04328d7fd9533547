package mteam

import (
	"context"

	"kyri56xcaesar/abac-front/internal/utils"
)

type ListState int

const (
	Loading ListState = iota
	Loaded
	Empty
	// Failed is set when Load errors; Teams keeps what was there before.
	Failed
)

func (s ListState) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	default:
		return "loading"
	}
}

// TeamList is the "select team" screen: the teams the signed-in user owns or joined.
// Mutations patch Teams in place instead of refetching.
type TeamList struct {
	members *MembershipService
	teams   *Service
	me      Identity

	State  ListState
	UserID int64
	Teams  []Team
}

func NewTeamList(teams *Service, members *MembershipService, me Identity) *TeamList {
	return &TeamList{teams: teams, members: members, me: me, State: Loading}
}

func (l *TeamList) Load(ctx context.Context) error {
	l.State = Loading
	id, err := l.me.CurrentUserID()
	if err != nil {
		l.State = Failed
		return err
	}
	teams, err := l.members.TeamsByUser(ctx, id)
	if err != nil {
		l.State = Failed
		return err
	}
	l.UserID = id
	l.Teams = teams
	l.settle()

	return nil
}

func (l *TeamList) IsOwner(t Team) bool {
	return l.UserID != 0 && t.Owner == l.UserID
}

// Delete removes the team remotely, then drops it from the list.
// Ids not in the list are read first, so a missing team surfaces the API's 404
// and a team owned by someone else is rejected.
func (l *TeamList) Delete(ctx context.Context, teamID int64) error {
	i := l.index(teamID)
	var team Team
	if i >= 0 {
		team = l.Teams[i]
	} else {
		t, err := l.teams.ByID(ctx, teamID)
		if err != nil {
			return err
		}
		team = t
	}
	if !l.IsOwner(team) {
		return utils.NewValidation("team", "only the owner can delete %q", team.Name)
	}
	if err := l.teams.Delete(ctx, teamID); err != nil {
		return err
	}
	if i >= 0 {
		l.Teams = append(l.Teams[:i], l.Teams[i+1:]...)
	}
	l.settle()

	return nil
}

// Apply upserts a team returned by a form submit.
func (l *TeamList) Apply(t Team) {
	if i := l.index(t.TeamID); i >= 0 {
		l.Teams[i] = t
	} else {
		l.Teams = append(l.Teams, t)
	}
	l.settle()
}

func (l *TeamList) index(teamID int64) int {
	for i, t := range l.Teams {
		if t.TeamID == teamID {
			return i
		}
	}

	return -1
}

func (l *TeamList) settle() {
	if len(l.Teams) == 0 {
		l.State = Empty
		return
	}
	l.State = Loaded
}
