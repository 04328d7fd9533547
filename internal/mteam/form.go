package mteam

import (
	"context"
	"strings"

	"kyri56xcaesar/abac-front/internal/muser"
	"kyri56xcaesar/abac-front/internal/utils"
)

type EntryState int

const (
	Unchanged EntryState = iota
	Added
	Removed
)

func (s EntryState) String() string {
	switch s {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unchanged"
	}
}

// MemberEntry is one non-owner member row of the form.
// MembershipID is zero for Added entries.
type MemberEntry struct {
	UserID       int64
	Username     string
	MembershipID int64
	State        EntryState
}

type FormMode int

const (
	CreateMode FormMode = iota
	EditMode
)

// UserDirectory lists every user; the add-by-username flow matches against it.
type UserDirectory interface {
	All(ctx context.Context) ([]muser.User, error)
}

// TeamForm drafts a team and its member set. Member changes stay local until Submit,
// which turns Added and Removed entries into membership calls.
type TeamForm struct {
	teams   *Service
	members *MembershipService
	users   UserDirectory
	me      Identity

	Mode        FormMode
	TeamID      int64
	Owner       int64
	Name        string
	Description string

	userID    int64
	directory []muser.User
	entries   []MemberEntry
}

func NewTeamForm(teams *Service, members *MembershipService, users UserDirectory, me Identity) *TeamForm {
	return &TeamForm{teams: teams, members: members, users: users, me: me}
}

func (f *TeamForm) OpenCreate(ctx context.Context) error {
	if err := f.open(ctx); err != nil {
		return err
	}
	f.Mode = CreateMode
	f.Owner = f.userID

	return nil
}

// OpenEdit loads the team and its members; the owner is never part of the entries.
func (f *TeamForm) OpenEdit(ctx context.Context, teamID int64) error {
	if err := f.open(ctx); err != nil {
		return err
	}
	team, err := f.teams.ByID(ctx, teamID)
	if err != nil {
		return err
	}
	rows, err := f.members.UsersByTeam(ctx, teamID)
	if err != nil {
		return err
	}

	f.Mode = EditMode
	f.TeamID = team.TeamID
	f.Owner = team.Owner
	f.Name = team.Name
	f.Description = team.Description
	for _, m := range rows {
		if m.UserID == team.Owner {
			continue
		}
		f.entries = append(f.entries, MemberEntry{
			UserID:       m.UserID,
			Username:     m.UserName,
			MembershipID: m.ID,
			State:        Unchanged,
		})
	}

	return nil
}

func (f *TeamForm) open(ctx context.Context) error {
	id, err := f.me.CurrentUserID()
	if err != nil {
		return err
	}
	dir, err := f.users.All(ctx)
	if err != nil {
		return err
	}
	f.userID = id
	f.directory = dir
	f.entries = nil
	f.TeamID, f.Owner = 0, 0
	f.Name, f.Description = "", ""

	return nil
}

// AddMember matches username exactly against the directory loaded at open. No network.
func (f *TeamForm) AddMember(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return utils.NewValidation("username", "enter a username")
	}

	var found *muser.User
	for i := range f.directory {
		if f.directory[i].Username == username {
			found = &f.directory[i]
			break
		}
	}
	switch {
	case found == nil:
		return utils.NewValidation("username", "user %q not found", username)
	case found.ID == f.userID:
		return utils.NewValidation("username", "you cannot add yourself")
	case found.ID == f.Owner:
		return utils.NewValidation("username", "%q owns this team", username)
	}

	if i := f.entryIndex(found.ID); i >= 0 {
		if f.entries[i].State == Removed {
			f.entries[i].State = Unchanged
			return nil
		}
		return utils.NewValidation("username", "%q is already a member", username)
	}
	f.entries = append(f.entries, MemberEntry{UserID: found.ID, Username: found.Username, State: Added})

	return nil
}

func (f *TeamForm) RemoveMember(userID int64) error {
	i := f.entryIndex(userID)
	if i < 0 {
		return utils.NewValidation("member", "user %d is not a member", userID)
	}
	switch f.entries[i].State {
	case Added:
		f.entries = append(f.entries[:i], f.entries[i+1:]...)
	case Unchanged:
		f.entries[i].State = Removed
	}

	return nil
}

// Members returns the entries that will be members after submit.
func (f *TeamForm) Members() []MemberEntry {
	return utils.Filter(f.entries, func(e MemberEntry) bool { return e.State != Removed })
}

// Entries returns every entry including the ones pending removal.
func (f *TeamForm) Entries() []MemberEntry {
	return append([]MemberEntry(nil), f.entries...)
}

// Submit writes the team and reconciles memberships. Calls run in order and stop at the
// first failure; nothing already written is rolled back.
func (f *TeamForm) Submit(ctx context.Context) (Team, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return Team{}, utils.NewValidation("team_name", "team name is required")
	}

	teamID := f.TeamID
	if f.Mode == CreateMode {
		id, err := f.teams.Create(ctx, CreateTeamRequest{
			Name:        name,
			Description: f.Description,
			Owner:       f.userID,
			CreatedBy:   f.userID,
		})
		if err != nil {
			return Team{}, err
		}
		teamID = id
		f.TeamID = id
		if err := f.members.Add(ctx, teamID, f.userID); err != nil {
			return Team{}, err
		}
	} else {
		req := UpdateTeamRequest{Name: &name, Description: &f.Description}
		if err := f.teams.Update(ctx, teamID, req); err != nil {
			return Team{}, err
		}
		for _, e := range f.entries {
			if e.State != Removed {
				continue
			}
			if err := f.members.Remove(ctx, e.MembershipID); err != nil {
				return Team{}, err
			}
		}
	}

	for _, e := range f.entries {
		if e.State != Added {
			continue
		}
		if err := f.members.Add(ctx, teamID, e.UserID); err != nil {
			return Team{}, err
		}
	}

	return f.teams.ByID(ctx, teamID)
}

func (f *TeamForm) entryIndex(userID int64) int {
	for i, e := range f.entries {
		if e.UserID == userID {
			return i
		}
	}

	return -1
}
