package muser

import (
	"context"
	"strings"

	"kyri56xcaesar/abac-front/internal/utils"
)

// Identity yields the acting user's id from the session.
type Identity interface {
	CurrentUserID() (int64, error)
}

// ProfileForm is a profile edit. Nil optional fields were not posted and are
// left as stored.
type ProfileForm struct {
	Username    string  `form:"username" json:"username"`
	Password    string  `form:"password" json:"password"`
	Name        *string `form:"name" json:"name"`
	Address     *string `form:"address" json:"address"`
	PhoneNumber *string `form:"phone_number" json:"phone_number"`
}

func (f ProfileForm) validate() error {
	if strings.TrimSpace(f.Username) == "" {
		return utils.NewValidation("username", "cannot be empty")
	}

	return nil
}

// request turns the form into a PATCH body. An empty password means "unchanged".
func (f ProfileForm) request() UpdateUserRequest {
	username := strings.TrimSpace(f.Username)
	req := UpdateUserRequest{
		Username:    &username,
		Name:        f.Name,
		Address:     f.Address,
		PhoneNumber: f.PhoneNumber,
	}
	if f.Password != "" {
		req.Password = &f.Password
	}

	return req
}

// Profile holds the signed-in user's record.
type Profile struct {
	users *Service
	me    Identity

	User User
}

func NewProfile(users *Service, me Identity) *Profile {
	return &Profile{users: users, me: me}
}

func (p *Profile) Load(ctx context.Context) error {
	id, err := p.me.CurrentUserID()
	if err != nil {
		return err
	}
	u, err := p.users.ByID(ctx, id)
	if err != nil {
		return err
	}
	p.User = u

	return nil
}

// Update patches the profile and replaces the held record with the server's copy.
func (p *Profile) Update(ctx context.Context, form ProfileForm) error {
	if err := form.validate(); err != nil {
		return err
	}
	id, err := p.me.CurrentUserID()
	if err != nil {
		return err
	}
	if err := p.users.Update(ctx, id, form.request()); err != nil {
		return err
	}

	return p.Load(ctx)
}

// Form returns the current record as an edit form, password left blank.
func (p *Profile) Form() ProfileForm {
	name, address, phone := p.User.Name, p.User.Address, p.User.PhoneNumber
	return ProfileForm{
		Username:    p.User.Username,
		Name:        &name,
		Address:     &address,
		PhoneNumber: &phone,
	}
}
