package backend

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// User is the backend's user profile record.
type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// AuthResult is the canonical authentication response: a bearer token plus
// the authenticated user's profile.
type AuthResult struct {
	Token string
	User  User
}

// Signup registers a new account and returns the issued token and profile.
func (c *Client) Signup(ctx context.Context, name, email, password, role string) (*AuthResult, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("name")
	e.Str(name)
	e.FieldStart("email")
	e.Str(email)
	e.FieldStart("password")
	e.Str(password)
	e.FieldStart("role")
	e.Str(role)
	e.ObjEnd()

	data, err := c.send(ctx, "POST", "/auth/signup", e.Bytes())
	if err != nil {
		return nil, err
	}
	return decodeAuthResult(data)
}

// Login authenticates an existing account.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("email")
	e.Str(email)
	e.FieldStart("password")
	e.Str(password)
	e.ObjEnd()

	data, err := c.send(ctx, "POST", "/auth/login", e.Bytes())
	if err != nil {
		return nil, err
	}
	return decodeAuthResult(data)
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	data, err := c.get(ctx, "/users/me", nil)
	if err != nil {
		return nil, err
	}

	d := jx.DecodeBytes(data)
	u, err := decodeUser(d)
	if err != nil {
		return nil, errors.Wrap(ErrUnexpectedShape, err.Error())
	}
	return &u, nil
}

// UpdateProfile updates the authenticated user's display name.
func (c *Client) UpdateProfile(ctx context.Context, name string) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("name")
	e.Str(name)
	e.ObjEnd()

	_, err := c.send(ctx, "PUT", "/users/me", e.Bytes())
	return err
}

func decodeAuthResult(data []byte) (*AuthResult, error) {
	var out AuthResult
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "token":
			var err error
			out.Token, err = d.Str()
			return err
		case "user":
			u, err := decodeUser(d)
			if err != nil {
				return err
			}
			out.User = u
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, errors.Wrap(ErrUnexpectedShape, err.Error())
	}
	if out.Token == "" || out.User.ID == "" {
		return nil, errors.Wrap(ErrUnexpectedShape, "missing token or user")
	}
	return &out, nil
}

func decodeUser(d *jx.Decoder) (User, error) {
	var u User
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			u.ID, err = d.Str()
		case "name":
			u.Name, err = d.Str()
		case "email":
			u.Email, err = d.Str()
		case "role":
			u.Role, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return u, err
	}
	if u.ID == "" {
		return u, errors.New("user missing id")
	}
	return u, nil
}
