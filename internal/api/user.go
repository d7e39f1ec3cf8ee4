package api

import (
	"context"
	"fmt"
	"io"

	"github.com/phegonbank/webclient-go/internal/gateway"
)

// UserClient talks to the /users endpoints.
type UserClient struct {
	gw *gateway.Client
}

// NewUserClient creates a UserClient.
func NewUserClient(gw *gateway.Client) *UserClient {
	return &UserClient{gw: gw}
}

// Me fetches the signed-in user's profile, accounts included.
func (c *UserClient) Me(ctx context.Context) (User, error) {
	var u User
	if err := c.gw.Get(ctx, "/users/me", &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Get fetches a user by id. Admin only on the backend.
func (c *UserClient) Get(ctx context.Context, id int) (User, error) {
	var u User
	if err := c.gw.Get(ctx, fmt.Sprintf("/users/%d", id), &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// List fetches all users. Admin only on the backend.
func (c *UserClient) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.gw.GetList(ctx, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies a partial profile update.
func (c *UserClient) Update(ctx context.Context, id int, req UserUpdateRequest) (User, error) {
	var u User
	if err := c.gw.Put(ctx, fmt.Sprintf("/users/%d", id), req, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// UpdatePassword changes the signed-in user's password.
func (c *UserClient) UpdatePassword(ctx context.Context, req UpdatePasswordRequest) error {
	return c.gw.Put(ctx, "/users/update-password", req, nil)
}

// UploadProfilePicture replaces the signed-in user's profile picture.
func (c *UserClient) UploadProfilePicture(ctx context.Context, filename string, r io.Reader) (User, error) {
	var u User
	err := c.gw.PutMultipart(ctx, "/users/profile-picture", "file", filename, r, &u)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// Delete removes a user. Admin only on the backend.
func (c *UserClient) Delete(ctx context.Context, id int) error {
	return c.gw.Delete(ctx, fmt.Sprintf("/users/%d", id))
}
