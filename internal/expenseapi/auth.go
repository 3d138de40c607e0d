package expenseapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// LoginResult is the backend reply to a successful login.
type LoginResult struct {
	JWT    string `json:"jwt"`
	UserID any    `json:"userId"`
}

// Registration is the backend reply to a successful sign-up.
type Registration struct {
	ID       any    `json:"id"`
	Username string `json:"username"`
}

var errMissingCredentials = fmt.Errorf("%w: username and password are required", ErrInvalidInput)

// Login exchanges a username and password for a JWT. No bearer header is sent.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return LoginResult{}, errMissingCredentials
	}
	in := map[string]string{"username": username, "password": password}
	var out LoginResult
	if err := c.doJSON(ctx, http.MethodPost, c.authURL, "/login", in, &out, false); err != nil {
		return LoginResult{}, err
	}
	if out.JWT == "" {
		return LoginResult{}, &Error{Kind: KindAuth, StatusCode: http.StatusOK, Endpoint: "/login", Message: "Login response did not include a token"}
	}
	return out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, email, password string) (Registration, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return Registration{}, errMissingCredentials
	}
	in := map[string]string{"username": username, "email": email, "password": password}
	var out Registration
	if err := c.doJSON(ctx, http.MethodPost, c.authURL, "/register", in, &out, false); err != nil {
		return Registration{}, err
	}
	if out.Username == "" {
		out.Username = username
	}
	return out, nil
}
