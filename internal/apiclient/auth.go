package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/eximroyals/storefront/pkg/errors"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges admin credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("marshal login request: %w", err))
	}

	resp, err := c.send(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/login",
		resource:    "login",
		body:        bytes.NewReader(body),
		contentType: "application/json",
	})
	if err != nil {
		return "", err
	}

	var out loginResponse
	if err := decode(resp, "login", &out); err != nil {
		if errors.Is(err, errEmptyBody) {
			return "", shapeError("login", "no token in response")
		}
		return "", err
	}
	if out.Token == "" {
		return "", shapeError("login", "no token in response")
	}
	return out.Token, nil
}
