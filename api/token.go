package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenWithoutUsername is returned for tokens missing preferred_username.
var ErrTokenWithoutUsername = errors.New("api: token has no preferred_username claim")

// TokenUser is the authenticated user carried by an access token.
type TokenUser struct {
	Username      string
	Administrator bool
	Roles         []string
}

type tokenClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string   `json:"preferred_username"`
	Administrator     bool     `json:"administrator"`
	Roles             []string `json:"roles"`
}

// UserFromToken reads the user claims of a JWT access token. The signature
// is not verified; the token is only forwarded to the API, which does.
// Scoped roles ("enterprise_learner:<uuid>") are reduced to their name.
func UserFromToken(token string) (*TokenUser, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(token), claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.PreferredUsername == "" {
		return nil, ErrTokenWithoutUsername
	}
	ret := &TokenUser{Username: claims.PreferredUsername, Administrator: claims.Administrator}
	for _, role := range claims.Roles {
		name, _, _ := strings.Cut(role, ":")
		if name != "" {
			ret.Roles = append(ret.Roles, name)
		}
	}
	return ret, nil
}
