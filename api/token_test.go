package api

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestUserFromToken(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		expect    *TokenUser
		expectErr error
	}{
		{
			name: "scoped roles",
			token: signToken(t, jwt.MapClaims{
				"preferred_username": "jdoe",
				"administrator":      false,
				"roles":              []string{"enterprise_learner:7a1c", "staff"},
			}),
			expect: &TokenUser{Username: "jdoe", Roles: []string{"enterprise_learner", "staff"}},
		},
		{
			name:   "administrator without roles",
			token:  signToken(t, jwt.MapClaims{"preferred_username": "admin", "administrator": true}),
			expect: &TokenUser{Username: "admin", Administrator: true},
		},
		{
			name:      "missing username",
			token:     signToken(t, jwt.MapClaims{"sub": "42"}),
			expectErr: ErrTokenWithoutUsername,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user, err := UserFromToken(tc.token)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, user)
		})
	}

	_, err := UserFromToken("not-a-token")
	assert.Error(t, err)
}
