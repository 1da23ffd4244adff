package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lifehud/internal/auth"
)

const testSecret = "a-long-enough-secret-for-test-sessions"
const testUsername = "marcel.pimenta"
const testRole = "user"

func TestInit(t *testing.T) {
	t.Run("MissingSecret", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Init should panic on an empty secret")
			}
		}()
		auth.Init("")
	})

	t.Run("ValidSecret", func(t *testing.T) {
		auth.Init(testSecret)
	})
}

func TestGenerateAndValidateJWT(t *testing.T) {
	auth.Init(testSecret)

	t.Run("ValidToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testUsername, testRole, 5*time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT: %v", err)
		}

		claims, err := auth.ValidateJWT(tokenStr)
		if err != nil {
			t.Fatalf("ValidateJWT: %v", err)
		}
		if claims.Username != testUsername {
			t.Errorf("Username = %q, want %q", claims.Username, testUsername)
		}
		if claims.Role != testRole {
			t.Errorf("Role = %q, want %q", claims.Role, testRole)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testUsername, testRole, -time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT: %v", err)
		}

		_, err = auth.ValidateJWT(tokenStr)
		if err == nil {
			t.Fatal("ValidateJWT should fail for an expired token")
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			t.Errorf("error = %v, want %v", err, jwt.ErrTokenExpired)
		}
	})

	t.Run("TamperedToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testUsername, testRole, 5*time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT: %v", err)
		}
		if _, err := auth.ValidateJWT(tokenStr + "x"); err == nil {
			t.Fatal("ValidateJWT should fail for a tampered token")
		}
	})
}
