package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserTableName(t *testing.T) {
	user := User{}
	assert.Equal(t, "users", user.TableName(), "Table name should be 'users'")
}

func TestUserStartsWithoutCompany(t *testing.T) {
	// A freshly signed-up user has no company until onboarding completes
	user := User{
		Auth0ID: "auth0|123",
		Email:   "test@example.com",
	}

	assert.Nil(t, user.CompanyID)
	assert.Equal(t, "test@example.com", user.Email, "Email should be set correctly")
}
