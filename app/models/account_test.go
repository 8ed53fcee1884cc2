package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountPassword(t *testing.T) {
	account := &Account{}
	require.NoError(t, account.SetPassword("Sup3rSecret"))
	assert.NotEqual(t, "Sup3rSecret", account.Password)

	assert.True(t, account.CheckPassword("Sup3rSecret"))
	assert.False(t, account.CheckPassword("wrong"))
}

func TestNormalizeSecretAnswer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Fluffy", want: "fluffy"},
		{in: "  Fluffy  ", want: "fluffy"},
		{in: "My  First   Pet", want: "my first pet"},
		{in: "", want: ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeSecretAnswer(tc.in), "in=%q", tc.in)
	}
}

func TestCheckSecretAnswer(t *testing.T) {
	questionID := uint(1)
	account := &Account{SecretQuestionID: &questionID, SecretAnswer: "fluffy"}

	assert.True(t, account.CheckSecretAnswer("Fluffy"))
	assert.True(t, account.CheckSecretAnswer("  fluffy "))
	assert.False(t, account.CheckSecretAnswer("rex"))

	// No question set up means no answer can match.
	bare := &Account{}
	assert.False(t, bare.CheckSecretAnswer("fluffy"))
}

func TestAccountFlags(t *testing.T) {
	assert.False(t, (&Account{}).IsBanned())
	assert.True(t, (&Account{Banned: 1}).IsBanned())

	assert.False(t, (&Account{}).IsAdmin())
	assert.True(t, (&Account{WebAdmin: 1}).IsAdmin())
}

func TestAccountValidate(t *testing.T) {
	account := &Account{
		Name:     "hero1",
		Password: "hash",
		Email:    "hero1@example.com",
	}
	assert.NoError(t, account.Validate())

	account.Name = "he!"
	assert.Error(t, account.Validate())
}
