package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserContext(t *testing.T) {
	t.Run("SetUserContext and GetUserIDFromContext", func(t *testing.T) {
		ctx := context.Background()
		userID := uint(100)
		email := "user@example.com"
		role := "user"

		// Set the user context
		ctx = SetUserContext(ctx, userID, email, role)
		assert.NotNil(t, ctx)

		// Retrieve the user ID
		id, ok := GetUserIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, userID, id)

		// Retrieve other fields
		assert.Equal(t, email, GetUserEmailFromContext(ctx))
		assert.Equal(t, role, GetUserRoleFromContext(ctx))
		assert.False(t, IsAdmin(ctx))
	})

	t.Run("GetUserIDFromContext with empty context", func(t *testing.T) {
		ctx := context.Background()
		_, ok := GetUserIDFromContext(ctx)
		assert.False(t, ok)
	})

	t.Run("IsAdmin", func(t *testing.T) {
		ctx := SetUserContext(context.Background(), 1, "admin@example.com", RoleAdmin)
		assert.True(t, IsAdmin(ctx))
	})
}

func TestStrPtr(t *testing.T) {
	t.Run("Returns pointer to string", func(t *testing.T) {
		input := "test string"
		ptr := StrPtr(input)

		assert.NotNil(t, ptr)
		assert.Equal(t, input, *ptr)
	})
}

func TestPtrString(t *testing.T) {
	str := "test"
	assert.Equal(t, "test", PtrString(&str))
	assert.Equal(t, "", PtrString(nil))
}
