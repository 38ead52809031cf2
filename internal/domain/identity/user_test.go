package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T) *User {
	t.Helper()
	user, err := NewUser(uuid.New(), "tech@fieldops.example", "Sam Rivera", "s3cret-pass", RoleStaff)
	require.NoError(t, err)
	return user
}

func TestNewUser(t *testing.T) {
	t.Run("creates active staff user", func(t *testing.T) {
		user := newTestUser(t)

		assert.True(t, user.Active)
		assert.Equal(t, RoleStaff, user.Role)
		assert.False(t, user.IsAdmin())
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser(uuid.New(), "not-an-email", "Sam", "s3cret-pass", RoleStaff)
		assert.Error(t, err)

		_, err = NewUser(uuid.New(), "", "Sam", "s3cret-pass", RoleStaff)
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewUser(uuid.New(), "tech@fieldops.example", "", "s3cret-pass", RoleStaff)
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser(uuid.New(), "tech@fieldops.example", "Sam", "s3cret-pass", Role("owner"))
		assert.Error(t, err)
	})
}

func TestUserPassword(t *testing.T) {
	t.Run("check accepts correct password only", func(t *testing.T) {
		user := newTestUser(t)

		assert.True(t, user.CheckPassword("s3cret-pass"))
		assert.False(t, user.CheckPassword("wrong-pass"))
	})

	t.Run("rejects short password", func(t *testing.T) {
		user := newTestUser(t)

		err := user.SetPassword("short")

		assert.Error(t, err)
		assert.True(t, user.CheckPassword("s3cret-pass"))
	})

	t.Run("set replaces the hash", func(t *testing.T) {
		user := newTestUser(t)

		require.NoError(t, user.SetPassword("new-password-1"))

		assert.True(t, user.CheckPassword("new-password-1"))
		assert.False(t, user.CheckPassword("s3cret-pass"))
	})
}

func TestUserRoleAndStatus(t *testing.T) {
	user := newTestUser(t)

	t.Run("change role to admin", func(t *testing.T) {
		require.NoError(t, user.ChangeRole(RoleAdmin))
		assert.True(t, user.IsAdmin())

		assert.Error(t, user.ChangeRole(Role("superuser")))
	})

	t.Run("deactivate and reactivate", func(t *testing.T) {
		user.Deactivate()
		assert.False(t, user.Active)

		user.Activate()
		assert.True(t, user.Active)
	})

	t.Run("record login", func(t *testing.T) {
		now := time.Now()

		user.RecordLogin(now)

		require.NotNil(t, user.LastLoginAt)
		assert.Equal(t, now, *user.LastLoginAt)
	})
}

func TestUserUpdate(t *testing.T) {
	user := newTestUser(t)

	assert.Error(t, user.Update(""))
	require.NoError(t, user.Update("Sam R. Rivera"))
	assert.Equal(t, "Sam R. Rivera", user.Name)
}
