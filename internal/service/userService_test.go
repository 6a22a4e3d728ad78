package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := hashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, checkPassword(hash, "hunter22"))
	assert.False(t, checkPassword(hash, "hunter23"))

	again, err := hashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "bcrypt salts every hash")
}

func TestLoginVerifiesPassword(t *testing.T) {
	ctx := context.Background()

	hash, err := hashPassword("correct horse")
	require.NoError(t, err)
	repo := &fakeUserRepo{users: map[int64]*entity.User{
		1: {ID: 1, Email: "sam@example.com", Name: "Sam", PasswordHash: hash},
	}}
	svc := NewUserService(repo, "test-secret", time.Hour)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		token, user, err := svc.Login(ctx, &LoginRequest{Email: " Sam@Example.com ", Password: "correct horse"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, &LoginRequest{Email: "sam@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		_, _, err := svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "correct horse"})
		assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := &userService{jwtSecret: []byte("test-secret"), jwtExpiration: time.Hour}

	token, err := svc.issueToken(&entity.User{ID: 42})
	require.NoError(t, err)

	userID, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestParseTokenRejectsForgedAndExpired(t *testing.T) {
	svc := &userService{jwtSecret: []byte("test-secret"), jwtExpiration: time.Hour}

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ParseToken("not.a.token")
		assert.ErrorIs(t, err, entity.ErrUnauthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := &userService{jwtSecret: []byte("other-secret"), jwtExpiration: time.Hour}
		token, err := other.issueToken(&entity.User{ID: 7})
		require.NoError(t, err)

		_, err = svc.ParseToken(token)
		assert.ErrorIs(t, err, entity.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		stale := &userService{jwtSecret: []byte("test-secret"), jwtExpiration: -time.Minute}
		token, err := stale.issueToken(&entity.User{ID: 7})
		require.NoError(t, err)

		_, err = svc.ParseToken(token)
		assert.ErrorIs(t, err, entity.ErrUnauthorized)
	})
}
