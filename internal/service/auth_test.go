package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

const testSecret = "test-secret"

func registerRequest(username string) *types.RegisterRequest {
	return &types.RegisterRequest{
		Email:     username + "@Example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "correct-horse",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	auth := service.NewAuthService(testhelpers.NewSQLiteDB(t), testSecret, time.Hour, nil)

	user, err := auth.Register(ctx, registerRequest("dave"))
	require.NoError(t, err)
	assert.Equal(t, "dave@example.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	token, logged, err := auth.Login(ctx, "DAVE@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	claims, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "dave", claims.Username)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)

	_, _, err = auth.Login(ctx, "dave@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.ErrorIs(t, err, service.ErrValidation)

	_, _, err = auth.Login(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRegisterDuplicates(t *testing.T) {
	ctx := context.Background()
	auth := service.NewAuthService(testhelpers.NewSQLiteDB(t), testSecret, time.Hour, nil)
	_, err := auth.Register(ctx, registerRequest("dave"))
	require.NoError(t, err)

	var verr *service.ValidationError

	_, err = auth.Register(ctx, registerRequest("dave"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, service.RuleEmailTaken, verr.Rule)

	req := registerRequest("dave")
	req.Email = "other@example.com"
	_, err = auth.Register(ctx, req)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, service.RuleUsernameTaken, verr.Rule)
}

func TestValidateTokenRejects(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	user := testhelpers.CreateUser(t, db, "erin")

	auth := service.NewAuthService(db, testSecret, time.Hour, nil)
	other := service.NewAuthService(db, "another-secret", time.Hour, nil)

	foreign, err := other.GenerateToken(user)
	require.NoError(t, err)
	_, err = auth.ValidateToken(ctx, foreign)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		UserID:           user.ID,
	}
	stale, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = auth.ValidateToken(ctx, stale)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	anonymous := &types.TokenClaims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}, UserID: uuid.Nil}
	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, anonymous).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = auth.ValidateToken(ctx, noUser)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = auth.ValidateToken(ctx, "garbage")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestLogoutWithoutRevocationStore(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	user := testhelpers.CreateUser(t, db, "erin")
	auth := service.NewAuthService(db, testSecret, time.Hour, nil)

	token, err := auth.GenerateToken(user)
	require.NoError(t, err)
	claims, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, claims))
	_, err = auth.ValidateToken(ctx, token)
	assert.NoError(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	rdb := testhelpers.NewRedisClient(t)
	user := testhelpers.CreateUser(t, db, "erin")
	auth := service.NewAuthService(db, testSecret, time.Hour, rdb)

	token, err := auth.GenerateToken(user)
	require.NoError(t, err)
	claims, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, claims))
	_, err = auth.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	ttl, err := rdb.TTL(ctx, "foodgram:revoked:"+claims.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestSetPassword(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	user := testhelpers.CreateUser(t, db, "frank")
	auth := service.NewAuthService(db, testSecret, time.Hour, nil)

	err := auth.SetPassword(ctx, callerOf(user), "wrong", "new-password")
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, service.RuleInvalidPassword, verr.Rule)

	require.NoError(t, auth.SetPassword(ctx, callerOf(user), testhelpers.Password, "new-password"))
	_, _, err = auth.Login(ctx, user.Email, "new-password")
	assert.NoError(t, err)
	_, _, err = auth.Login(ctx, user.Email, testhelpers.Password)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	assert.ErrorIs(t, auth.SetPassword(ctx, types.Anonymous(), "a", "b"), service.ErrAuthenticationRequired)
}
