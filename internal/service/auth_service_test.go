package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/faculty-workload-api/internal/models"
	appErrors "github.com/noah-isme/faculty-workload-api/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail    *models.User
	findByEmailErr error
	findByIDErr    error
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	if m.userByEmail == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	if m.userByEmail == nil || m.userByEmail.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func newAuthUser(t *testing.T, active bool) *models.User {
	t.Helper()
	password, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	facultyID := "f-1"
	return &models.User{
		ID:           "123",
		Email:        "asha@college.edu",
		PasswordHash: string(password),
		FullName:     "Asha",
		Active:       active,
		Role:         models.RoleFaculty,
		FacultyID:    &facultyID,
	}
}

func newAuthServiceForTest(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "faculty-workload-api",
	})
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: newAuthUser(t, true)}
	svc := newAuthServiceForTest(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "asha@college.edu", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "f-1", res.User.FacultyID)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "123", claims.UserID)
	assert.Equal(t, models.RoleFaculty, claims.Role)
	assert.Equal(t, "f-1", claims.FacultyID)
	assert.Equal(t, "faculty-workload-api", claims.Issuer)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	svc := newAuthServiceForTest(&mockAuthRepo{userByEmail: newAuthUser(t, true)})
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "asha@college.edu", Password: "wrong"})
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, errCode(err))

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "password"})
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(err))

	svc = newAuthServiceForTest(&mockAuthRepo{})
	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "nobody@college.edu", Password: "password"})
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, errCode(err))

	svc = newAuthServiceForTest(&mockAuthRepo{userByEmail: newAuthUser(t, false)})
	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "asha@college.edu", Password: "password"})
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, errCode(err))
}

func TestAuthServiceValidateTokenRejectsTampering(t *testing.T) {
	svc := newAuthServiceForTest(&mockAuthRepo{userByEmail: newAuthUser(t, true)})

	_, err := svc.ValidateToken("not-a-token")
	assert.Equal(t, appErrors.ErrUnauthorized.Code, errCode(err))

	claims := &models.JWTClaims{UserID: "123", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(forged)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, errCode(err))

	expired := &models.JWTClaims{UserID: "123", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}
	stale, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(stale)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, errCode(err))
}

func TestAuthServiceMe(t *testing.T) {
	svc := newAuthServiceForTest(&mockAuthRepo{userByEmail: newAuthUser(t, true)})

	info, err := svc.Me(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "Asha", info.FullName)

	_, err = svc.Me(context.Background(), "999")
	assert.Equal(t, appErrors.ErrNotFound.Code, errCode(err))
}
