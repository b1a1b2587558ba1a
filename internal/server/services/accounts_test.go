package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/server/auth"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
	"github.com/dmitrijs2005/campusmarket/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, env *testEnv, email string) string {
	t.Helper()
	id, err := env.accounts.Register(context.Background(), RegisterInput{
		Email: email, Password: "hunter22", DisplayName: "Ada", CampusSlug: "north",
	})
	require.NoError(t, err)
	return id
}

func TestRegisterLoginDecode_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := register(t, env, "  Ada@Campus.EDU ")
	pair, err := env.accounts.Login(ctx, "ada@campus.edu", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	got, err := env.accounts.Authenticate("Bearer " + pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.Identity{UserID: id, Email: "ada@campus.edu"}, got)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"missing email", RegisterInput{Password: "p", DisplayName: "A", CampusSlug: "north"}, common.ErrMissingFields},
		{"missing password", RegisterInput{Email: "a@x.edu", DisplayName: "A", CampusSlug: "north"}, common.ErrMissingFields},
		{"missing name", RegisterInput{Email: "a@x.edu", Password: "p", CampusSlug: "north"}, common.ErrMissingFields},
		{"missing campus", RegisterInput{Email: "a@x.edu", Password: "p", DisplayName: "A"}, common.ErrMissingFields},
		{"missing fields win over domain", RegisterInput{Email: "a@gmail.com"}, common.ErrMissingFields},
		{"bad domain", RegisterInput{Email: "a@gmail.com", Password: "p", DisplayName: "A", CampusSlug: "north"}, common.ErrInvalidEmailDomain},
		{"no local part", RegisterInput{Email: "campus.edu", Password: "p", DisplayName: "A", CampusSlug: "north"}, common.ErrInvalidEmailDomain},
		{"empty local part", RegisterInput{Email: "@campus.edu", Password: "p", DisplayName: "A", CampusSlug: "north"}, common.ErrInvalidEmailDomain},
		{"two at signs", RegisterInput{Email: "a@b@campus.edu", Password: "p", DisplayName: "A", CampusSlug: "north"}, common.ErrInvalidEmailDomain},
		{"long password", RegisterInput{Email: "a@x.edu", Password: strings.Repeat("p", 73), DisplayName: "A", CampusSlug: "north"}, common.ErrPasswordTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.accounts.Register(context.Background(), tt.in)
			require.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "ada@campus.edu")

	_, err := env.accounts.Register(context.Background(), RegisterInput{
		Email: "ADA@campus.edu", Password: "other", DisplayName: "Other", CampusSlug: "south",
	})
	require.ErrorIs(t, err, common.ErrDuplicateAccount)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	env := newTestEnv(t)
	const n = 32

	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok, conflicts int
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.accounts.Register(context.Background(), RegisterInput{
				Email: "race@campus.edu", Password: "pw", DisplayName: "R", CampusSlug: "north",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, common.ErrDuplicateAccount):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "ada@campus.edu")
	ctx := context.Background()

	_, err := env.accounts.Login(ctx, "ada@campus.edu", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, errUnknown := env.accounts.Login(ctx, "nobody@campus.edu", "hunter22")
	assert.ErrorIs(t, errUnknown, common.ErrInvalidCredentials)
	assert.Equal(t, err.Error(), errUnknown.Error())

	_, err = env.accounts.Login(ctx, "", "x")
	assert.ErrorIs(t, err, common.ErrMissingFields)
}

func TestLogin_DemoAccount(t *testing.T) {
	env := newTestEnv(t)
	pair, err := env.accounts.Login(context.Background(), "demo@campus.edu", "demo-password")
	require.NoError(t, err)

	id, err := env.accounts.Authenticate("bearer " + pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "demo@campus.edu", id.Email)
}

func TestRefresh_IsStateless(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := register(t, env, "ada@campus.edu")

	pair, err := env.accounts.Login(ctx, "ada@campus.edu", "hunter22")
	require.NoError(t, err)
	require.NoError(t, env.accounts.DeleteAccount(ctx, "ada@campus.edu"))

	again, err := env.accounts.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	got, err := env.accounts.Authenticate("Bearer " + again.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, got.UserID)

	_, err = env.accounts.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestAuthenticate_Rejects(t *testing.T) {
	env := newTestEnv(t)
	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer not-a-token", "Bearer cm1.e30"} {
		_, err := env.accounts.Authenticate(h)
		assert.ErrorIs(t, err, common.ErrNotAuthenticated, h)
	}
}

func TestMe_IncludesAvatar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := register(t, env, "ada@campus.edu")
	ident := models.Identity{UserID: id, Email: "ada@campus.edu"}

	v, err := env.accounts.Me(ctx, ident)
	require.NoError(t, err)
	assert.Nil(t, v.AvatarURL)
	assert.Equal(t, "Ada", v.DisplayName)

	require.NoError(t, env.rm.Avatars(nil).Set(ctx, &models.Avatar{UserID: id, URL: "http://x/a.png"}))
	v, err = env.accounts.Me(ctx, ident)
	require.NoError(t, err)
	require.NotNil(t, v.AvatarURL)
	assert.Equal(t, "http://x/a.png", *v.AvatarURL)
}

func TestMe_DeletedAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := register(t, env, "ada@campus.edu")
	require.NoError(t, env.accounts.DeleteAccount(ctx, "ada@campus.edu"))

	_, err := env.accounts.Me(ctx, models.Identity{UserID: id, Email: "ada@campus.edu"})
	assert.ErrorIs(t, err, common.ErrAccountNotFound)
}

func TestUpdateMe(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := register(t, env, "ada@campus.edu")
	ident := models.Identity{UserID: id, Email: "ada@campus.edu"}

	name, bio, year := "Ada L.", "math", 2028
	v, err := env.accounts.UpdateMe(ctx, ident, ProfilePatch{DisplayName: &name, Bio: &bio, ClassYear: &year})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", v.DisplayName)
	assert.Equal(t, "north", v.CampusSlug)

	stored, err := env.rm.Accounts(nil).GetByEmail(ctx, "ada@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, "math", stored.Bio)
	require.NotNil(t, stored.ClassYear)
	assert.Equal(t, 2028, *stored.ClassYear)

	empty := "  "
	_, err = env.accounts.UpdateMe(ctx, ident, ProfilePatch{DisplayName: &empty})
	assert.ErrorIs(t, err, common.ErrMissingFields)
}

func TestUpdateMe_DemoAccountNotPersisted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ident := models.Identity{UserID: "00000000-0000-4000-8000-000000000001", Email: "demo@campus.edu"}

	bio := "changed"
	v, err := env.accounts.UpdateMe(ctx, ident, ProfilePatch{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "changed", v.Bio)

	v, err = env.accounts.Me(ctx, ident)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", v.Bio)
}

func TestDeleteAccount_IdempotentAndClearsAvatar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := register(t, env, "ada@campus.edu")
	require.NoError(t, env.rm.Avatars(nil).Set(ctx, &models.Avatar{UserID: id, URL: "u"}))

	require.NoError(t, env.accounts.DeleteAccount(ctx, "ada@campus.edu"))
	require.NoError(t, env.accounts.DeleteAccount(ctx, "ada@campus.edu"))

	_, err := env.rm.Avatars(nil).Get(ctx, id)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, 0, env.rm.Accounts(nil).(interface{ Len() int }).Len())
}

func TestDeleteAccount_PostgresTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc, err := NewAccountService(db, repomanager.NewPostgresRepositoryManager(), auth.NewPlainCodec(), testConfig())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM accounts WHERE email = $1 RETURNING id`)).
		WithArgs("ada@campus.edu").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u1"))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM avatars WHERE user_id = $1`)).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.DeleteAccount(context.Background(), "Ada@Campus.edu"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccount_PostgresRollback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc, err := NewAccountService(db, repomanager.NewPostgresRepositoryManager(), auth.NewPlainCodec(), testConfig())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM accounts WHERE email = $1 RETURNING id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u1"))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM avatars WHERE user_id = $1`)).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err = svc.DeleteAccount(context.Background(), "ada@campus.edu")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
