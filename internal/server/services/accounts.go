// Package services contains server-side business logic. This file implements
// AccountService: registration, login, stateless token refresh, bearer
// authentication and the caller's own profile.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/dbx"
	"github.com/dmitrijs2005/campusmarket/internal/server/auth"
	"github.com/dmitrijs2005/campusmarket/internal/server/config"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
	"github.com/dmitrijs2005/campusmarket/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campusmarket/internal/server/seed"
	"github.com/dmitrijs2005/campusmarket/internal/timex"
	"github.com/google/uuid"
)

// TokenPair is the envelope returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	CampusSlug  string
	ClassYear   *int
}

// ProfilePatch carries the profile fields a user may change. Nil fields are
// left as they are.
type ProfilePatch struct {
	DisplayName *string
	CampusSlug  *string
	ClassYear   *int
	Bio         *string
}

// AccountView is an account as shown to its owner.
type AccountView struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	CampusSlug  string  `json:"campus_slug"`
	ClassYear   *int    `json:"class_year"`
	Bio         string  `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
}

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       auth.Codec
	config      *config.Config
	now         timex.Clock

	// seeded holds the built-in demo accounts with hashed passwords.
	seeded []models.Account
}

// NewAccountService hashes the demo account passwords once, up front.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, codec auth.Codec, cfg *config.Config) (*AccountService, error) {
	s := &AccountService{db: db, repomanager: m, codec: codec, config: cfg, now: timex.UTCNow}
	for _, d := range seed.DemoAccounts() {
		hash, err := auth.HashPassword(d.Password, cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hashing demo account %s: %w", d.Account.Email, err)
		}
		a := d.Account
		a.PasswordHash = hash
		s.seeded = append(s.seeded, a)
	}
	return s, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) allowedEmail(email string) bool {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return false
	}
	for _, suffix := range s.config.AllowedEmailSuffixes {
		if strings.HasSuffix(email, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}

// Register creates an account and returns its id.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (string, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" || strings.TrimSpace(in.DisplayName) == "" || strings.TrimSpace(in.CampusSlug) == "" {
		return "", common.ErrMissingFields
	}
	if !s.allowedEmail(email) {
		return "", common.ErrInvalidEmailDomain
	}
	hash, err := auth.HashPassword(in.Password, s.config.BcryptCost)
	if err != nil {
		if errors.Is(err, common.ErrPasswordTooLong) {
			return "", err
		}
		return "", fmt.Errorf("%w: hashing password: %v", common.ErrorInternal, err)
	}

	now := s.now()
	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		CampusSlug:   strings.TrimSpace(in.CampusSlug),
		ClassYear:    in.ClassYear,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repomanager.Accounts(dbx.Handle(s.db)).Create(ctx, account); err != nil {
		return "", err
	}
	return account.ID, nil
}

// lookup finds an account in the registry and then among the demo accounts.
// The bool reports whether the account is a demo one.
func (s *AccountService) lookup(ctx context.Context, email string) (*models.Account, bool, error) {
	a, err := s.repomanager.Accounts(dbx.Handle(s.db)).GetByEmail(ctx, email)
	if err == nil {
		return a, false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, false, err
	}
	for i := range s.seeded {
		if s.seeded[i].Email == email {
			a := s.seeded[i]
			return &a, true, nil
		}
	}
	return nil, false, common.ErrAccountNotFound
}

// Login checks the password and issues a token pair. An unknown email and
// a wrong password give the same error.
func (s *AccountService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrMissingFields
	}
	a, _, err := s.lookup(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(a.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}
	return s.issue(models.Identity{UserID: a.ID, Email: a.Email})
}

// Refresh reissues a pair for the identity in a refresh token. The registry
// is not consulted.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	id, err := s.codec.Decode(refreshToken, auth.RefreshToken)
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	return s.issue(id)
}

// Authenticate resolves an Authorization header value to an identity.
func (s *AccountService) Authenticate(header string) (models.Identity, error) {
	token, err := auth.ParseBearer(header)
	if err != nil {
		return models.Identity{}, err
	}
	id, err := s.codec.Decode(token, auth.AccessToken)
	if err != nil {
		return models.Identity{}, common.ErrNotAuthenticated
	}
	return id, nil
}

func (s *AccountService) issue(id models.Identity) (*TokenPair, error) {
	access, err := s.codec.Encode(id, auth.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding access token: %v", common.ErrorInternal, err)
	}
	refresh, err := s.codec.Encode(id, auth.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding refresh token: %v", common.ErrorInternal, err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    common.TokenTypeBearer,
		ExpiresIn:    int64(s.config.AccessTokenValidityDuration.Seconds()),
	}, nil
}

func (s *AccountService) view(ctx context.Context, a *models.Account) (*AccountView, error) {
	v := &AccountView{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		CampusSlug:  a.CampusSlug,
		ClassYear:   a.ClassYear,
		Bio:         a.Bio,
	}
	avatar, err := s.repomanager.Avatars(dbx.Handle(s.db)).Get(ctx, a.ID)
	switch {
	case err == nil:
		v.AvatarURL = &avatar.URL
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}
	return v, nil
}

// Me returns the caller's account. A valid token for a deleted account
// yields ErrAccountNotFound.
func (s *AccountService) Me(ctx context.Context, id models.Identity) (*AccountView, error) {
	a, _, err := s.lookup(ctx, normalizeEmail(id.Email))
	if err != nil {
		return nil, err
	}
	return s.view(ctx, a)
}

// UpdateMe applies patch to the caller's account. Demo accounts are not
// persisted; the patched view is returned as if they were.
func (s *AccountService) UpdateMe(ctx context.Context, id models.Identity, patch ProfilePatch) (*AccountView, error) {
	a, demo, err := s.lookup(ctx, normalizeEmail(id.Email))
	if err != nil {
		return nil, err
	}
	if patch.DisplayName != nil {
		name := strings.TrimSpace(*patch.DisplayName)
		if name == "" {
			return nil, common.ErrMissingFields
		}
		a.DisplayName = name
	}
	if patch.CampusSlug != nil {
		a.CampusSlug = *patch.CampusSlug
	}
	if patch.ClassYear != nil {
		year := *patch.ClassYear
		a.ClassYear = &year
	}
	if patch.Bio != nil {
		a.Bio = *patch.Bio
	}
	a.UpdatedAt = s.now()

	if !demo {
		if err := s.repomanager.Accounts(dbx.Handle(s.db)).Update(ctx, a); err != nil {
			return nil, err
		}
	}
	return s.view(ctx, a)
}

// DeleteAccount removes the account and its avatar. Deleting an unknown
// email succeeds.
func (s *AccountService) DeleteAccount(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		userID, err := s.repomanager.Accounts(tx).Delete(ctx, email)
		if err != nil {
			return fmt.Errorf("error deleting account: %w", err)
		}
		if userID == "" {
			return nil
		}
		if err := s.repomanager.Avatars(tx).Delete(ctx, userID); err != nil {
			return fmt.Errorf("error deleting avatar: %w", err)
		}
		return nil
	})
}
