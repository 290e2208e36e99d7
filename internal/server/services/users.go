package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/cryptox"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/server/auth"
	"github.com/dmitrijs2005/lostfound/internal/server/config"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
)

// TokenPair is an access/refresh token pair issued at login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	FullName    string
	UserName    string
	Email       string
	Password    string
	PhoneNumber string
}

// UserService implements account registration, session issuance and profile
// management.
type UserService struct {
	db                   *sql.DB
	repomanager          repomanager.RepositoryManager
	sessionSecret        []byte
	accessTokenValidity  time.Duration
	refreshTokenValidity time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                   db,
		repomanager:          m,
		sessionSecret:        []byte(cfg.SessionSecret),
		accessTokenValidity:  cfg.AccessTokenValidity,
		refreshTokenValidity: cfg.RefreshTokenValidity,
	}
}

// Register creates an account. The password is stored as an Argon2id hash.
func (s *UserService) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {

	if input.Email == "" || input.UserName == "" || input.Password == "" {
		return nil, common.ErrorInvalidPayload
	}

	hash, err := cryptox.HashPassword(input.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		FullName:     input.FullName,
		UserName:     input.UserName,
		Email:        input.Email,
		PasswordHash: hash,
		PhoneNumber:  input.PhoneNumber,
		UserType:     models.UserTypeLocal,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// Login verifies credentials against the stored hash and issues a token pair.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, *models.User, error) {

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	ok, err := cryptox.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// RefreshToken rotates a refresh token: the presented token is deleted and a
// fresh pair issued, in one transaction.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {

	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return err
		}
		pair, err = s.generateTokenPairWith(ctx, tx, token.UserID)
		return err
	})

	if err != nil {
		return nil, common.ErrorInternal
	}
	return pair, nil
}

func (s *UserService) generateTokenPair(ctx context.Context, userID int64) (*TokenPair, error) {
	return s.generateTokenPairWith(ctx, s.db, userID)
}

func (s *UserService) generateTokenPairWith(ctx context.Context, db dbx.DBTX, userID int64) (*TokenPair, error) {
	accessToken, err := auth.GenerateSessionToken(userID, s.sessionSecret, s.accessTokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.RefreshTokens(db).Create(ctx, userID, refreshToken, s.refreshTokenValidity); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Get returns an account by id.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// GetByEmail returns an account by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// UpdateProfile updates the mutable profile fields of an account.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User) error {
	err := s.repomanager.Users(s.db).UpdateProfile(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}
	return nil
}

// List returns a page of accounts. Admin only.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	result, err := s.repomanager.Users(s.db).List(ctx, limit, offset)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Delete soft-deletes an account and records the action in the user audit
// trail. Admin only.
func (s *UserService) Delete(ctx context.Context, id int64, actor *Actor) error {

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).SoftDelete(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Audit(tx).AppendUser(ctx, &models.UserAuditEntry{
			ActorUserID:  actor.UserID,
			TargetUserID: id,
			Action:       "delete",
			Details:      marshalDetails(map[string]any{"by": actor.Identity}),
		})
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}
	return nil
}
