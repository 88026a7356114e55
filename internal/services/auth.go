package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/nexuslearn-backend/internal/data/repos"
	types "github.com/yungbote/nexuslearn-backend/internal/domain"
	"github.com/yungbote/nexuslearn-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/nexuslearn-backend/internal/pkg/errors"
	"github.com/yungbote/nexuslearn-backend/internal/platform/apierr"
	"github.com/yungbote/nexuslearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
)

const DefaultAccessTTL = 7 * 24 * time.Hour

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]{3,32}$`)

type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*types.User, error)
	Login(ctx context.Context, identifier, password string) (string, *types.User, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	CurrentUser(ctx context.Context) (*types.User, error)
	EnsureAdmin(ctx context.Context, in SignupInput) (*types.User, bool, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
	now          func() time.Time
}

type accessClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		now:          time.Now,
	}
}

func (as *authService) GetAccessTTL() time.Duration { return as.accessTTL }

func validateSignup(in SignupInput) (SignupInput, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	v := &apierr.ValidationError{}
	if !usernamePattern.MatchString(in.Username) {
		v.Add("username", "must be 3-32 characters of a-z, 0-9, '.', '_' or '-'")
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		v.Add("email", "must be a valid email address")
	}
	if len(in.Password) < 6 {
		v.Add("password", "must be at least 6 characters")
	}
	return in, v.Err()
}

func (as *authService) Signup(ctx context.Context, in SignupInput) (*types.User, error) {
	in, err := validateSignup(in)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var created *types.User
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		nameTaken, emailTaken, err := as.userRepo.Exists(dbc, in.Username, in.Email)
		if err != nil {
			return fmt.Errorf("check existing user: %w", err)
		}
		if nameTaken || emailTaken {
			return fmt.Errorf("%w: username or email already registered", pkgerrors.ErrConflict)
		}
		users, err := as.userRepo.Create(dbc, []*types.User{{
			Username: in.Username,
			Email:    in.Email,
			Password: string(hash),
			Role:     types.RoleUser,
			IsActive: true,
		}})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		created = users[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("user registered", "user_id", created.ID)
	return created, nil
}

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", pkgerrors.ErrUnauthorized)

// Login accepts a username or an email address as identifier.
func (as *authService) Login(ctx context.Context, identifier, password string) (string, *types.User, error) {
	if strings.TrimSpace(identifier) == "" || password == "" {
		v := &apierr.ValidationError{}
		if strings.TrimSpace(identifier) == "" {
			v.Add("identifier", "is required")
		}
		if password == "" {
			v.Add("password", "is required")
		}
		return "", nil, v.Err()
	}
	dbc := dbctx.Context{Ctx: ctx}
	u, err := as.userRepo.GetByIdentifier(dbc, identifier)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return "", nil, errInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, errInvalidCredentials
	}
	if !u.IsActive {
		return "", nil, fmt.Errorf("%w: account disabled", pkgerrors.ErrForbidden)
	}
	token, err := as.generateAccessToken(u)
	if err != nil {
		return "", nil, err
	}
	if err := as.userRepo.TouchLogin(dbc, u.ID, as.now().UTC()); err != nil {
		as.log.Warn("failed to record login time", "user_id", u.ID, "error", err)
	}
	return token, u, nil
}

func (as *authService) generateAccessToken(u *types.User) (string, error) {
	now := as.now()
	claims := accessClaims{
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// SetContextFromToken verifies tokenString and attaches the caller. The role
// comes from the stored user so demotions apply to outstanding tokens.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil || !token.Valid {
		return ctx, fmt.Errorf("%w: invalid token", pkgerrors.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: invalid token subject", pkgerrors.ErrUnauthorized)
	}
	users, err := as.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{userID})
	if err != nil {
		return ctx, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 || !users[0].IsActive {
		return ctx, fmt.Errorf("%w: unknown or disabled user", pkgerrors.ErrUnauthorized)
	}
	u := users[0]
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      u.ID,
		Username:    u.Username,
		Role:        u.Role,
	}), nil
}

func (as *authService) CurrentUser(ctx context.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	users, err := as.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	return users[0], nil
}

// EnsureAdmin creates the admin account or promotes an existing user with that
// username. created reports which happened. An existing password is kept.
func (as *authService) EnsureAdmin(ctx context.Context, in SignupInput) (*types.User, bool, error) {
	in, err := validateSignup(in)
	if err != nil {
		return nil, false, err
	}
	var (
		out     *types.User
		created bool
	)
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := as.userRepo.GetByIdentifier(dbc, in.Username)
		switch {
		case err == nil:
			if err := as.userRepo.UpdateRole(dbc, existing.ID, types.RoleAdmin); err != nil {
				return fmt.Errorf("promote admin: %w", err)
			}
			existing.Role, existing.IsActive = types.RoleAdmin, true
			out = existing
			return nil
		case !errors.Is(err, pkgerrors.ErrNotFound):
			return fmt.Errorf("load admin: %w", err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		users, err := as.userRepo.Create(dbc, []*types.User{{
			Username: in.Username,
			Email:    in.Email,
			Password: string(hash),
			Role:     types.RoleAdmin,
			IsActive: true,
		}})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		out, created = users[0], true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	as.log.Info("admin ensured", "username", out.Username, "created", created)
	return out, created, nil
}
