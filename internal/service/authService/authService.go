package authService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sebastiangueler-commits/cARTE/config"
	"github.com/sebastiangueler-commits/cARTE/data/repository"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/service"
	"github.com/sebastiangueler-commits/cARTE/utils"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	service.ActivityRepository
	InsertUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, userID int64) (model.User, error)
	UpdateUserRole(ctx context.Context, userID int64, role model.Role) (model.User, error)
}

type Claims struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthService struct {
	repo       Repository
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

func New(repo Repository, cfg *config.Config) *AuthService {
	return &AuthService{
		repo:       repo,
		secret:     []byte(cfg.Auth.JWTSecret),
		tokenTTL:   cfg.Auth.TokenTTL,
		bcryptCost: cfg.Auth.BcryptCost,
		now:        time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (token string, user model.User, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AuthService.Register"
	email := normalizeEmail(in.Email)

	slog.Debug("Register start", slog.String("rqID", rqID), slog.String("op", op), slog.String("email", email))
	defer func() {
		slog.Debug("Register finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("email", email))
	}()

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		slog.Error("can't hash password", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", model.User{}, err
	}

	user, err = s.repo.InsertUser(ctx, model.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         model.RoleUser,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return "", model.User{}, service.ErrAlreadyExists
		}
		return "", model.User{}, err
	}

	token, err = s.IssueToken(user)
	if err != nil {
		return "", model.User{}, err
	}

	service.LogActivity(ctx, s.repo, user.ID, model.ActionRegister, map[string]any{"email": user.Email})

	return token, user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (token string, user model.User, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AuthService.Login"
	email = normalizeEmail(email)

	slog.Debug("Login start", slog.String("rqID", rqID), slog.String("op", op), slog.String("email", email))

	user, err = s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", model.User{}, service.ErrInvalidCredentials
		}
		return "", model.User{}, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Info("wrong password", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", user.ID))
		return "", model.User{}, service.ErrInvalidCredentials
	}

	token, err = s.IssueToken(user)
	if err != nil {
		return "", model.User{}, err
	}

	service.LogActivity(ctx, s.repo, user.ID, model.ActionLogin, nil)

	return token, user, nil
}

func (s *AuthService) IssueToken(user model.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken validates signature and expiry and returns the caller the token was issued to.
func (s *AuthService) ParseToken(tokenString string) (model.Requester, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return model.Requester{}, service.ErrUnauthorized
	}

	role := model.Role(claims.Role)
	if claims.UserID <= 0 || !role.Valid() {
		return model.Requester{}, service.ErrUnauthorized
	}

	return model.Requester{UserID: claims.UserID, Role: role}, nil
}

func (s *AuthService) Me(ctx context.Context, userID int64) (model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, service.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account, or promotes the existing user with that email.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AuthService.EnsureAdmin"
	email = normalizeEmail(email)

	if email == "" || password == "" {
		return nil
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.IsAdmin() {
			return nil
		}
		_, err = s.repo.UpdateUserRole(ctx, user.ID, model.RoleAdmin)
		if err != nil {
			return err
		}
		slog.Info("user promoted to admin", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", user.ID))
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return err
	}

	user, err = s.repo.InsertUser(ctx, model.User{Email: email, PasswordHash: string(hash), FirstName: "Admin", Role: model.RoleAdmin})
	if err != nil && !errors.Is(err, repository.ErrAlreadyExists) {
		return err
	}

	slog.Info("admin account created", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", user.ID))

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
