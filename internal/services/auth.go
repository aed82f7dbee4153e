package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/config"
	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/repos"
	"github.com/bluesherpa/analytics-engine/internal/requestdata"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*types.User, string, error)
	ParseToken(tokenString string) (*requestdata.RequestData, error)
	Profile(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, name *string, profileImage *string) (*types.User, error)
}

type authService struct {
	db       *gorm.DB
	log      *logger.Logger
	cfg      *config.Config
	userRepo repos.UserRepo
	now      func() time.Time
	sleep    func(time.Duration)
}

func NewAuthService(db *gorm.DB, log *logger.Logger, cfg *config.Config, userRepo repos.UserRepo) AuthService {
	return &authService{
		db:       db,
		log:      log.With("service", "AuthService"),
		cfg:      cfg,
		userRepo: userRepo,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Login accepts any password for a well-formed email: this is a demo surface
// and users are provisioned on first sight. The supplied password is still
// hashed and stored so the account carries a credential.
func (as *authService) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	// Simulated authentication latency.
	as.sleep(as.cfg.Auth.LoginDelay)

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, "", fmt.Errorf("hash password: %w", err)
		}
		user = &types.User{
			ID:           types.NewID("user"),
			Email:        email,
			Name:         displayNameFromEmail(email),
			Role:         "Data Analyst",
			PasswordHash: string(hash),
		}
		if _, err := as.userRepo.Create(ctx, nil, user); err != nil {
			return nil, "", fmt.Errorf("create user: %w", err)
		}
		as.log.Info("Provisioned new user", "user_id", user.ID, "email", user.Email)
	} else {
		now := as.now().UTC()
		user.LastLogin = &now
		if err := as.userRepo.Update(ctx, nil, user); err != nil {
			return nil, "", fmt.Errorf("update last login: %w", err)
		}
	}

	token, err := as.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	as.log.Info("Login successful", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

func (as *authService) issueToken(user *types.User) (string, error) {
	now := as.now()
	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.cfg.Auth.SessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.cfg.Auth.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns the caller identity for
// the request context.
func (as *authService) ParseToken(tokenString string) (*requestdata.RequestData, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.cfg.Auth.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: token rejected", ErrInvalidSession)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token carries no subject", ErrInvalidSession)
	}
	return &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      claims.Subject,
		Email:       claims.Email,
	}, nil
}

func (as *authService) Profile(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, ErrNotAuthenticated
	}
	user, err := as.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	return user, nil
}

func (as *authService) UpdateProfile(ctx context.Context, name *string, profileImage *string) (*types.User, error) {
	user, err := as.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if name != nil && strings.TrimSpace(*name) != "" {
		user.Name = strings.TrimSpace(*name)
	}
	if profileImage != nil {
		user.ProfileImage = profileImage
	}
	if err := as.userRepo.Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// displayNameFromEmail turns "sarah.johnson@x.com" into "Sarah Johnson".
func displayNameFromEmail(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	if len(parts) == 0 {
		return local
	}
	return strings.Join(parts, " ")
}
