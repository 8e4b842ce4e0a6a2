package httpapi

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tokopos/internal/domain"
	"tokopos/internal/logger"
	"tokopos/internal/store"
	"tokopos/internal/xid"
)

const (
	roleAdmin   = "admin"
	roleCashier = "cashier"

	tokenIssuer      = "tokopos"
	userStoreTimeout = 5 * time.Second

	minUsernameLen = 4
	minPasswordLen = 6
)

var (
	errInvalidCredentials = errors.New("invalid credentials")
	errInactiveAccount    = errors.New("account is inactive")
	errInvalidToken       = errors.New("invalid or expired token")
)

// UserStore persists staff accounts. Passwords are bcrypt hashes; a plain
// value found on refresh is rehashed and written back.
type UserStore interface {
	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}

// AuthManager issues HS256 session tokens for staff accounts and checks the
// manager PIN that guards voids.
type AuthManager struct {
	secret     []byte
	tokenTTL   time.Duration
	managerPIN string
	userStore  UserStore
	logger     *zap.Logger

	mu       sync.RWMutex
	accounts map[string]domain.UserAccount
}

type sessionClaims struct {
	jwtlib.RegisteredClaims
	Role string `json:"role"`
}

func NewAuthManager(secret string, tokenTTL time.Duration, managerPIN string, userStore UserStore, log *zap.Logger) *AuthManager {
	if secret == "" {
		secret = "dev-change-me"
	}
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}

	// An unset PIN leaves no hash, so every void is refused.
	var pinHash string
	if pin := strings.TrimSpace(managerPIN); pin != "" {
		if hashed, err := hashPassword(pin); err == nil {
			pinHash = hashed
		}
	}

	a := &AuthManager{
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		managerPIN: pinHash,
		userStore:  userStore,
		logger:     logger.OrNop(log).Named("auth"),
		accounts:   make(map[string]domain.UserAccount),
	}
	ctx, cancel := context.WithTimeout(context.Background(), userStoreTimeout)
	defer cancel()
	a.refreshOrWarn(ctx)
	return a
}

// Login refreshes the account cache first so accounts created by another
// replica can sign in. A failed refresh falls back to the cached accounts.
func (a *AuthManager) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	a.refreshOrWarn(ctx)

	account, ok := a.account(normalizeUsername(req.Username))
	if !ok || !verifyPassword(account.Password, req.Password) {
		return domain.LoginResponse{}, errInvalidCredentials
	}
	if !account.Active {
		return domain.LoginResponse{}, errInactiveAccount
	}

	expiresAt := time.Now().UTC().Add(a.tokenTTL)
	token, err := a.sign(account.Username, account.Role, expiresAt)
	if err != nil {
		return domain.LoginResponse{}, fmt.Errorf("sign token: %w", err)
	}
	return domain.LoginResponse{
		AccessToken: token,
		Role:        account.Role,
		ExpiresAt:   expiresAt.Format(time.RFC3339),
	}, nil
}

// ParseToken verifies a bearer token and returns the actor it was issued to.
func (a *AuthManager) ParseToken(raw string) (domain.Actor, error) {
	var claims sessionClaims
	_, err := jwtlib.ParseWithClaims(raw, &claims, func(*jwtlib.Token) (any, error) {
		return a.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(tokenIssuer),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		return domain.Actor{}, errInvalidToken
	}
	if claims.Subject == "" || claims.Role == "" {
		return domain.Actor{}, errInvalidToken
	}
	return domain.Actor{Username: claims.Subject, Role: claims.Role}, nil
}

func (a *AuthManager) sign(username string, role string, expiresAt time.Time) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        xid.New(),
			Issuer:    tokenIssuer,
			Subject:   username,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
		},
		Role: role,
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *AuthManager) ValidateManagerPIN(pin string) bool {
	return verifyPassword(a.managerPIN, strings.TrimSpace(pin))
}

// CreateCashier registers an active cashier account.
func (a *AuthManager) CreateCashier(ctx context.Context, req domain.CashierCreateRequest) (domain.CashierUser, error) {
	username := normalizeUsername(req.Username)
	switch {
	case len(username) < minUsernameLen:
		return domain.CashierUser{}, domain.Invalid("username", fmt.Sprintf("must be at least %d characters", minUsernameLen))
	case strings.ContainsAny(username, " \t\r\n"):
		return domain.CashierUser{}, domain.Invalid("username", "must not contain spaces")
	case len(strings.TrimSpace(req.Password)) < minPasswordLen:
		return domain.CashierUser{}, domain.Invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}

	a.refreshOrWarn(ctx)
	if _, exists := a.account(username); exists {
		return domain.CashierUser{}, fmt.Errorf("username %s: %w", username, store.ErrConflict)
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return domain.CashierUser{}, fmt.Errorf("hash password: %w", err)
	}
	account := domain.UserAccount{
		Username:  username,
		Password:  hashed,
		Role:      roleCashier,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if a.userStore != nil {
		if err := a.userStore.CreateUser(ctx, account); err != nil {
			return domain.CashierUser{}, err
		}
	}

	a.mu.Lock()
	a.accounts[username] = account
	a.mu.Unlock()
	return cashierView(account), nil
}

// ListCashiers returns cashier accounts ordered by username.
func (a *AuthManager) ListCashiers(ctx context.Context) []domain.CashierUser {
	a.refreshOrWarn(ctx)

	a.mu.RLock()
	out := make([]domain.CashierUser, 0, len(a.accounts))
	for _, account := range a.accounts {
		if account.Role == roleCashier {
			out = append(out, cashierView(account))
		}
	}
	a.mu.RUnlock()

	slices.SortFunc(out, func(x, y domain.CashierUser) int {
		return strings.Compare(x.Username, y.Username)
	})
	return out
}

func (a *AuthManager) account(username string) (domain.UserAccount, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	account, ok := a.accounts[username]
	return account, ok
}

// refresh reloads the account cache from the user store.
func (a *AuthManager) refresh(ctx context.Context) error {
	if a.userStore == nil {
		return nil
	}
	users, err := a.userStore.ListUsers(ctx)
	if err != nil {
		return err
	}

	loaded := make(map[string]domain.UserAccount, len(users))
	for _, user := range users {
		user.Username = normalizeUsername(user.Username)
		if user.Username == "" {
			continue
		}
		if !isPasswordHash(user.Password) {
			hashed, err := hashPassword(user.Password)
			if err != nil {
				a.logger.Warn("skipping account with unhashable password", zap.String("username", user.Username), zap.Error(err))
				continue
			}
			user.Password = hashed
			if err := a.userStore.UpdateUserPassword(ctx, user.Username, hashed); err != nil {
				a.logger.Warn("failed to persist rehashed password", zap.String("username", user.Username), zap.Error(err))
			}
		}
		loaded[user.Username] = user
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for username, account := range loaded {
		a.accounts[username] = account
	}
	return nil
}

// refreshOrWarn keeps serving cached accounts when the store is unreachable.
func (a *AuthManager) refreshOrWarn(ctx context.Context) {
	if err := a.refresh(ctx); err != nil {
		a.logger.Warn("failed to refresh accounts from user store", zap.Error(err))
	}
}

func cashierView(account domain.UserAccount) domain.CashierUser {
	return domain.CashierUser{
		Username:  account.Username,
		Role:      account.Role,
		Active:    account.Active,
		CreatedAt: account.CreatedAt,
	}
}

func normalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func verifyPassword(hash string, input string) bool {
	if input == "" || !isPasswordHash(hash) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(input)) == nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func isPasswordHash(value string) bool {
	_, err := bcrypt.Cost([]byte(value))
	return err == nil
}
