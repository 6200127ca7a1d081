package services

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/DSR124124/edugen-tracking-go/internal/domain/user"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/logging"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/security"
)

// AuthService issues role-scoped JWTs for the tracking API. Role passwords
// come from configuration and are hashed at construction so the comparison
// path never touches plaintext.
type AuthService struct {
	logger    *logging.ChanneledLogger
	jwtSecret string
	tokenTTL  time.Duration
	roleHash  map[user.Role][]byte
}

// AuthConfig holds credentials and token parameters for the auth service.
type AuthConfig struct {
	JWTSecret         string
	TokenTTL          time.Duration
	LearnerPassword   string
	ProfessorPassword string
	AdminPassword     string
}

// NewAuthService creates an auth service with bcrypt-hashed role passwords.
func NewAuthService(logger *logging.ChanneledLogger, cfg AuthConfig) *AuthService {
	hashes := make(map[user.Role][]byte, 3)
	for role, password := range map[user.Role]string{
		user.RoleLearner:   cfg.LearnerPassword,
		user.RoleProfessor: cfg.ProfessorPassword,
		user.RoleAdmin:     cfg.AdminPassword,
	} {
		if password == "" {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			logger.Auth().Error("Failed to hash role password", "error", err, "role", role)
			continue
		}
		hashes[role] = hash
	}

	return &AuthService{
		logger:    logger,
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.TokenTTL,
		roleHash:  hashes,
	}
}

// AuthResult holds authentication result data.
type AuthResult struct {
	Token   string `json:"token,omitempty"`
	Role    string `json:"role,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Authenticate validates credentials for the requested role and issues a JWT
// carrying the account identity and role.
func (a *AuthService) Authenticate(userID string, role user.Role, password string) *AuthResult {
	if userID == "" {
		return &AuthResult{Success: false, Error: "user id is required"}
	}
	if !role.IsValid() {
		return &AuthResult{Success: false, Error: "unknown role"}
	}

	hash, ok := a.roleHash[role]
	if !ok {
		a.logger.Auth().Warn("Login attempt for role without configured password", "role", role)
		return &AuthResult{Success: false, Error: "invalid credentials"}
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		a.logger.Auth().Warn("Failed login attempt", "userId", userID, "role", role)
		return &AuthResult{Success: false, Error: "invalid credentials"}
	}

	token, err := security.GenerateRoleToken(userID, role, a.jwtSecret, a.tokenTTL)
	if err != nil {
		a.logger.Auth().Error("Token generation failed", "error", err, "userId", userID)
		return &AuthResult{Success: false, Error: "token generation failed"}
	}

	a.logger.Auth().Info("User authenticated", "userId", userID, "role", role)
	return &AuthResult{Token: token, Role: string(role), Success: true}
}

// ValidateToken checks a bearer token and returns the identity it carries.
func (a *AuthService) ValidateToken(tokenString string) (string, user.Role, bool) {
	if tokenString == "" {
		return "", "", false
	}
	claims, err := security.ValidateJWT(tokenString, a.jwtSecret)
	if err != nil {
		return "", "", false
	}
	return security.IdentityFromClaims(claims)
}
