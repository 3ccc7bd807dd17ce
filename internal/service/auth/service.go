package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dcastano/miscelanea/internal/config"
	"github.com/dcastano/miscelanea/internal/domain/models"
	"github.com/dcastano/miscelanea/internal/repository/mongodb"
)

// ErrInvalidCredentials covers both unknown usernames and bad passwords;
// login never reveals which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrDuplicateUser indicates the username is already taken (case-insensitive).
var ErrDuplicateUser = errors.New("username already exists")

// ErrInvalidRole indicates a role outside the enumerated set.
var ErrInvalidRole = errors.New("invalid role")

// ErrMissingFields indicates a request without username, password or role.
var ErrMissingFields = errors.New("missing mandatory credential fields")

// Store is the credential persistence surface the service depends on.
type Store interface {
	FindUserByUsername(ctx context.Context, usuario string) (models.User, error)
	InsertUser(ctx context.Context, user models.User) (primitive.ObjectID, error)
	CountUsers(ctx context.Context) (int64, error)
}

// Service implements credential provisioning and login.
type Service struct {
	store  Store
	cfg    config.AuthConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires an auth service instance.
func NewService(store Store, cfg config.AuthConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cfg: cfg, logger: logger, now: time.Now}
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token   string
	Rol     string
	Usuario string
}

// Login verifies the password against the stored bcrypt hash and issues a
// signed session token.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (LoginResult, error) {
	usuario := strings.ToLower(strings.TrimSpace(req.Usuario))
	if usuario == "" || req.Contrasena == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := s.store.FindUserByUsername(ctx, usuario)
	if errors.Is(err, mongodb.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Contrasena)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("login succeeded", zap.String("usuario", user.Usuario), zap.String("rol", user.Rol))
	return LoginResult{Token: token, Rol: user.Rol, Usuario: user.Usuario}, nil
}

// CreateUser provisions a credential. Usernames are stored lowercase,
// which also makes the duplicate check case-insensitive.
func (s *Service) CreateUser(ctx context.Context, req models.CreateUserRequest) (string, error) {
	usuario := strings.ToLower(strings.TrimSpace(req.Usuario))
	if usuario == "" || req.Contrasena == "" || req.Rol == "" {
		return "", ErrMissingFields
	}
	if !models.ValidRole(req.Rol) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, req.Rol)
	}

	_, err := s.store.FindUserByUsername(ctx, usuario)
	if err == nil {
		return "", ErrDuplicateUser
	}
	if !errors.Is(err, mongodb.ErrNotFound) {
		return "", fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Contrasena), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Usuario:       usuario,
		PasswordHash:  string(hash),
		Rol:           req.Rol,
		FechaCreacion: s.now().UTC(),
	}

	id, err := s.store.InsertUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}

	s.logger.Info("user created", zap.String("usuario", usuario), zap.String("rol", req.Rol))
	return id.Hex(), nil
}

// EnsureBootstrapAdmin seeds the configured administrator when the user
// collection is empty. Replaces the throwaway setup script the system
// used to ship with; safe to run on every startup.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context) error {
	if s.cfg.BootstrapUser == "" || s.cfg.BootstrapPass == "" {
		return nil
	}

	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err = s.CreateUser(ctx, models.CreateUserRequest{
		Usuario:    s.cfg.BootstrapUser,
		Contrasena: s.cfg.BootstrapPass,
		Rol:        models.RolAdministrador,
	})
	if err != nil {
		return fmt.Errorf("seed bootstrap admin: %w", err)
	}

	s.logger.Info("bootstrap administrator created", zap.String("usuario", strings.ToLower(s.cfg.BootstrapUser)))
	return nil
}
