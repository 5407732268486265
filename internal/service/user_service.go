package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"salary-api/internal/domain"
	"salary-api/internal/email"
	"salary-api/internal/repository"
)

// UserService coordina reglas de negocio para usuarios y codigos de un solo uso.
type UserService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	hasher      PasswordHasher
	emailSender email.Sender
	codes       CodeStore
	otpLimiter  OTPRateLimiter
	codeTTL     time.Duration
	now         func() time.Time
}

// UserServiceDeps agrupa las dependencias opcionales del servicio.
type UserServiceDeps struct {
	Hasher      PasswordHasher
	EmailSender email.Sender
	Codes       CodeStore
	OTPLimiter  OTPRateLimiter
	CodeTTL     time.Duration
}

const defaultCodeTTL = 15 * time.Minute

func NewUserService(logger *zap.Logger, users repository.UserRepository, deps UserServiceDeps) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Hasher == nil {
		deps.Hasher = NewBcryptHasher(0)
	}
	if deps.EmailSender == nil {
		deps.EmailSender = email.NewDisabledSender("email sender not configured")
	}
	if deps.Codes == nil {
		deps.Codes = NewMemoryCodeStore()
	}
	if deps.OTPLimiter == nil {
		deps.OTPLimiter = NewOTPRateLimiter(10*time.Minute, 3)
	}
	if deps.CodeTTL <= 0 {
		deps.CodeTTL = defaultCodeTTL
	}
	return &UserService{
		logger:      logger,
		users:       users,
		hasher:      deps.Hasher,
		emailSender: deps.EmailSender,
		codes:       deps.Codes,
		otpLimiter:  deps.OTPLimiter,
		codeTTL:     deps.CodeTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	Location  string
}

// Register crea un usuario activo. Falla con ErrDuplicateEmail o ErrInvalidRole.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}

	_, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return domain.User{}, ErrDuplicateEmail
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	role := strings.TrimSpace(input.Role)
	accountTypeID, err := s.users.FindAccountTypeID(ctx, role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidRole
		}
		return domain.User{}, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        emailAddr,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       domain.UserStatusActive,
		Location:     strings.TrimSpace(input.Location),
		CreatedAt:    s.now(),
	}

	if err := s.users.Create(ctx, user, accountTypeID); err != nil {
		if repository.IsUniqueViolation(err) {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, err
	}

	return user, nil
}

// Authenticate no distingue entre email inexistente y contraseña incorrecta.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id, firstName, lastName string) (domain.User, error) {
	err := s.users.UpdateProfile(ctx, id, strings.TrimSpace(firstName), strings.TrimSpace(lastName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return s.GetByID(ctx, id)
}

func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidCurrentPassword
		}
		return err
	}
	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return ErrInvalidCurrentPassword
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *UserService) ChangeRole(ctx context.Context, id, role string) (domain.User, error) {
	accountTypeID, err := s.users.FindAccountTypeID(ctx, strings.TrimSpace(role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidRole
		}
		return domain.User{}, err
	}
	if err := s.users.UpdateRole(ctx, id, accountTypeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return s.GetByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
