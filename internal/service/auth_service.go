package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hungerhelp/hungerhelp/internal/audit"
	"github.com/hungerhelp/hungerhelp/internal/interfaces"
	"github.com/hungerhelp/hungerhelp/internal/metrics"
	"github.com/hungerhelp/hungerhelp/internal/model"
	"github.com/hungerhelp/hungerhelp/internal/repository"
	"github.com/hungerhelp/hungerhelp/internal/security"
	"github.com/hungerhelp/hungerhelp/internal/session"
	"github.com/hungerhelp/hungerhelp/internal/validate"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountLocked means the session's failed-attempt counter reached
	// the threshold; no credential check was performed.
	ErrAccountLocked = errors.New("too many failed login attempts")
	// ErrDuplicateEmail and ErrUserNotFound are re-exported so handlers
	// depend on the service layer only.
	ErrDuplicateEmail = repository.ErrDuplicateEmail
	ErrUserNotFound   = repository.ErrUserNotFound
	// ErrChallengeFailed mirrors the security package sentinel.
	ErrChallengeFailed = security.ErrChallengeFailed
)

// AuthService orchestrates registration, login throttling and session
// establishment.
type AuthService struct {
	userRepo  interfaces.UserRepository
	verifier  security.ChallengeVerifier
	sink      *audit.Sink
	collector *metrics.Collector
	now       func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo interfaces.UserRepository, verifier security.ChallengeVerifier, sink *audit.Sink, collector *metrics.Collector) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		verifier:  verifier,
		sink:      sink,
		collector: collector,
		now:       time.Now,
	}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Email           string
	FirstName       string
	LastName        string
	Phone           string
	Password        string
	ConfirmPassword string
	Notifications   bool
}

// Register validates the input, hashes the password and creates the
// account. Self-registered accounts always get the user role. The error is
// validate.FieldErrors for rule violations or ErrDuplicateEmail when the
// email is taken.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, remoteAddr string) (*model.User, error) {
	form := validate.Registration{
		Email:           in.Email,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Phone:           in.Phone,
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
	}
	if errs := form.Validate(); errs != nil {
		return nil, errs
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, &model.User{
		Email:         in.Email,
		PasswordHash:  hash,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Phone:         in.Phone,
		Notifications: in.Notifications,
		Role:          model.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	s.sink.Security("User registration", user.Email, remoteAddr)
	s.collector.RecordRegistration()
	return user, nil
}

// Login authenticates the submitted credentials against the session's
// throttle state. It mutates sess (attempts counter, identity); the caller
// must persist the session afterwards regardless of outcome.
func (s *AuthService) Login(ctx context.Context, sess *session.Session, email, password, challengeToken, remoteAddr string) (*model.User, error) {
	// A locked session is refused before any credential check.
	if sess.Locked() {
		return nil, ErrAccountLocked
	}

	if err := s.verifier.Verify(ctx, challengeToken, remoteAddr); err != nil {
		return nil, ErrChallengeFailed
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		sess.RecordFailure()
		s.sink.Security("Invalid log in", email, remoteAddr)
		s.collector.RecordLoginFailure()

		if sess.Locked() {
			s.collector.RecordLockout()
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.RecordLogin(ctx, user.ID, s.now()); err != nil {
		return nil, fmt.Errorf("recording login: %w", err)
	}

	sess.SetIdentity(user)
	s.sink.Security("Log in", strconv.FormatInt(user.ID, 10), user.Email, remoteAddr)
	s.collector.RecordLoginSuccess()
	return user, nil
}

// Logout clears the session identity and records the event.
func (s *AuthService) Logout(sess *session.Session, remoteAddr string) {
	s.sink.Security("Log out", strconv.FormatInt(sess.UserID, 10), sess.Email, remoteAddr)
	sess.ClearIdentity()
}

// GetUser fetches an account for the profile view.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetUserByID(ctx, id)
}

// ListUsers returns every account with the given role, for the admin view.
func (s *AuthService) ListUsers(ctx context.Context, role model.Role) ([]model.User, error) {
	return s.userRepo.ListByRole(ctx, role)
}

// EnsureAdmin creates the seed admin account at bootstrap if it does not
// exist yet. The admin's profile fields are fixed; only the credentials
// come from configuration.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if password == "" {
		return nil
	}

	_, err := s.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	_, err = s.userRepo.CreateUser(ctx, &model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Team6",
		LastName:     "Bob",
		Phone:        "0234-456-2333",
		Role:         model.RoleAdmin,
	})
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// Another instance won the race; the admin exists.
		return nil
	}
	return err
}
