package user

import (
	"Markit-Pantry/domain"
	"Markit-Pantry/entities"
	"Markit-Pantry/internal/utils"
	"Markit-Pantry/internal/utils/mailing"
	"Markit-Pantry/pkg/jwt"
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		validator      *validator.Validate
		mailer         mailing.Mailer
		appURL         string
		cost           int

		dummyOnce sync.Once
		dummyHash []byte
	}
)

// NewUserService wires the service. mailer may be nil, in which case no
// welcome mail is sent.
func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, validator *validator.Validate, mailer mailing.Mailer) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		validator:      validator,
		mailer:         mailer,
		appURL:         utils.GetConfig("APP_URL"),
		cost:           bcrypt.DefaultCost,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := utils.ValidateStruct(s.validator, req); err != nil {
		return domain.UserResponse{}, err
	}

	if err := s.checkConflicts(ctx, req.Username, req.Email); err != nil {
		return domain.UserResponse{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user := &entities.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepository.RegisterUser(ctx, user); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return domain.UserResponse{}, err
		}
		// lost a race with a concurrent registration; look again to name the field
		if conflict := s.checkConflicts(ctx, user.Username, user.Email); conflict != nil {
			return domain.UserResponse{}, conflict
		}
		return domain.UserResponse{}, domain.NewConflictErrors(
			domain.FieldError{Field: "username", Message: domain.MessageAccountTaken},
		)
	}

	s.sendWelcomeMail(user)

	return domain.UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

// checkConflicts reports every identity field already held by another user.
func (s *userService) checkConflicts(ctx context.Context, username, email string) error {
	conflicts := domain.NewConflictErrors()
	taken, err := s.userRepository.CheckUsername(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		conflicts.Add("username", domain.MessageUsernameTaken)
	}
	taken, err = s.userRepository.CheckEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		conflicts.Add("email", domain.MessageEmailTaken)
	}
	return conflicts.OrNil()
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)

	if err := utils.ValidateStruct(s.validator, req); err != nil {
		return domain.LoginResponse{}, err
	}

	user, err := s.userRepository.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return domain.LoginResponse{}, err
		}
		// keep the timing of unknown users close to wrong passwords
		_ = bcrypt.CompareHashAndPassword(s.dummyPasswordHash(), []byte(req.Password))
		return domain.LoginResponse{}, domain.ErrAuthFailure
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrAuthFailure
	}

	token, err := s.jwtService.GenerateSessionToken(user.Username)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{
		Username: user.Username,
		Token:    token,
	}, nil
}

func (s *userService) sendWelcomeMail(user *entities.User) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.SendMail(user.Email, domain.WelcomeMailSubject, mailing.WelcomeBody(s.appURL, user.Username)); err != nil {
		log.Warnf("failed to send welcome mail to %s: %v", user.Username, err)
	}
}

func (s *userService) dummyPasswordHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.cost)
	})
	return s.dummyHash
}
