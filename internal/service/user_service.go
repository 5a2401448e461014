package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/session"
	"github.com/Freeeeeet/hotel_booking/internal/storage"
	"github.com/Freeeeeet/hotel_booking/internal/validation"
	"go.uber.org/zap"
)

// AdminCredentials are the fixed admin login.
type AdminCredentials struct {
	Username string
	Password string
}

type UserService struct {
	store    *storage.Store
	sessions *session.Provider
	admin    AdminCredentials
	logger   *zap.Logger
	now      func() time.Time
}

func NewUserService(store *storage.Store, sessions *session.Provider, admin AdminCredentials, logger *zap.Logger) *UserService {
	return &UserService{
		store:    store,
		sessions: sessions,
		admin:    admin,
		logger:   logger,
		now:      time.Now,
	}
}

// SignUp registers a guest and logs them in.
func (s *UserService) SignUp(ctx context.Context, form model.SignUpForm) (model.UserProfile, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if err := validation.SignUp(form); err != nil {
		return model.UserProfile{}, err
	}

	now := s.now()
	user := model.RegisteredUser{
		UserID:    now.UnixMilli(),
		Name:      form.Name,
		Email:     form.Email,
		Password:  form.Password,
		Phone:     strings.TrimSpace(form.Phone),
		CreatedAt: now,
	}

	err := s.store.UpdateUsers(ctx, func(users []model.RegisteredUser) ([]model.RegisteredUser, error) {
		for _, u := range users {
			if strings.EqualFold(u.Email, user.Email) {
				return nil, fmt.Errorf("sign up %s: %w", user.Email, ErrEmailTaken)
			}
		}
		return append(users, user), nil
	})
	if err != nil {
		return model.UserProfile{}, err
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.UserID), zap.String("email", user.Email))

	profile := user.Profile(now)
	if err := s.sessions.Login(ctx, session.UserPrincipal(profile)); err != nil {
		return model.UserProfile{}, err
	}
	return profile, nil
}

// Login checks the email and password against the registered users.
func (s *UserService) Login(ctx context.Context, email, password string) (model.UserProfile, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.UserProfile{}, &validation.Error{Messages: []string{"Please enter both email and password."}}
	}

	for _, u := range s.store.Users(ctx) {
		if strings.EqualFold(u.Email, email) && u.Password == password {
			profile := u.Profile(s.now())
			if err := s.sessions.Login(ctx, session.UserPrincipal(profile)); err != nil {
				return model.UserProfile{}, err
			}
			s.logger.Info("User logged in", zap.Int64("user_id", u.UserID))
			return profile, nil
		}
	}

	s.logger.Warn("Failed user login", zap.String("email", email))
	return model.UserProfile{}, ErrInvalidCredentials
}

func (s *UserService) AdminLogin(ctx context.Context, username, password string) (model.AdminProfile, error) {
	if username != s.admin.Username || password != s.admin.Password {
		s.logger.Warn("Failed admin login", zap.String("username", username))
		return model.AdminProfile{}, ErrInvalidCredentials
	}

	profile := model.AdminProfile{
		Username:  username,
		Name:      "Hotel Administrator",
		Role:      "admin",
		LoginTime: s.now(),
	}
	if err := s.sessions.Login(ctx, session.AdminPrincipal(profile)); err != nil {
		return model.AdminProfile{}, err
	}
	s.logger.Info("Admin logged in", zap.String("username", username))
	return profile, nil
}

func (s *UserService) Logout(ctx context.Context, kind session.Kind) error {
	return s.sessions.Logout(ctx, kind)
}

func (s *UserService) Session(ctx context.Context) session.State {
	return s.sessions.Current(ctx)
}
