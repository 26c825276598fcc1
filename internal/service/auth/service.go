package auth

import (
	"context"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
	"github.com/jwalitptl/booking-api/pkg/auth"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/security"
)

type Service struct {
	users repository.UserRepository
	jwt   *auth.JWTService
}

func NewService(users repository.UserRepository, jwt *auth.JWTService) *Service {
	return &Service{
		users: users,
		jwt:   jwt,
	}
}

// Login verifies credentials and issues an access token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Validation("invalid credentials")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.Validation("account is inactive")
	}
	if err := security.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Validation("invalid credentials")
	}

	token, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{
		Token: token,
		User:  user,
	}, nil
}
