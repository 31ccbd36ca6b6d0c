package interactor

import (
	"context"

	"github.com/partycurrency/payment-service/internal/auth"
	"github.com/partycurrency/payment-service/internal/domain/models"
	"github.com/partycurrency/payment-service/internal/domain/repositories"
	apperrors "github.com/partycurrency/payment-service/internal/errors"
	"github.com/partycurrency/payment-service/internal/usecases/dtos"
)

type UserInteractor struct {
	userRepository repositories.UserRepository
	issuer         *auth.TokenIssuer
}

func NewUserInteractor(userRepository repositories.UserRepository, issuer *auth.TokenIssuer) *UserInteractor {
	return &UserInteractor{userRepository: userRepository, issuer: issuer}
}

func (u *UserInteractor) Signup(ctx context.Context, dto *dtos.SignupDTO) (*dtos.AuthResponseDTO, error) {
	hash, err := auth.HashPassword(dto.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        dto.Email,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		PhoneNumber:  dto.PhoneNumber,
		PasswordHash: hash,
	}
	if err = u.userRepository.Insert(ctx, user); err != nil {
		return nil, err
	}

	token, err := u.issuer.Generate(user.Email, user.FirstName, user.LastName)
	if err != nil {
		return nil, err
	}
	return &dtos.AuthResponseDTO{Token: token, User: user}, nil
}

func (u *UserInteractor) Login(ctx context.Context, dto *dtos.LoginDTO) (*dtos.AuthResponseDTO, error) {
	user, err := u.userRepository.GetByEmail(ctx, dto.Email)
	if err != nil {
		if _, ok := err.(*apperrors.NotFoundError); ok {
			return nil, apperrors.NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}

	if !auth.CheckPasswordHash(dto.Password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	token, err := u.issuer.Generate(user.Email, user.FirstName, user.LastName)
	if err != nil {
		return nil, err
	}
	return &dtos.AuthResponseDTO{Token: token, User: user}, nil
}
