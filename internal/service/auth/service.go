package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/clinic-booking-api/internal/email"
	"github.com/jwalitptl/clinic-booking-api/internal/model"
	"github.com/jwalitptl/clinic-booking-api/internal/repository"
	pkgauth "github.com/jwalitptl/clinic-booking-api/pkg/auth"
	apperrors "github.com/jwalitptl/clinic-booking-api/pkg/errors"
	"github.com/jwalitptl/clinic-booking-api/pkg/logger"
	"github.com/jwalitptl/clinic-booking-api/pkg/security"
)

const activationCodeExpiry = 48 * time.Hour

// Deliberately identical for unknown email and wrong password.
const invalidCredentialsMsg = "invalid email or password"

type Service struct {
	accounts repository.AccountRepository
	doctors  repository.DoctorRepository
	tokenSvc pkgauth.TokenService
	hasher   security.PasswordHasher
	validate *validator.Validate
	emailSvc email.Service
	logger   *logger.Logger
}

func NewService(
	accounts repository.AccountRepository,
	doctors repository.DoctorRepository,
	tokenSvc pkgauth.TokenService,
	hasher security.PasswordHasher,
	validate *validator.Validate,
	emailSvc email.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		accounts: accounts,
		doctors:  doctors,
		tokenSvc: tokenSvc,
		hasher:   hasher,
		validate: validate,
		emailSvc: emailSvc,
		logger:   logger,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Unauthorized(invalidCredentialsMsg)
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized(invalidCredentialsMsg)
	}

	return s.loginResponse(ctx, account)
}

func (s *Service) RegisterPatient(ctx context.Context, req *model.RegisterPatientRequest) (*model.LoginResponse, error) {
	if err := s.validateCredentials(req.Password, req.PrivateNumber); err != nil {
		return nil, err
	}

	photo, err := decodeBlob(req.Photo)
	if err != nil {
		return nil, apperrors.BadRequest("photo must be base64 encoded", err)
	}

	account, err := s.createAccount(ctx, accountParams{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Password:      req.Password,
		PrivateNumber: req.PrivateNumber,
		Photo:         photo,
		Role:          model.RolePatient,
	})
	if err != nil {
		return nil, err
	}

	return s.loginResponse(ctx, account)
}

func (s *Service) RegisterDoctor(ctx context.Context, req *model.RegisterDoctorRequest) (*model.LoginResponse, error) {
	if err := s.validateCredentials(req.Password, req.PrivateNumber); err != nil {
		return nil, err
	}

	photo, err := decodeBlob(req.Photo)
	if err != nil {
		return nil, apperrors.BadRequest("photo must be base64 encoded", err)
	}
	cv, err := decodeBlob(req.CV)
	if err != nil {
		return nil, apperrors.BadRequest("cv must be base64 encoded", err)
	}

	account, err := s.createAccount(ctx, accountParams{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Password:      req.Password,
		PrivateNumber: req.PrivateNumber,
		Role:          model.RoleDoctor,
	})
	if err != nil {
		return nil, err
	}

	profile := &model.DoctorProfile{
		AccountID: account.ID,
		Category:  req.Category,
		Photo:     photo,
		CV:        cv,
	}
	if err := s.doctors.CreateProfile(ctx, profile); err != nil {
		return nil, apperrors.Internal(err)
	}

	return s.loginResponse(ctx, account)
}

type accountParams struct {
	FirstName     string
	LastName      string
	Email         string
	Password      string
	PrivateNumber string
	Photo         []byte
	Role          string
}

func (s *Service) createAccount(ctx context.Context, p accountParams) (*model.Account, error) {
	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, apperrors.BadRequest("invalid password", err)
	}

	code, err := activationCode()
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	expiry := time.Now().Add(activationCodeExpiry)

	account := &model.Account{
		Email:                   p.Email,
		FirstName:               p.FirstName,
		LastName:                p.LastName,
		Role:                    p.Role,
		PasswordHash:            hash,
		PrivateNumber:           p.PrivateNumber,
		ActivationCode:          code,
		ActivationCodeExpiresAt: &expiry,
		Photo:                   p.Photo,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.BadRequest("email already registered", err)
		}
		return nil, apperrors.Internal(err)
	}

	// Fire and forget: a dead mail relay must not fail registration.
	go func() {
		if err := s.emailSvc.SendActivationCode(account.Email, account.FirstName, code); err != nil {
			s.logger.Error(err, "failed to send activation email", "email", account.Email)
		}
	}()

	return account, nil
}

func (s *Service) loginResponse(ctx context.Context, account *model.Account) (*model.LoginResponse, error) {
	token, err := s.tokenSvc.Issue(pkgauth.Identity{
		ID:        account.ID.String(),
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
	}, []string{account.Role})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	profile := model.Profile{
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
		Photo:     encodeBlob(account.Photo),
		Role:      account.Role,
	}

	if account.Role == model.RoleDoctor {
		doctorProfile, err := s.doctors.GetProfile(ctx, account.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Internal(err)
		}
		if doctorProfile != nil {
			profile.DoctorDetails = &model.DoctorDetails{
				Category: doctorProfile.Category,
				Photo:    encodeBlob(doctorProfile.Photo),
				CV:       encodeBlob(doctorProfile.CV),
			}
		}
	}

	return &model.LoginResponse{Token: token, Profile: profile}, nil
}

func (s *Service) validateCredentials(password, privateNumber string) error {
	if err := s.validate.Var(password, "strongpassword"); err != nil {
		return apperrors.BadRequest("password must be at least 8 characters with one digit and one symbol", err)
	}
	if err := s.validate.Var(privateNumber, "privnum"); err != nil {
		return apperrors.BadRequest("private number must be exactly 11 digits", err)
	}
	return nil
}

func activationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate activation code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func decodeBlob(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(encoded)
}

func encodeBlob(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}
