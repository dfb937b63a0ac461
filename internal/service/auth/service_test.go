package auth

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-booking-api/internal/model"
	"github.com/jwalitptl/clinic-booking-api/internal/repository"
	pkgauth "github.com/jwalitptl/clinic-booking-api/pkg/auth"
	apperrors "github.com/jwalitptl/clinic-booking-api/pkg/errors"
	"github.com/jwalitptl/clinic-booking-api/pkg/logger"
	"github.com/jwalitptl/clinic-booking-api/pkg/security"
	"github.com/jwalitptl/clinic-booking-api/pkg/validator"
)

type fakeAccountRepo struct {
	byEmail map[string]*model.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byEmail: make(map[string]*model.Account)}
}

func (f *fakeAccountRepo) Create(_ context.Context, account *model.Account) error {
	if _, exists := f.byEmail[account.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	account.ID = uuid.New()
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	f.byEmail[account.Email] = account
	return nil
}

func (f *fakeAccountRepo) Get(_ context.Context, id uuid.UUID) (*model.Account, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	account, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return account, nil
}

type fakeDoctorRepo struct {
	profiles map[uuid.UUID]*model.DoctorProfile
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{profiles: make(map[uuid.UUID]*model.DoctorProfile)}
}

func (f *fakeDoctorRepo) CreateProfile(_ context.Context, profile *model.DoctorProfile) error {
	f.profiles[profile.AccountID] = profile
	return nil
}

func (f *fakeDoctorRepo) GetProfile(_ context.Context, accountID uuid.UUID) (*model.DoctorProfile, error) {
	profile, ok := f.profiles[accountID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return profile, nil
}

func (f *fakeDoctorRepo) Exists(_ context.Context, accountID uuid.UUID) (bool, error) {
	_, ok := f.profiles[accountID]
	return ok, nil
}

func (f *fakeDoctorRepo) List(context.Context) ([]*model.Doctor, error) {
	return nil, nil
}

type fakeEmailService struct {
	sent chan string
}

func (f *fakeEmailService) SendActivationCode(to, _, _ string) error {
	select {
	case f.sent <- to:
	default:
	}
	return nil
}

type fixture struct {
	svc      *Service
	accounts *fakeAccountRepo
	doctors  *fakeDoctorRepo
	tokenSvc pkgauth.TokenService
	email    *fakeEmailService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokenSvc, err := pkgauth.NewJWTService(pkgauth.Config{
		Secret:   "test-secret",
		Issuer:   "clinic-booking-api",
		Audience: "clinic-booking-clients",
		Expiry:   time.Hour,
	})
	require.NoError(t, err)

	validate, err := validator.New()
	require.NoError(t, err)

	accounts := newFakeAccountRepo()
	doctors := newFakeDoctorRepo()
	email := &fakeEmailService{sent: make(chan string, 8)}

	return &fixture{
		svc: NewService(accounts, doctors, tokenSvc, security.NewBcryptHasher(4),
			validate, email, logger.NewLogger(nil)),
		accounts: accounts,
		doctors:  doctors,
		tokenSvc: tokenSvc,
		email:    email,
	}
}

func patientRequest() *model.RegisterPatientRequest {
	return &model.RegisterPatientRequest{
		FirstName:     "Nino",
		LastName:      "Beridze",
		Email:         "nino@example.com",
		Password:      "s3cret!pass",
		PrivateNumber: "01234567890",
	}
}

func TestRegisterPatient(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.RegisterPatient(context.Background(), patientRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, model.RolePatient, resp.Profile.Role)
	assert.Nil(t, resp.Profile.DoctorDetails)

	account, err := f.accounts.GetByEmail(context.Background(), "nino@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!pass", account.PasswordHash, "password must be stored hashed")
	assert.Len(t, account.ActivationCode, 6)
	require.NotNil(t, account.ActivationCodeExpiresAt)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), *account.ActivationCodeExpiresAt, time.Minute)

	select {
	case to := <-f.email.sent:
		assert.Equal(t, "nino@example.com", to)
	case <-time.After(time.Second):
		t.Fatal("activation email was never sent")
	}
}

func TestRegisterPatientWeakCredentials(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name   string
		mutate func(*model.RegisterPatientRequest)
	}{
		{"short password", func(r *model.RegisterPatientRequest) { r.Password = "a1!" }},
		{"no digit", func(r *model.RegisterPatientRequest) { r.Password = "password!!" }},
		{"no symbol", func(r *model.RegisterPatientRequest) { r.Password = "password11" }},
		{"short private number", func(r *model.RegisterPatientRequest) { r.PrivateNumber = "12345" }},
		{"non-numeric private number", func(r *model.RegisterPatientRequest) { r.PrivateNumber = "0123456789a" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := patientRequest()
			tc.mutate(req)

			_, err := f.svc.RegisterPatient(context.Background(), req)
			assert.ErrorIs(t, err, apperrors.BadRequest("", nil))
		})
	}
}

func TestRegisterPatientDuplicateEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RegisterPatient(context.Background(), patientRequest())
	require.NoError(t, err)

	_, err = f.svc.RegisterPatient(context.Background(), patientRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.BadRequest("", nil))
	assert.Contains(t, err.Error(), "email already registered")
}

func TestRegisterDoctor(t *testing.T) {
	f := newFixture(t)

	cv := base64.StdEncoding.EncodeToString([]byte("curriculum vitae"))
	resp, err := f.svc.RegisterDoctor(context.Background(), &model.RegisterDoctorRequest{
		FirstName:     "Giorgi",
		LastName:      "Maisuradze",
		Email:         "giorgi@example.com",
		Password:      "s3cret!pass",
		PrivateNumber: "01234567890",
		Category:      "Cardiologist",
		CV:            cv,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, resp.Profile.Role)
	require.NotNil(t, resp.Profile.DoctorDetails)
	assert.Equal(t, "Cardiologist", resp.Profile.DoctorDetails.Category)
	assert.Equal(t, cv, resp.Profile.DoctorDetails.CV)
}

func TestRegisterDoctorRejectsBadBlob(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RegisterDoctor(context.Background(), &model.RegisterDoctorRequest{
		FirstName:     "Giorgi",
		LastName:      "Maisuradze",
		Email:         "giorgi@example.com",
		Password:      "s3cret!pass",
		PrivateNumber: "01234567890",
		Category:      "Cardiologist",
		CV:            "not base64!!!",
	})
	assert.ErrorIs(t, err, apperrors.BadRequest("", nil))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RegisterPatient(context.Background(), patientRequest())
	require.NoError(t, err)

	resp, err := f.svc.Login(context.Background(), "nino@example.com", "s3cret!pass")
	require.NoError(t, err)
	assert.Equal(t, "Nino", resp.Profile.FirstName)

	claims, err := f.tokenSvc.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "nino@example.com", claims.Email)
	assert.Equal(t, "Nino", claims.FirstName)
	assert.Equal(t, "Beridze", claims.LastName)
	assert.Equal(t, []string{model.RolePatient}, claims.Roles)

	account, err := f.accounts.GetByEmail(context.Background(), "nino@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID.String(), claims.Subject)
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RegisterPatient(context.Background(), patientRequest())
	require.NoError(t, err)

	// Unknown email and wrong password must be indistinguishable.
	_, errUnknown := f.svc.Login(context.Background(), "nobody@example.com", "s3cret!pass")
	_, errWrongPass := f.svc.Login(context.Background(), "nino@example.com", "wrong!pass1")

	require.ErrorIs(t, errUnknown, apperrors.Unauthorized(""))
	require.ErrorIs(t, errWrongPass, apperrors.Unauthorized(""))
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error(),
		"error must not reveal which credential failed")
}
