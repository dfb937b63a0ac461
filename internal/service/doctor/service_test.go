package doctor

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-booking-api/internal/model"
	"github.com/jwalitptl/clinic-booking-api/internal/repository"
)

type stubDoctorRepo struct {
	doctors []*model.Doctor
	calls   int
}

func (s *stubDoctorRepo) CreateProfile(context.Context, *model.DoctorProfile) error {
	return nil
}

func (s *stubDoctorRepo) GetProfile(context.Context, uuid.UUID) (*model.DoctorProfile, error) {
	return nil, repository.ErrNotFound
}

func (s *stubDoctorRepo) Exists(context.Context, uuid.UUID) (bool, error) {
	return false, nil
}

func (s *stubDoctorRepo) List(context.Context) ([]*model.Doctor, error) {
	s.calls++
	return s.doctors, nil
}

func TestList(t *testing.T) {
	id := uuid.New()
	repo := &stubDoctorRepo{doctors: []*model.Doctor{{
		AccountID: id,
		FirstName: "Giorgi",
		LastName:  "Maisuradze",
		Category:  "Cardiologist",
		CV:        []byte("curriculum vitae"),
	}}}
	svc := NewService(repo)

	listings, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, id, listings[0].ID)
	assert.Equal(t, "Cardiologist", listings[0].Category)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("curriculum vitae")), listings[0].CV)
	assert.Empty(t, listings[0].Photo)
}

func TestListIsCached(t *testing.T) {
	repo := &stubDoctorRepo{}
	svc := NewService(repo)

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls, "second listing must come from cache")

	svc.Invalidate()
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls, "invalidation must force a reload")
}
