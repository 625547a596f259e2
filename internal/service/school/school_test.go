package school

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/repository"
)

// stubSchoolRepo fails code generation a configurable number of times, which
// is impossible to stage against a real database
type stubSchoolRepo struct {
	collisions int
	calls      int
	created    []repository.CreateSchoolParams
}

func (r *stubSchoolRepo) CreateSchool(_ context.Context, arg repository.CreateSchoolParams) (models.School, error) {
	r.calls++
	if r.calls <= r.collisions {
		return models.School{}, apperrors.ErrSchoolCodeTaken
	}

	r.created = append(r.created, arg)
	return models.School{
		ID:      uuid.New(),
		Name:    arg.Name,
		Address: arg.Address,
		Contact: arg.Contact,
		Code:    arg.Code,
	}, nil
}

func (r *stubSchoolRepo) GetSchoolByID(context.Context, uuid.UUID) (models.School, error) {
	return models.School{}, apperrors.ErrSchoolNotFound
}

func (r *stubSchoolRepo) GetSchoolByCode(context.Context, string) (models.School, error) {
	return models.School{}, apperrors.ErrSchoolNotFound
}

func TestCreateSchool(t *testing.T) {
	t.Parallel()

	t.Run("create ok", func(t *testing.T) {
		repo := &stubSchoolRepo{}
		s := NewService(repo)

		school, err := s.CreateSchool(t.Context(), "SMA 1 Jakarta", "Jl. Merdeka 1", "021-555-0101")

		require.NoError(t, err)
		require.Equal(t, "SMA 1 Jakarta", school.Name)
		require.Len(t, school.Code, codeLength, "join code should have the fixed length")
		for _, c := range school.Code {
			require.Contains(t, codeAlphabet, string(c), "join code should use the allowed alphabet only")
		}
	})

	t.Run("codes differ between schools", func(t *testing.T) {
		repo := &stubSchoolRepo{}
		s := NewService(repo)

		first, err := s.CreateSchool(t.Context(), "First", "", "")
		require.NoError(t, err)
		second, err := s.CreateSchool(t.Context(), "Second", "", "")
		require.NoError(t, err)

		require.NotEqual(t, first.Code, second.Code)
	})

	t.Run("retries on taken code", func(t *testing.T) {
		repo := &stubSchoolRepo{collisions: 2}
		s := NewService(repo)

		school, err := s.CreateSchool(t.Context(), "SMA 1 Jakarta", "", "")

		require.NoError(t, err, "collisions below the retry limit should be survived")
		require.NotEmpty(t, school.Code)
		require.Equal(t, 3, repo.calls)
	})

	t.Run("gives up after too many collisions", func(t *testing.T) {
		repo := &stubSchoolRepo{collisions: maxCodeRetries}
		s := NewService(repo)

		_, err := s.CreateSchool(t.Context(), "SMA 1 Jakarta", "", "")

		require.Error(t, err)
		require.Equal(t, maxCodeRetries, repo.calls)
	})
}
