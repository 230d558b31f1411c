package local

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskdesk/internal/dto"
	"taskdesk/internal/entities"
	apperrors "taskdesk/pkg/errors"
	"taskdesk/pkg/localstore"
	"taskdesk/pkg/types"
	"taskdesk/pkg/utils"
)

func newUserRepo(t *testing.T) (*localstore.Store, *UserRepository) {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "data.json"), nil)
	require.NoError(t, err)
	return store, NewUserRepository(store, zap.NewNop()).(*UserRepository)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	_, repo := newUserRepo(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	created, err := repo.CreateUser(ctx, entities.User{
		Email:        "a@b.c",
		FullName:     "A",
		Role:         "sub_admin",
		PasswordHash: string(hash),
	})
	require.NoError(t, err)

	found, err := repo.FindUserByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, string(hash), found.PasswordHash, "the hash survives storage despite being hidden from JSON output")
	assert.Equal(t, created.ID, found.ID)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	_, repo := newUserRepo(t)
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, entities.User{Email: "a@b.c", FullName: "A", Role: "sub_admin"})
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, entities.User{Email: "a@b.c", FullName: "B", Role: "sub_admin"})
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
}

func TestGetUsersFilters(t *testing.T) {
	_, repo := newUserRepo(t)
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, entities.User{Email: "admin@b.c", FullName: "Master Administrator", Role: "master_admin"})
	require.NoError(t, err)
	_, err = repo.CreateUser(ctx, entities.User{Email: "sales@b.c", FullName: "Sales Person", Role: "sub_admin", DepartmentID: utils.StringPtr("dept-1")})
	require.NoError(t, err)

	byRole, _, err := repo.GetUsers(ctx, types.Filter{Filter: map[string]interface{}{"role": "sub_admin"}})
	require.NoError(t, err)
	require.Len(t, byRole, 1)
	assert.Equal(t, "sales@b.c", byRole[0].Email)

	bySearch, _, err := repo.GetUsers(ctx, types.Filter{Search: "master"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "admin@b.c", bySearch[0].Email)

	all, total, err := repo.GetUsers(ctx, types.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, uint64(2), total)
}

func TestUpdateUserPartial(t *testing.T) {
	_, repo := newUserRepo(t)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, entities.User{Email: "a@b.c", FullName: "Before", Role: "sub_admin"})
	require.NoError(t, err)

	updated, err := repo.UpdateUser(ctx, created.ID, dto.UpdateUserDTO{FullName: utils.StringPtr("After")})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.FullName)
	assert.Equal(t, "a@b.c", updated.Email)

	_, err = repo.UpdateUser(ctx, "missing", dto.UpdateUserDTO{FullName: utils.StringPtr("X")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
