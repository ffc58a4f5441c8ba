package profile

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profileRowColumns = []string{
	"id", "email", "full_name", "is_admin", "dob", "gender", "gender_preference",
	"relationship_goal", "education", "profession", "connection_type", "lga",
	"hometown", "current_lga", "city", "connection_reason", "hobbies", "bio",
	"preferences", "disability_desc", "min_age_preference", "max_age_preference",
	"last_active", "created_at",
}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return NewPostgresRepository(sqlx.NewDb(raw, "postgres")), mock
}

func profileRow(id string) []driver.Value {
	dob := time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, id + "@example.com", "Ada " + id, false, dob, "female", "{male}",
		"marriage", "bachelors", "engineer", "native", "Uyo",
		"Uyo", "", "Uyo", "", "{music,reading}", "I love music",
		"", "", 25, 40,
		nil, nil,
	}
}

func TestGetProfile(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(profileRowColumns).AddRow(profileRow("u1")...))

	p, err := repo.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, []string{"male"}, []string(p.GenderPreference))
	assert.Equal(t, []string{"music", "reading"}, []string(p.Hobbies))
	assert.Equal(t, 40, p.MaxAgePreference)
	require.NotNil(t, p.DOB)
	assert.Equal(t, 1995, p.DOB.Year())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfile_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM profiles").WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestGetProfile_DriverError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM profiles").WithArgs("u1").WillReturnError(errors.New("connection reset"))

	_, err := repo.GetProfile(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProfileNotFound)
	assert.Contains(t, err.Error(), "profile: get")
}

func TestFindCandidates_DefaultsAgeRange(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("EXTRACT(YEAR FROM AGE(dob)) BETWEEN $2 AND $3")).
		WithArgs("u1", 25, 40, sqlmock.AnyArg(), 500).
		WillReturnRows(sqlmock.NewRows(profileRowColumns).
			AddRow(profileRow("u2")...).
			AddRow(profileRow("u3")...))

	out, err := repo.FindCandidates(context.Background(), &Profile{ID: "u1"}, 500)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindCandidates_UsesPreferences(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM profiles").
		WithArgs("u1", 30, 45, sqlmock.AnyArg(), 10).
		WillReturnRows(sqlmock.NewRows(profileRowColumns))

	self := &Profile{ID: "u1", MinAgePreference: 30, MaxAgePreference: 45, GenderPreference: []string{"male"}}
	out, err := repo.FindCandidates(context.Background(), self, 10)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_BuildsSetClause(t *testing.T) {
	repo, mock := newMockRepo(t)

	bio := "new bio"
	maxAge := 50
	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles SET bio = $1, max_age_preference = $2, updated_at = NOW() WHERE id = $3")).
		WithArgs(bio, maxAge, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM profiles WHERE id").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(profileRowColumns).AddRow(profileRow("u1")...))

	p, err := repo.UpdateProfile(context.Background(), "u1", &UpdateProfileRequest{Bio: &bio, MaxAgePreference: &maxAge})
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_Missing(t *testing.T) {
	repo, mock := newMockRepo(t)

	bio := "x"
	mock.ExpectExec("UPDATE profiles").WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateProfile(context.Background(), "ghost", &UpdateProfileRequest{Bio: &bio})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestListProfiles(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM profiles")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC NULLS LAST, id")).
		WithArgs(20, 40).
		WillReturnRows(sqlmock.NewRows(profileRowColumns).
			AddRow(profileRow("u7")...).
			AddRow(profileRow("u8")...))

	out, total, err := repo.ListProfiles(context.Background(), 20, 40)
	require.NoError(t, err)
	assert.Equal(t, 42, total)
	require.Len(t, out, 2)
	assert.Equal(t, "u7", out[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProfiles_CountError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("timeout"))

	_, _, err := repo.ListProfiles(context.Background(), 20, 0)
	assert.ErrorContains(t, err, "profile: count")
}

func TestBlockQueries(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO blocked_users").WithArgs("u1", "u2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT blocked_id FROM blocked_users").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"blocked_id"}).AddRow("u2"))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("u2", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("DELETE FROM blocked_users").WithArgs("u1", "u2").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.BlockUser(ctx, "u1", "u2"))

	blocked, err := repo.GetBlockedUsers(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, blocked)

	isBlocked, err := repo.IsBlocked(ctx, "u2", "u1")
	require.NoError(t, err)
	assert.True(t, isBlocked)

	require.NoError(t, repo.UnblockUser(ctx, "u1", "u2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAdmin(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT is_admin").WithArgs("boss").
		WillReturnRows(sqlmock.NewRows([]string{"is_admin"}).AddRow(true))
	mock.ExpectQuery("SELECT is_admin").WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	ok, err := repo.IsAdmin(context.Background(), "boss")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsAdmin(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestToMatchProfile(t *testing.T) {
	dob := time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)
	p := &Profile{
		ID: "u1", DOB: &dob, ConnectionType: "non-native", CurrentLGA: "Eket",
		Hobbies: []string{"music"}, MinAgePreference: 30,
	}

	mp := p.ToMatchProfile([]string{"u9"})
	assert.Equal(t, "u1", mp.ID)
	assert.Equal(t, 1990, mp.DOB.Year())
	assert.False(t, mp.IsNative())
	assert.Equal(t, "Eket", mp.CurrentLGA)
	assert.Equal(t, []string{"u9"}, mp.BlockedUsers)
	assert.Equal(t, 30, mp.MinAgePreference)

	assert.True(t, (&Profile{ID: "u2"}).ToMatchProfile(nil).DOB.IsZero())
}
