package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/mailer/internal/domain"
	apperrors "github.com/utafrali/mailer/pkg/errors"
)

func newGroupTestFixture(t *testing.T) (*GroupRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock := newMockPool(t)
	repo := NewGroupRepository(mock)
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func groupRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "user_id", "name", "description", "created_at", "updated_at"})
}

func memberRows() *pgxmock.Rows {
	return pgxmock.NewRows(contactColumns())
}

func expectGroupOwned(mock pgxmock.PgxPoolIface, groupID string, owned bool) {
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM contact_groups WHERE id = \$1 AND user_id = \$2\)`).
		WithArgs(groupID, "uid-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(owned))
}

func TestGroupRepository_Create(t *testing.T) {
	repo, mock := newGroupTestFixture(t)
	g := &domain.Group{ID: "gid", UserID: "uid-1", Name: "Team", Description: "Work", CreatedAt: fixedNow, UpdatedAt: fixedNow}

	mock.ExpectExec("INSERT INTO contact_groups").
		WithArgs("gid", "uid-1", "Team", "Work", fixedNow, fixedNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), g))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_GetByID_EmbedsMembers(t *testing.T) {
	repo, mock := newGroupTestFixture(t)

	mock.ExpectQuery(`SELECT .+ FROM contact_groups WHERE id = \$1 AND user_id = \$2`).
		WithArgs("gid", "uid-1").
		WillReturnRows(groupRows().AddRow("gid", "uid-1", "Team", "", fixedNow, fixedNow))
	mock.ExpectQuery(`FROM group_contacts gc\s+JOIN contacts c`).
		WithArgs("gid", "uid-1").
		WillReturnRows(memberRows().AddRow("cid", "uid-1", "Grace", "grace@example.com", fixedNow, fixedNow))

	g, err := repo.GetByID(context.Background(), "uid-1", "gid")
	require.NoError(t, err)
	assert.Equal(t, "Team", g.Name)
	require.Len(t, g.Contacts, 1)
	assert.Equal(t, "grace@example.com", g.Contacts[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newGroupTestFixture(t)

	mock.ExpectQuery("SELECT .+ FROM contact_groups").
		WithArgs("gid", "uid-1").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "uid-1", "gid")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestGroupRepository_ListByUser_AttachesMembersPerGroup(t *testing.T) {
	repo, mock := newGroupTestFixture(t)

	mock.ExpectQuery(`FROM contact_groups WHERE user_id = \$1`).
		WithArgs("uid-1").
		WillReturnRows(groupRows().
			AddRow("g1", "uid-1", "Family", "", fixedNow, fixedNow).
			AddRow("g2", "uid-1", "Work", "", fixedNow, fixedNow))
	mock.ExpectQuery(`SELECT gc.group_id, c.id`).
		WithArgs("uid-1").
		WillReturnRows(pgxmock.NewRows(append([]string{"group_id"}, contactColumns()...)).
			AddRow("g1", "c1", "uid-1", "Mum", "mum@example.com", fixedNow, fixedNow).
			AddRow("g1", "c2", "uid-1", "Dad", "dad@example.com", fixedNow, fixedNow))

	groups, err := repo.ListByUser(context.Background(), "uid-1")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Contacts, 2)
	assert.NotNil(t, groups[1].Contacts)
	assert.Empty(t, groups[1].Contacts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_ListByUser_NoGroupsSkipsMemberQuery(t *testing.T) {
	repo, mock := newGroupTestFixture(t)

	mock.ExpectQuery("FROM contact_groups").
		WithArgs("uid-1").
		WillReturnRows(groupRows())

	groups, err := repo.ListByUser(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_Update_ReplacesMembership(t *testing.T) {
	repo, mock := newGroupTestFixture(t)
	ids := []string{"c1", "c2"}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE contact_groups").
		WithArgs("Team", "desc", fixedNow, "gid", "uid-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`DELETE FROM group_contacts WHERE group_id = \$1`).
		WithArgs("gid").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(`INSERT INTO group_contacts .+ WHERE c.user_id = \$3 AND c.id = ANY\(\$4\)`).
		WithArgs("gid", fixedNow, "uid-1", ids).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), "uid-1", "gid", domain.GroupUpdate{Name: "Team", Description: "desc", ContactIDs: ids})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_Update_EmptyListClearsMembership(t *testing.T) {
	repo, mock := newGroupTestFixture(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE contact_groups").
		WithArgs("Team", "", fixedNow, "gid", "uid-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM group_contacts").
		WithArgs("gid").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), "uid-1", "gid", domain.GroupUpdate{Name: "Team", ContactIDs: []string{}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_Update_NilListKeepsMembership(t *testing.T) {
	repo, mock := newGroupTestFixture(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE contact_groups").
		WithArgs("Team", "", fixedNow, "gid", "uid-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), "uid-1", "gid", domain.GroupUpdate{Name: "Team"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_Update_NotOwnedRollsBack(t *testing.T) {
	repo, mock := newGroupTestFixture(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE contact_groups").
		WithArgs("Team", "", fixedNow, "gid", "uid-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), "uid-1", "gid", domain.GroupUpdate{Name: "Team", ContactIDs: []string{"c1"}})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newGroupTestFixture(t)

	mock.ExpectExec(`DELETE FROM contact_groups WHERE id = \$1 AND user_id = \$2`).
		WithArgs("gid", "uid-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "uid-1", "gid")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestGroupRepository_AddContacts(t *testing.T) {
	repo, mock := newGroupTestFixture(t)
	ids := []string{"c1"}

	expectGroupOwned(mock, "gid", true)
	mock.ExpectExec("INSERT INTO group_contacts").
		WithArgs("gid", fixedNow, "uid-1", ids).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.AddContacts(context.Background(), "uid-1", "gid", ids))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_AddContacts_ForeignGroup(t *testing.T) {
	repo, mock := newGroupTestFixture(t)

	expectGroupOwned(mock, "gid", false)

	err := repo.AddContacts(context.Background(), "uid-1", "gid", []string{"c1"})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_RemoveContacts(t *testing.T) {
	repo, mock := newGroupTestFixture(t)
	ids := []string{"c1", "c2"}

	expectGroupOwned(mock, "gid", true)
	mock.ExpectExec(`DELETE FROM group_contacts WHERE group_id = \$1 AND contact_id = ANY\(\$2\)`).
		WithArgs("gid", ids).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	require.NoError(t, repo.RemoveContacts(context.Background(), "uid-1", "gid", ids))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_ListContacts(t *testing.T) {
	repo, mock := newGroupTestFixture(t)

	expectGroupOwned(mock, "gid", true)
	mock.ExpectQuery("FROM group_contacts gc").
		WithArgs("gid", "uid-1").
		WillReturnRows(memberRows().AddRow("c1", "uid-1", "Grace", "grace@example.com", fixedNow, fixedNow))

	contacts, err := repo.ListContacts(context.Background(), "uid-1", "gid")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "c1", contacts[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
