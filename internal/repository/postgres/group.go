package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/utafrali/mailer/internal/domain"
	"github.com/utafrali/mailer/pkg/database"
	apperrors "github.com/utafrali/mailer/pkg/errors"
)

const groupColumns = `id, user_id, name, description, created_at, updated_at`

// GroupRepository implements repository.GroupRepository using PostgreSQL.
// Membership inserts select from contacts filtered by owner, so a group can
// never reference another user's contact.
type GroupRepository struct {
	db  database.DBTX
	now func() time.Time
}

// NewGroupRepository creates a new PostgreSQL-backed group repository.
func NewGroupRepository(db database.DBTX) *GroupRepository {
	return &GroupRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts a new group. Any contacts on g are ignored.
func (r *GroupRepository) Create(ctx context.Context, g *domain.Group) (err error) {
	query := `
		INSERT INTO contact_groups (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	ctx, end := database.TraceQuery(ctx, "CreateGroup", query)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, query, g.ID, g.UserID, g.Name, g.Description, g.CreatedAt, g.UpdatedAt); err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

// ListByUser returns every group of the user with its members.
func (r *GroupRepository) ListByUser(ctx context.Context, userID string) (_ []domain.Group, err error) {
	query := `SELECT ` + groupColumns + ` FROM contact_groups WHERE user_id = $1 ORDER BY name, created_at`

	ctx, end := database.TraceQuery(ctx, "ListGroups", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	groups := make([]domain.Group, 0)
	for rows.Next() {
		var g domain.Group
		if err = rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan group: %w", err)
		}
		g.Contacts = []domain.Contact{}
		groups = append(groups, g)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	if len(groups) == 0 {
		return groups, nil
	}

	members, err := r.membersByGroup(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if m, ok := members[groups[i].ID]; ok {
			groups[i].Contacts = m
		}
	}
	return groups, nil
}

// GetByID returns a group owned by userID with its members.
func (r *GroupRepository) GetByID(ctx context.Context, userID, id string) (_ *domain.Group, err error) {
	query := `SELECT ` + groupColumns + ` FROM contact_groups WHERE id = $1 AND user_id = $2`

	ctx, end := database.TraceQuery(ctx, "GetGroup", query)
	defer func() { end(err) }()

	var g domain.Group
	err = r.db.QueryRow(ctx, query, id, userID).Scan(&g.ID, &g.UserID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("group", id)
		}
		return nil, fmt.Errorf("get group: %w", err)
	}

	g.Contacts, err = r.members(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Update replaces name and description and, when upd.ContactIDs is non-nil,
// the membership set.
func (r *GroupRepository) Update(ctx context.Context, userID, id string, upd domain.GroupUpdate) (err error) {
	query := `
		UPDATE contact_groups
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5`

	ctx, end := database.TraceQuery(ctx, "UpdateGroup", query)
	defer func() { end(err) }()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := r.now()
	ct, err := tx.Exec(ctx, query, upd.Name, upd.Description, now, id, userID)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("group", id)
	}

	if upd.ContactIDs != nil {
		if _, err = tx.Exec(ctx, `DELETE FROM group_contacts WHERE group_id = $1`, id); err != nil {
			return fmt.Errorf("clear group members: %w", err)
		}
		if len(upd.ContactIDs) > 0 {
			if err = insertMembers(ctx, tx, userID, id, upd.ContactIDs, now); err != nil {
				return err
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Delete removes a group owned by userID. Membership rows cascade.
func (r *GroupRepository) Delete(ctx context.Context, userID, id string) (err error) {
	query := `DELETE FROM contact_groups WHERE id = $1 AND user_id = $2`

	ctx, end := database.TraceQuery(ctx, "DeleteGroup", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("group", id)
	}
	return nil
}

// AddContacts adds the user's contacts to the group. Existing members and
// ids that are not the user's contacts are skipped.
func (r *GroupRepository) AddContacts(ctx context.Context, userID, groupID string, contactIDs []string) (err error) {
	ctx, end := database.TraceQuery(ctx, "AddGroupContacts", insertMembersQuery)
	defer func() { end(err) }()

	if err = r.ensureOwned(ctx, userID, groupID); err != nil {
		return err
	}
	return insertMembers(ctx, r.db, userID, groupID, contactIDs, r.now())
}

// RemoveContacts removes the given contacts from the group.
func (r *GroupRepository) RemoveContacts(ctx context.Context, userID, groupID string, contactIDs []string) (err error) {
	query := `DELETE FROM group_contacts WHERE group_id = $1 AND contact_id = ANY($2)`

	ctx, end := database.TraceQuery(ctx, "RemoveGroupContacts", query)
	defer func() { end(err) }()

	if err = r.ensureOwned(ctx, userID, groupID); err != nil {
		return err
	}
	if _, err = r.db.Exec(ctx, query, groupID, contactIDs); err != nil {
		return fmt.Errorf("remove group members: %w", err)
	}
	return nil
}

// ListContacts returns the members of a group owned by userID.
func (r *GroupRepository) ListContacts(ctx context.Context, userID, groupID string) (_ []domain.Contact, err error) {
	ctx, end := database.TraceQuery(ctx, "ListGroupContacts", membersQuery)
	defer func() { end(err) }()

	if err = r.ensureOwned(ctx, userID, groupID); err != nil {
		return nil, err
	}
	return r.members(ctx, userID, groupID)
}

func (r *GroupRepository) ensureOwned(ctx context.Context, userID, groupID string) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM contact_groups WHERE id = $1 AND user_id = $2)`,
		groupID, userID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check group: %w", err)
	}
	if !exists {
		return apperrors.NotFound("group", groupID)
	}
	return nil
}

const membersQuery = `
	SELECT c.id, c.user_id, c.name, c.email, c.created_at, c.updated_at
	FROM group_contacts gc
	JOIN contacts c ON c.id = gc.contact_id
	WHERE gc.group_id = $1 AND c.user_id = $2
	ORDER BY gc.added_at, c.name`

func (r *GroupRepository) members(ctx context.Context, userID, groupID string) ([]domain.Contact, error) {
	rows, err := r.db.Query(ctx, membersQuery, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	defer rows.Close()

	contacts := make([]domain.Contact, 0)
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group members: %w", err)
	}
	return contacts, nil
}

func (r *GroupRepository) membersByGroup(ctx context.Context, userID string) (map[string][]domain.Contact, error) {
	query := `
		SELECT gc.group_id, c.id, c.user_id, c.name, c.email, c.created_at, c.updated_at
		FROM group_contacts gc
		JOIN contacts c ON c.id = gc.contact_id
		WHERE c.user_id = $1
		ORDER BY gc.added_at, c.name`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Contact)
	for rows.Next() {
		var (
			groupID string
			c       domain.Contact
		)
		if err := rows.Scan(&groupID, &c.ID, &c.UserID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out[groupID] = append(out[groupID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return out, nil
}

const insertMembersQuery = `
	INSERT INTO group_contacts (group_id, contact_id, added_at)
	SELECT $1, c.id, $2 FROM contacts c
	WHERE c.user_id = $3 AND c.id = ANY($4)
	ON CONFLICT (group_id, contact_id) DO NOTHING`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertMembers(ctx context.Context, db execer, userID, groupID string, contactIDs []string, at time.Time) error {
	if _, err := db.Exec(ctx, insertMembersQuery, groupID, at, userID, contactIDs); err != nil {
		return fmt.Errorf("insert group members: %w", err)
	}
	return nil
}
