package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/mailer/internal/domain"
	apperrors "github.com/utafrali/mailer/pkg/errors"
)

// ============================================================================
// Contacts
// ============================================================================

func TestContacts_Create(t *testing.T) {
	env := newTestEnv(t)
	env.contacts.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Contact) bool {
		return c.UserID == testUserID && c.Email == "grace@example.com"
	})).Return(nil)

	rec := env.do(t, http.MethodPost, "/api/contacts", ContactRequest{Name: "Grace", Email: "grace@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var got domain.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Grace", got.Name)
}

func TestContacts_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/contacts", ContactRequest{Name: "Grace", Email: "grace"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
	env.contacts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestContacts_List(t *testing.T) {
	env := newTestEnv(t)
	env.contacts.On("ListByUser", mock.Anything, testUserID).Return([]domain.Contact{{ID: testContactID, Name: "Grace"}}, nil)

	rec := env.do(t, http.MethodGet, "/api/contacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestContacts_UpdateBothRoutes(t *testing.T) {
	for _, route := range []struct{ method, path string }{
		{http.MethodPut, "/api/contacts/" + testContactID},
		{http.MethodPost, "/api/update-contact/" + testContactID},
	} {
		t.Run(route.method, func(t *testing.T) {
			env := newTestEnv(t)
			env.contacts.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Contact) bool {
				return c.ID == testContactID && c.UserID == testUserID
			})).Return(nil)

			rec := env.do(t, route.method, route.path, ContactRequest{Name: "Grace H.", Email: "grace@example.com"})

			assert.Equal(t, http.StatusOK, rec.Code)
			env.contacts.AssertExpectations(t)
		})
	}
}

func TestContacts_ForeignContactIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.contacts.On("Delete", mock.Anything, testUserID, testContactID).Return(apperrors.NotFound("contact", testContactID))

	rec := env.do(t, http.MethodDelete, "/api/contacts/"+testContactID, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
}

func TestContacts_Delete(t *testing.T) {
	env := newTestEnv(t)
	env.contacts.On("Delete", mock.Anything, testUserID, testContactID).Return(nil)

	rec := env.do(t, http.MethodDelete, "/api/contacts/"+testContactID, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Contact deleted successfully", decodeMessage(t, rec))
}

func TestContacts_InvalidID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/api/contacts/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PARAMETER", decodeError(t, rec).Code)
}

// ============================================================================
// Groups
// ============================================================================

func TestGroups_Create(t *testing.T) {
	env := newTestEnv(t)
	env.groups.On("Create", mock.Anything, mock.AnythingOfType("*domain.Group")).Return(nil)

	rec := env.do(t, http.MethodPost, "/api/groups", CreateGroupRequest{Name: "Team"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []any{}, body["contacts"])
}

func TestGroups_CreateRequiresName(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/groups", CreateGroupRequest{Description: "no name"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env.groups.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGroups_Get(t *testing.T) {
	env := newTestEnv(t)
	env.groups.On("GetByID", mock.Anything, testUserID, testGroupID).Return(&domain.Group{
		ID: testGroupID, Name: "Team", Contacts: []domain.Contact{{ID: testContactID}},
	}, nil)

	rec := env.do(t, http.MethodGet, "/api/groups/"+testGroupID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Group
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Contacts, 1)
}

func TestGroups_UpdateReplacesMembership(t *testing.T) {
	env := newTestEnv(t)
	ids := []string{testContactID, testContactID2}
	env.contacts.On("CountOwned", mock.Anything, testUserID, ids).Return(2, nil)
	env.groups.On("Update", mock.Anything, testUserID, testGroupID, domain.GroupUpdate{Name: "Team", ContactIDs: ids}).Return(nil)

	rec := env.do(t, http.MethodPut, "/api/groups/"+testGroupID, UpdateGroupRequest{Name: "Team", ContactIDs: ids})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Group updated successfully", decodeMessage(t, rec))
	env.groups.AssertExpectations(t)
}

func TestGroups_UpdateWithoutContactIDsKeepsMembership(t *testing.T) {
	env := newTestEnv(t)
	env.groups.On("Update", mock.Anything, testUserID, testGroupID, domain.GroupUpdate{Name: "Renamed"}).Return(nil)

	rec := env.do(t, http.MethodPut, "/api/groups/"+testGroupID, map[string]string{"name": "Renamed"})

	assert.Equal(t, http.StatusOK, rec.Code)
	env.contacts.AssertNotCalled(t, "CountOwned", mock.Anything, mock.Anything, mock.Anything)
}

func TestGroups_AddForeignContact(t *testing.T) {
	env := newTestEnv(t)
	ids := []string{testContactID}
	env.contacts.On("CountOwned", mock.Anything, testUserID, ids).Return(0, nil)

	rec := env.do(t, http.MethodPost, "/api/groups/"+testGroupID+"/contacts", GroupContactsRequest{ContactIDs: ids})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env.groups.AssertNotCalled(t, "AddContacts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGroups_AddContacts(t *testing.T) {
	env := newTestEnv(t)
	ids := []string{testContactID}
	env.contacts.On("CountOwned", mock.Anything, testUserID, ids).Return(1, nil)
	env.groups.On("AddContacts", mock.Anything, testUserID, testGroupID, ids).Return(nil)

	rec := env.do(t, http.MethodPost, "/api/groups/"+testGroupID+"/contacts", GroupContactsRequest{ContactIDs: ids})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Contacts added successfully", decodeMessage(t, rec))
}

func TestGroups_AddContactsEmptyList(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/groups/"+testGroupID+"/contacts", GroupContactsRequest{ContactIDs: []string{}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or empty contact list", decodeError(t, rec).Message)
}

func TestGroups_RemoveAndListContacts(t *testing.T) {
	env := newTestEnv(t)
	ids := []string{testContactID}
	env.groups.On("RemoveContacts", mock.Anything, testUserID, testGroupID, ids).Return(nil)
	env.groups.On("ListContacts", mock.Anything, testUserID, testGroupID).Return([]domain.Contact{}, nil)

	rec := env.do(t, http.MethodDelete, "/api/groups/"+testGroupID+"/contacts", GroupContactsRequest{ContactIDs: ids})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Contacts removed successfully", decodeMessage(t, rec))

	rec = env.do(t, http.MethodGet, "/api/groups/"+testGroupID+"/contacts", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGroups_Delete(t *testing.T) {
	env := newTestEnv(t)
	env.groups.On("Delete", mock.Anything, testUserID, testGroupID).Return(nil)

	rec := env.do(t, http.MethodDelete, "/api/groups/"+testGroupID, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Group deleted successfully", decodeMessage(t, rec))
}

// ============================================================================
// Templates
// ============================================================================

func TestTemplates_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	env.templates.On("Create", mock.Anything, mock.AnythingOfType("*domain.Template")).Return(nil)
	env.templates.On("ListByUser", mock.Anything, testUserID).Return([]domain.Template{}, nil)

	rec := env.do(t, http.MethodPost, "/api/templates", TemplateRequest{Name: "Welcome", Content: "Hi"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/templates", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestTemplates_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	env.templates.On("Update", mock.Anything, mock.MatchedBy(func(tpl *domain.Template) bool {
		return tpl.ID == testTemplateID && tpl.UserID == testUserID
	})).Return(nil)
	env.templates.On("Delete", mock.Anything, testUserID, testTemplateID).Return(nil)

	rec := env.do(t, http.MethodPut, "/api/templates/"+testTemplateID, TemplateRequest{Name: "Renamed"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/templates/"+testTemplateID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Template deleted successfully", decodeMessage(t, rec))
}
