package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaibhavguptahere/smacad-test/internal/apperr"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
)

func TestContactService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	submitted := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	env.contacts.now = func() time.Time { return submitted }

	contact, err := env.contacts.Submit(ctx, "A", "a@x.com", "hi")
	require.NoError(t, err)
	assert.Equal(t, model.ContactStatusUnread, contact.Status)

	env.contacts.now = func() time.Time { return submitted.Add(time.Hour) }
	updated, err := env.contacts.UpdateStatus(ctx, contact.ID, model.ContactStatusRead)
	require.NoError(t, err)
	assert.Equal(t, model.ContactStatusRead, updated.Status)
	assert.True(t, updated.UpdatedAt.After(contact.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(contact.CreatedAt))

	contacts, err := env.contacts.List(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.True(t, contacts[0].IsRead())

	require.NoError(t, env.contacts.Delete(ctx, contact.ID))
	err = env.contacts.Delete(ctx, contact.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestContactService_SubmitRequiresAllFields(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.contacts.Submit(context.Background(), "A", " ", "")
	require.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, []string{"email", "message"}, apperr.FieldsOf(err))

	// Email is free text.
	_, err = env.contacts.Submit(context.Background(), "A", "call me maybe", "hi")
	assert.NoError(t, err)
}

func TestContactService_BogusStatusLeavesContactUnchanged(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	contact, err := env.contacts.Submit(ctx, "A", "a@x.com", "hi")
	require.NoError(t, err)

	_, err = env.contacts.UpdateStatus(ctx, contact.ID, "bogus")
	require.True(t, apperr.Is(err, apperr.KindValidation))

	contacts, err := env.contacts.List(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, model.ContactStatusUnread, contacts[0].Status)
}

func TestContactService_UpdateMissing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.contacts.UpdateStatus(context.Background(), "missing", model.ContactStatusRead)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
