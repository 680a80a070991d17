package models

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteEmailAt(t *testing.T) {
	store := InitializeTestDb()

	contact := &Contact{Name: "pepper"}
	require.Nil(t, store.CreateContact(contact))
	require.Nil(t, store.AddEmail(contact.ID, &Email{Address: "pepper@stark.com"}))
	require.Nil(t, store.AddEmail(contact.ID, &Email{Address: "ceo@stark.com"}))

	_, err := store.DeleteEmailAt(contact.ID, 2)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange), "expected ErrIndexOutOfRange, got %v", err)

	deleted, err := store.DeleteEmailAt(contact.ID, 1)
	require.Nil(t, err)
	assert.Equal(t, "ceo@stark.com", deleted.Address)

	emails, err := store.ContactEmails(contact.ID)
	require.Nil(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "pepper@stark.com", emails[0].Address)
}
