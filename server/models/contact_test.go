package models

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContactEnforcesUniqueName(t *testing.T) {
	store := InitializeTestDb()

	err := store.CreateContact(&Contact{Name: "tony stark"})
	require.Nil(t, err)

	// No form validation here, the unique index must still reject it
	err = store.CreateContact(&Contact{Name: "tony stark"})
	assert.True(t, errors.Is(err, ErrDuplicateName), "expected ErrDuplicateName, got %v", err)

	names, err := store.ContactNames()
	assert.Nil(t, err)
	assert.Equal(t, []string{"tony stark"}, names)
}

func TestFindContact(t *testing.T) {
	store := InitializeTestDb()

	contact := &Contact{Name: "peter parker"}
	require.Nil(t, store.CreateContact(contact))
	require.Nil(t, store.AddPhone(contact.ID, &Phone{Number: "111"}))
	require.Nil(t, store.AddPhone(contact.ID, &Phone{Number: "222"}))
	require.Nil(t, store.AddEmail(contact.ID, &Email{Address: "web@avengers.com"}))

	found, err := store.FindContact(contact.ID)
	require.Nil(t, err)
	assert.Equal(t, "peter parker", found.Name)
	require.Len(t, found.Phones, 2)
	assert.Equal(t, "111", found.Phones[0].Number)
	assert.Equal(t, "222", found.Phones[1].Number)
	require.Len(t, found.Emails, 1)

	_, err = store.FindContact(contact.ID + 100)
	assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestListContacts(t *testing.T) {
	store := InitializeTestDb()

	for _, name := range []string{"wanda", "Bruce Banner", "bruce wayne", "natasha"} {
		require.Nil(t, store.CreateContact(&Contact{Name: name}))
	}

	contacts, err := store.ListContacts("")
	require.Nil(t, err)
	assert.Equal(t, []string{"Bruce Banner", "bruce wayne", "natasha", "wanda"}, contactNames(contacts))

	contacts, err = store.ListContacts("bruce")
	require.Nil(t, err)
	assert.Equal(t, []string{"bruce wayne"}, contactNames(contacts), "search should be case-sensitive")

	contacts, err = store.ListContacts("a%")
	require.Nil(t, err)
	assert.Empty(t, contacts, "'%' should be matched literally")
}

func TestDeleteContactCascades(t *testing.T) {
	store := InitializeTestDb()

	group := &Group{Name: "avengers"}
	require.Nil(t, store.CreateGroup(group))

	contact := &Contact{Name: "clint barton"}
	require.Nil(t, store.CreateContact(contact))
	require.Nil(t, store.AddPhone(contact.ID, &Phone{Number: "555"}))
	require.Nil(t, store.AddEmail(contact.ID, &Email{Address: "hawk@avengers.com"}))
	_, err := store.AddContactToGroup(contact.ID, group.ID)
	require.Nil(t, err)

	deleted, err := store.DeleteContact(contact.ID)
	require.Nil(t, err)
	assert.Equal(t, "clint barton", deleted.Name)

	_, err = store.FindContact(contact.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	phones, err := store.ContactPhones(contact.ID)
	assert.Nil(t, err)
	assert.Empty(t, phones, "phones should be deleted with their contact")

	emails, err := store.ContactEmails(contact.ID)
	assert.Nil(t, err)
	assert.Empty(t, emails, "emails should be deleted with their contact")

	var memberships int64
	require.Nil(t, store.DB().Model(&ContactMembership{}).Count(&memberships).Error)
	assert.Zero(t, memberships)

	_, err = store.FindGroup(group.ID)
	assert.Nil(t, err, "groups should survive contact deletion")

	_, err = store.DeleteContact(contact.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdateContactName(t *testing.T) {
	store := InitializeTestDb()

	steve := &Contact{Name: "steve"}
	bucky := &Contact{Name: "bucky"}
	require.Nil(t, store.CreateContact(steve))
	require.Nil(t, store.CreateContact(bucky))

	assert.Nil(t, store.UpdateContactName(steve.ID, "captain"))

	err := store.UpdateContactName(bucky.ID, "captain")
	assert.True(t, errors.Is(err, ErrDuplicateName), "expected ErrDuplicateName, got %v", err)

	err = store.UpdateContactName(bucky.ID+100, "winter soldier")
	assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)
}

func contactNames(contacts []Contact) []string {
	names := []string{}
	for _, contact := range contacts {
		names = append(names, contact.Name)
	}
	return names
}
