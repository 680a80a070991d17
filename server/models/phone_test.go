package models

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeletePhone(t *testing.T) {
	store := InitializeTestDb()

	happy := &Contact{Name: "happy"}
	rhodey := &Contact{Name: "rhodey"}
	require.Nil(t, store.CreateContact(happy))
	require.Nil(t, store.CreateContact(rhodey))

	phone := &Phone{Number: "+1 555 0100"}
	require.Nil(t, store.AddPhone(happy.ID, phone))

	err := store.DeletePhone(rhodey.ID, phone.ID)
	assert.True(t, errors.Is(err, ErrNotFound), "a phone can only be deleted through its own contact")

	assert.Nil(t, store.DeletePhone(happy.ID, phone.ID))

	_, err = store.DeletePhoneAt(happy.ID, 0)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))

	err = store.AddPhone(happy.ID+100, &Phone{Number: "123"})
	assert.True(t, errors.Is(err, ErrNotFound))
}
