package forms

import (
	"net/url"
	"testing"

	"github.com/Daskott/rolodex/server/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContactForm(t *testing.T) {
	f := newFixture(t)

	form, err := BuildContactForm(f.store, f.contact.ID)
	require.Nil(t, err)

	keys := []string{}
	for _, field := range form.Fields {
		keys = append(keys, field.Key)
	}
	assert.Equal(t, []string{"contact_name", "g_A", "g_B", "g_C", "tel_0", "tel_1", "email_0"}, keys)

	name, _ := form.Fields.Get(ContactNameKey)
	assert.Equal(t, "tony", name.Initial)
	assert.Equal(t, MaxNameLength, name.MaxLength)

	groupC, _ := form.Fields.Get("g_C")
	assert.Equal(t, false, groupC.Initial, "C is not one of the contact's groups")
	assert.Equal(t, f.groups["C"].ID, groupC.RecordID)

	groupA, _ := form.Fields.Get("g_A")
	assert.Equal(t, true, groupA.Initial)

	phone, _ := form.Fields.Get(PhoneKey(1))
	assert.Equal(t, "Phone 2", phone.Label)
	assert.Equal(t, "222", phone.Initial)
	assert.Equal(t, MaxPhoneLength, phone.MaxLength)

	email, _ := form.Fields.Get(EmailKey(0))
	assert.Equal(t, "Email 1", email.Label)
	assert.Equal(t, EmailField, email.Kind)
	assert.Equal(t, MaxEmailLength, email.MaxLength)

	_, err = BuildContactForm(f.store, f.contact.ID+100)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestParseFieldSet(t *testing.T) {
	values := url.Values{
		"contact_name": {"tony"},
		"tel_1":        {"222"},
		"tel_0":        {"111"},
		"tel_0_id":     {"7"},
		"email_0":      {"tony@stark.com"},
		"g_family":     {"on"},
		"g_work":       {"off"},
		"csrf":         {"ignored"},
	}

	sub, err := ParseFieldSet(values)
	require.Nil(t, err)
	assert.Equal(t, "tony", sub.Name)
	assert.Equal(t, []ChildValue{{ID: 7, Value: "111"}, {Value: "222"}}, sub.Phones)
	assert.Equal(t, []ChildValue{{Value: "tony@stark.com"}}, sub.Emails)
	assert.Equal(t, []string{"family"}, sub.GroupNames)

	_, err = ParseFieldSet(url.Values{"tel_x": {"1"}})
	assert.NotNil(t, err)

	_, err = ParseFieldSet(url.Values{"email_0_id": {"abc"}})
	assert.NotNil(t, err)
}

func TestParseLabel(t *testing.T) {
	pos, err := ParseLabel("Email 2", EmailLabelPrefix)
	assert.Nil(t, err)
	assert.Equal(t, 1, pos)

	pos, err = ParseLabel(PhoneLabel(4), PhoneLabelPrefix)
	assert.Nil(t, err)
	assert.Equal(t, 4, pos)

	invalid := []string{
		"Phone 1", "Email", "Email ", "Email two", "email 1",
		"Email 0", "Email -1", "Email +2", "Email 02", "Email 2 ", "Email  2",
		"Email 99999999999999999999",
	}
	for _, label := range invalid {
		_, err = ParseLabel(label, EmailLabelPrefix)
		assert.True(t, errors.Is(err, ErrInvalidLabel), "%q should not parse", label)
	}
}
