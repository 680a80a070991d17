package forms

import (
	"testing"

	"github.com/Daskott/rolodex/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *models.Store
	validator *Validator
	contact   *models.Contact
	groups    map[string]*models.Group
}

// newFixture creates groups A, B & C and a contact 'tony' in A & B with
// phones ["111", "222"] and one email.
func newFixture(t *testing.T) *fixture {
	store := models.InitializeTestDb()
	v, err := NewValidator()
	require.Nil(t, err)

	f := &fixture{store: store, validator: v, groups: map[string]*models.Group{}}
	for _, name := range []string{"A", "B", "C"} {
		group := &models.Group{Name: name}
		require.Nil(t, store.CreateGroup(group))
		f.groups[name] = group
	}

	f.contact = &models.Contact{Name: "tony"}
	require.Nil(t, store.CreateContact(f.contact))
	require.Nil(t, store.AddPhone(f.contact.ID, &models.Phone{Number: "111"}))
	require.Nil(t, store.AddPhone(f.contact.ID, &models.Phone{Number: "222"}))
	require.Nil(t, store.AddEmail(f.contact.ID, &models.Email{Address: "tony@stark.com"}))

	for _, name := range []string{"A", "B"} {
		_, err := store.AddContactToGroup(f.contact.ID, f.groups[name].ID)
		require.Nil(t, err)
	}

	return f
}

func (f *fixture) phoneNumbers(t *testing.T) []string {
	phones, err := f.store.ContactPhones(f.contact.ID)
	require.Nil(t, err)

	numbers := []string{}
	for _, phone := range phones {
		numbers = append(numbers, phone.Number)
	}
	return numbers
}

func (f *fixture) groupNames(t *testing.T) []string {
	groups, err := f.store.ContactGroups(f.contact.ID)
	require.Nil(t, err)

	names := []string{}
	for _, group := range groups {
		names = append(names, group.Name)
	}
	return names
}

func TestSaveContactReconcilesGroups(t *testing.T) {
	f := newFixture(t)

	form, err := BuildContactForm(f.store, f.contact.ID)
	require.Nil(t, err)

	sub := form.Fields.Submission()
	sub.GroupIDs = []uint{f.groups["C"].ID}

	result, err := SaveContact(f.store, f.validator, f.contact.ID, sub)
	require.Nil(t, err)
	assert.Equal(t, []uint{f.groups["C"].ID}, result.GroupsAdded)
	assert.ElementsMatch(t, []uint{f.groups["A"].ID, f.groups["B"].ID}, result.GroupsRemoved)
	assert.Equal(t, []string{"C"}, f.groupNames(t))

	// Submitting the same selection again should not write anything
	result, err = SaveContact(f.store, f.validator, f.contact.ID, sub)
	require.Nil(t, err)
	assert.Zero(t, result.Writes())
	assert.Equal(t, []string{"C"}, f.groupNames(t))

	// Groups themselves are untouched
	groups, err := f.store.ListGroups()
	require.Nil(t, err)
	assert.Len(t, groups, 3)
}

func TestSaveContactOverwritesPhonesByPosition(t *testing.T) {
	f := newFixture(t)

	form, err := BuildContactForm(f.store, f.contact.ID)
	require.Nil(t, err)

	values := form.Fields.Values()
	values.Set(PhoneKey(0), "333")

	sub, err := ParseFieldSet(values)
	require.Nil(t, err)

	result, err := SaveContact(f.store, f.validator, f.contact.ID, sub)
	require.Nil(t, err)
	assert.Equal(t, 1, result.PhonesUpdated)
	assert.Equal(t, 1, result.Writes())
	assert.Equal(t, []string{"333", "222"}, f.phoneNumbers(t))
	assert.Equal(t, []string{"A", "B"}, f.groupNames(t))
}

func TestSaveContactMatchesPhonesByID(t *testing.T) {
	f := newFixture(t)

	phones, err := f.store.ContactPhones(f.contact.ID)
	require.Nil(t, err)

	sub := &Submission{
		Name: "tony",
		// Submitted in reverse order, ids decide which record gets which value
		Phones:   []ChildValue{{ID: phones[1].ID, Value: "999"}, {ID: phones[0].ID, Value: "111"}},
		Emails:   []ChildValue{{Value: "tony@stark.com"}},
		GroupIDs: []uint{f.groups["A"].ID, f.groups["B"].ID},
	}

	result, err := SaveContact(f.store, f.validator, f.contact.ID, sub)
	require.Nil(t, err)
	assert.Equal(t, 1, result.PhonesUpdated)
	assert.Equal(t, []string{"111", "999"}, f.phoneNumbers(t))
}

func TestSaveContactStaleState(t *testing.T) {
	f := newFixture(t)

	form, err := BuildContactForm(f.store, f.contact.ID)
	require.Nil(t, err)

	phones, err := f.store.ContactPhones(f.contact.ID)
	require.Nil(t, err)

	cases := []struct {
		description string
		update      func(sub *Submission)
	}{
		{
			description: "Should fail when fewer phones are submitted than stored",
			update:      func(sub *Submission) { sub.Phones = sub.Phones[:1] },
		},
		{
			description: "Should fail when a phone id belongs to no stored phone",
			update:      func(sub *Submission) { sub.Phones[0].ID = phones[1].ID + 100 },
		},
		{
			description: "Should fail when the same phone id is submitted twice",
			update:      func(sub *Submission) { sub.Phones[0].ID = sub.Phones[1].ID },
		},
		{
			description: "Should fail when only some phones carry an id",
			update:      func(sub *Submission) { sub.Phones[0].ID = 0 },
		},
		{
			description: "Should fail when a selected group no longer exists",
			update:      func(sub *Submission) { sub.GroupIDs = append(sub.GroupIDs, 1000) },
		},
	}

	for _, c := range cases {
		sub := form.Fields.Submission()
		sub.Name = "iron man"
		c.update(sub)

		_, err := SaveContact(f.store, f.validator, f.contact.ID, sub)
		assert.True(t, errors.Is(err, models.ErrStaleState), "%v: got %v", c.description, err)

		// Nothing, not even the name change, should have been stored
		contact, err := f.store.FindContact(f.contact.ID)
		require.Nil(t, err)
		assert.Equal(t, "tony", contact.Name, c.description)
	}

	assert.Equal(t, []string{"111", "222"}, f.phoneNumbers(t))
}

func TestSaveContactNameUniqueness(t *testing.T) {
	f := newFixture(t)
	require.Nil(t, f.store.CreateContact(&models.Contact{Name: "bruce"}))

	form, err := BuildContactForm(f.store, f.contact.ID)
	require.Nil(t, err)

	sub := form.Fields.Submission()
	sub.Name = "bruce"
	_, err = SaveContact(f.store, f.validator, f.contact.ID, sub)
	require.True(t, errors.Is(err, models.ErrDuplicateName), "expected ErrDuplicateName, got %v", err)

	var validationErrs ValidationErrors
	require.True(t, errors.As(err, &validationErrs))
	assert.Equal(t, "the chosen name is already in use", validationErrs.Messages()[ContactNameKey])

	// Keeping its own name is fine
	sub.Name = "tony"
	_, err = SaveContact(f.store, f.validator, f.contact.ID, sub)
	assert.Nil(t, err)

	// Names are compared case-sensitively
	sub.Name = "Bruce"
	_, err = SaveContact(f.store, f.validator, f.contact.ID, sub)
	assert.Nil(t, err)
}

func TestSaveContactValidatesFields(t *testing.T) {
	f := newFixture(t)

	form, err := BuildContactForm(f.store, f.contact.ID)
	require.Nil(t, err)

	sub := form.Fields.Submission()
	sub.Emails[0].Value = "not-an-email"
	sub.Phones[1].Value = "123456789012345"

	_, err = SaveContact(f.store, f.validator, f.contact.ID, sub)
	require.True(t, errors.Is(err, ErrInvalidFormat), "expected ErrInvalidFormat, got %v", err)
	assert.True(t, errors.Is(err, ErrTooLong))

	var validationErrs ValidationErrors
	require.True(t, errors.As(err, &validationErrs))
	assert.Equal(t, map[string]string{
		EmailKey(0): "enter a valid email address",
		PhoneKey(1): "ensure this value has at most 14 characters",
	}, validationErrs.Messages())
}

func TestSaveContactNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := SaveContact(f.store, f.validator, f.contact.ID+100, &Submission{Name: "ghost"})
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestUnchangedSubmissionRoundTrip(t *testing.T) {
	f := newFixture(t)

	before, err := BuildContactForm(f.store, f.contact.ID)
	require.Nil(t, err)

	// Once as posted by a browser (positional) & once with record ids
	positional, err := ParseFieldSet(before.Fields.Values())
	require.Nil(t, err)

	for _, sub := range []*Submission{positional, before.Fields.Submission()} {
		result, err := SaveContact(f.store, f.validator, f.contact.ID, sub)
		require.Nil(t, err)
		assert.Zero(t, result.Writes())

		after, err := BuildContactForm(f.store, f.contact.ID)
		require.Nil(t, err)
		if diff := cmp.Diff(before.Fields, after.Fields); diff != "" {
			t.Errorf("field set changed after an unchanged submission (-before +after):\n%s", diff)
		}
	}
}
