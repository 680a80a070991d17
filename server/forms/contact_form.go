package forms

import (
	"github.com/Daskott/rolodex/server/models"
)

// ContactForm is the edit form of a contact: one field for its name, one
// checkbox per group in the system & one field per phone and email it has.
type ContactForm struct {
	Contact *models.Contact `json:"contact"`
	Fields  FieldSet        `json:"fields"`
}

// BuildContactForm reads the current state of a contact and turns it into a
// pre-filled form. It fails with models.ErrNotFound if the contact doesn't exist.
func BuildContactForm(store *models.Store, contactID uint) (*ContactForm, error) {
	contact, err := store.FindContact(contactID)
	if err != nil {
		return nil, err
	}

	groups, err := store.ListGroups()
	if err != nil {
		return nil, err
	}

	contactGroups, err := store.ContactGroups(contactID)
	if err != nil {
		return nil, err
	}

	isMember := map[uint]bool{}
	for _, group := range contactGroups {
		isMember[group.ID] = true
	}
	contact.Groups = contactGroups

	fields := FieldSet{{
		Key:       ContactNameKey,
		Label:     "Name",
		Kind:      TextField,
		MaxLength: MaxNameLength,
		Initial:   contact.Name,
	}}

	for _, group := range groups {
		fields = append(fields, Field{
			Key:      GroupKey(group.Name),
			Label:    group.Name,
			Kind:     BoolField,
			Initial:  isMember[group.ID],
			RecordID: group.ID,
		})
	}

	// Phones & emails are already in insertion order, the same order
	// labels are resolved in when one is deleted
	for i, phone := range contact.Phones {
		fields = append(fields, Field{
			Key:       PhoneKey(i),
			Label:     PhoneLabel(i),
			Kind:      TextField,
			MaxLength: MaxPhoneLength,
			Initial:   phone.Number,
			RecordID:  phone.ID,
		})
	}

	for i, email := range contact.Emails {
		fields = append(fields, Field{
			Key:       EmailKey(i),
			Label:     EmailLabel(i),
			Kind:      EmailField,
			MaxLength: MaxEmailLength,
			Initial:   email.Address,
			RecordID:  email.ID,
		})
	}

	return &ContactForm{Contact: contact, Fields: fields}, nil
}
