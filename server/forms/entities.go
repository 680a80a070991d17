package forms

import (
	"github.com/Daskott/rolodex/server/models"
)

// CreateContact validates & stores a new contact. Its name must not be used by
// any existing contact.
func CreateContact(store *models.Store, v *Validator, contact *models.Contact) error {
	return store.Transaction(func(tx *models.Store) error {
		if err := v.Struct(contact); err != nil {
			return err
		}

		names, err := tx.ContactNames()
		if err != nil {
			return err
		}

		if err = CheckUniqueName(names, "", contact.Name); err != nil {
			return duplicateName("name")
		}

		return tx.CreateContact(contact)
	})
}

func AddPhone(store *models.Store, v *Validator, contactID uint, phone *models.Phone) error {
	if err := v.Struct(phone); err != nil {
		return err
	}

	return store.AddPhone(contactID, phone)
}

func AddEmail(store *models.Store, v *Validator, contactID uint, email *models.Email) error {
	if err := v.Struct(email); err != nil {
		return err
	}

	return store.AddEmail(contactID, email)
}
