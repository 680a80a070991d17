package models

type Email struct {
	BaseModel
	Address   string `json:"address" validate:"notblank,max=255,email" gorm:"size:255;not null"`
	ContactID uint   `json:"contact_id" gorm:"not null;index"`
}

// ContactEmails returns a contact's emails in insertion order.
func (s *Store) ContactEmails(contactID uint) ([]Email, error) {
	emails := []Email{}
	err := s.db.Scopes(orderByID).Where("contact_id = ?", contactID).Find(&emails).Error
	if err != nil {
		return nil, translateError(err, "emails of contact %v", contactID)
	}

	return emails, nil
}

func (s *Store) AddEmail(contactID uint, email *Email) error {
	if _, err := s.FindContact(contactID); err != nil {
		return err
	}

	email.ContactID = contactID
	return translateError(s.db.Create(email).Error, "add email to contact %v", contactID)
}

func (s *Store) UpdateEmailAddress(id uint, address string) error {
	res := s.db.Model(&Email{}).Where("id = ?", id).Update("address", address)
	if res.Error != nil {
		return translateError(res.Error, "update email %v", id)
	}

	if res.RowsAffected == 0 {
		return translateError(ErrStaleState, "email %v", id)
	}

	return nil
}

// DeleteEmail deletes a email by id, scoped to its contact.
func (s *Store) DeleteEmail(contactID, id uint) error {
	res := s.db.Where("contact_id = ?", contactID).Delete(&Email{}, id)
	if res.Error != nil {
		return translateError(res.Error, "delete email %v", id)
	}

	if res.RowsAffected == 0 {
		return translateError(ErrNotFound, "email %v of contact %v", id, contactID)
	}

	return nil
}

// DeleteEmailAt deletes the email at the zero-based position pos, in the same
// order ContactEmails returns them.
func (s *Store) DeleteEmailAt(contactID uint, pos int) (*Email, error) {
	var deleted *Email

	err := s.Transaction(func(tx *Store) error {
		if _, err := tx.FindContact(contactID); err != nil {
			return err
		}

		emails, err := tx.ContactEmails(contactID)
		if err != nil {
			return err
		}

		if pos < 0 || pos >= len(emails) {
			return translateError(ErrIndexOutOfRange, "email position %v of %v", pos+1, len(emails))
		}

		deleted = &emails[pos]
		return tx.DeleteEmail(contactID, deleted.ID)
	})
	if err != nil {
		return nil, err
	}

	return deleted, nil
}
