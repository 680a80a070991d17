package models

type Phone struct {
	BaseModel
	Number    string `json:"number" validate:"notblank,max=14" gorm:"size:14;not null"`
	ContactID uint   `json:"contact_id" gorm:"not null;index"`
}

// ContactPhones returns a contact's phones in insertion order.
func (s *Store) ContactPhones(contactID uint) ([]Phone, error) {
	phones := []Phone{}
	err := s.db.Scopes(orderByID).Where("contact_id = ?", contactID).Find(&phones).Error
	if err != nil {
		return nil, translateError(err, "phones of contact %v", contactID)
	}

	return phones, nil
}

func (s *Store) AddPhone(contactID uint, phone *Phone) error {
	if _, err := s.FindContact(contactID); err != nil {
		return err
	}

	phone.ContactID = contactID
	return translateError(s.db.Create(phone).Error, "add phone to contact %v", contactID)
}

func (s *Store) UpdatePhoneNumber(id uint, number string) error {
	res := s.db.Model(&Phone{}).Where("id = ?", id).Update("number", number)
	if res.Error != nil {
		return translateError(res.Error, "update phone %v", id)
	}

	if res.RowsAffected == 0 {
		return translateError(ErrStaleState, "phone %v", id)
	}

	return nil
}

// DeletePhone deletes a phone by id, scoped to its contact.
func (s *Store) DeletePhone(contactID, id uint) error {
	res := s.db.Where("contact_id = ?", contactID).Delete(&Phone{}, id)
	if res.Error != nil {
		return translateError(res.Error, "delete phone %v", id)
	}

	if res.RowsAffected == 0 {
		return translateError(ErrNotFound, "phone %v of contact %v", id, contactID)
	}

	return nil
}

// DeletePhoneAt deletes the phone at the zero-based position pos, in the same
// order ContactPhones returns them.
func (s *Store) DeletePhoneAt(contactID uint, pos int) (*Phone, error) {
	var deleted *Phone

	err := s.Transaction(func(tx *Store) error {
		if _, err := tx.FindContact(contactID); err != nil {
			return err
		}

		phones, err := tx.ContactPhones(contactID)
		if err != nil {
			return err
		}

		if pos < 0 || pos >= len(phones) {
			return translateError(ErrIndexOutOfRange, "phone position %v of %v", pos+1, len(phones))
		}

		deleted = &phones[pos]
		return tx.DeletePhone(contactID, deleted.ID)
	})
	if err != nil {
		return nil, err
	}

	return deleted, nil
}
