package models

type Contact struct {
	BaseModel
	Name   string  `json:"name" validate:"notblank,max=50" gorm:"size:50;not null;unique"`
	Avatar string  `json:"avatar,omitempty" gorm:"size:255"`
	Phones []Phone `json:"phones,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Emails []Email `json:"emails,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Groups []Group `json:"groups,omitempty" gorm:"many2many:contact_memberships;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ContactMembership is a row of the contact<->group join table. The composite
// primary key rules out duplicate pairs.
type ContactMembership struct {
	ContactID uint `gorm:"primaryKey"`
	GroupID   uint `gorm:"primaryKey"`
}

// FindContact fetches a contact & its phones/emails. Groups are not loaded.
func (s *Store) FindContact(id uint) (*Contact, error) {
	contact := Contact{}
	err := s.db.
		Preload("Phones", orderByID).
		Preload("Emails", orderByID).
		First(&contact, id).Error
	if err != nil {
		return nil, translateError(err, "contact %v", id)
	}

	return &contact, nil
}

// ListContacts returns all contacts ordered by name. A non-empty search only
// keeps contacts whose name contains it (case-sensitive).
func (s *Store) ListContacts(search string) ([]Contact, error) {
	contacts := []Contact{}
	query := s.db.Scopes(orderByName)

	// WARNING: instr IS SQLITE SPECIFIC. It's used over LIKE so the match is
	// case-sensitive & '%', '_' in the search are taken literally
	if search != "" {
		query = query.Where("instr(name, ?) > 0", search)
	}

	err := query.Find(&contacts).Error
	if err != nil {
		return nil, translateError(err, "list contacts")
	}

	return contacts, nil
}

func (s *Store) ListContactsInGroup(groupID uint) ([]Contact, error) {
	if _, err := s.FindGroup(groupID); err != nil {
		return nil, err
	}

	contacts := []Contact{}
	err := s.db.Scopes(orderByName).
		Joins("INNER JOIN contact_memberships ON contact_memberships.contact_id = contacts.id AND contact_memberships.group_id = ?", groupID).
		Find(&contacts).Error
	if err != nil {
		return nil, translateError(err, "list contacts in group %v", groupID)
	}

	return contacts, nil
}

func (s *Store) ContactNames() ([]string, error) {
	names := []string{}
	err := s.db.Model(&Contact{}).Pluck("name", &names).Error
	if err != nil {
		return nil, translateError(err, "contact names")
	}

	return names, nil
}

func (s *Store) CreateContact(contact *Contact) error {
	return translateError(s.db.Omit("Phones", "Emails", "Groups").Create(contact).Error, "create contact %q", contact.Name)
}

func (s *Store) UpdateContactName(id uint, name string) error {
	res := s.db.Model(&Contact{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return translateError(res.Error, "update contact %v", id)
	}

	if res.RowsAffected == 0 {
		return translateError(ErrNotFound, "contact %v", id)
	}

	return nil
}

func (s *Store) UpdateContactAvatar(id uint, avatar string) error {
	return translateError(
		s.db.Model(&Contact{}).Where("id = ?", id).Update("avatar", avatar).Error,
		"update contact %v avatar", id,
	)
}

// DeleteContact removes a contact with its phones, emails & group memberships.
// The groups themselves are untouched.
func (s *Store) DeleteContact(id uint) (*Contact, error) {
	var contact *Contact

	err := s.Transaction(func(tx *Store) error {
		var err error
		contact, err = tx.FindContact(id)
		if err != nil {
			return err
		}

		if err = tx.db.Where("contact_id = ?", id).Delete(&Phone{}).Error; err != nil {
			return err
		}

		if err = tx.db.Where("contact_id = ?", id).Delete(&Email{}).Error; err != nil {
			return err
		}

		if err = tx.db.Where("contact_id = ?", id).Delete(&ContactMembership{}).Error; err != nil {
			return err
		}

		return tx.db.Delete(&Contact{}, id).Error
	})
	if err != nil {
		return nil, translateError(err, "delete contact %v", id)
	}

	return contact, nil
}
