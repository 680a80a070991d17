package models

import (
	"gorm.io/gorm/clause"
)

type Group struct {
	BaseModel
	Name        string    `json:"name" validate:"notblank,max=50" gorm:"size:50;not null;unique"`
	Description string    `json:"description" validate:"max=280" gorm:"size:280"`
	Contacts    []Contact `json:"contacts,omitempty" gorm:"many2many:contact_memberships;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (s *Store) FindGroup(id uint) (*Group, error) {
	group := Group{}
	err := s.db.First(&group, id).Error
	if err != nil {
		return nil, translateError(err, "group %v", id)
	}

	return &group, nil
}

func (s *Store) FindGroupByName(name string) (*Group, error) {
	group := Group{}
	err := s.db.Where("name = ?", name).First(&group).Error
	if err != nil {
		return nil, translateError(err, "group %q", name)
	}

	return &group, nil
}

func (s *Store) ListGroups() ([]Group, error) {
	groups := []Group{}
	err := s.db.Scopes(orderByName).Find(&groups).Error
	if err != nil {
		return nil, translateError(err, "list groups")
	}

	return groups, nil
}

func (s *Store) GroupNames() ([]string, error) {
	names := []string{}
	err := s.db.Model(&Group{}).Pluck("name", &names).Error
	if err != nil {
		return nil, translateError(err, "group names")
	}

	return names, nil
}

func (s *Store) CreateGroup(group *Group) error {
	return translateError(s.db.Omit("Contacts").Create(group).Error, "create group %q", group.Name)
}

func (s *Store) UpdateGroup(id uint, name, description string) error {
	res := s.db.Model(&Group{}).Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "description": description})
	if res.Error != nil {
		return translateError(res.Error, "update group %v", id)
	}

	if res.RowsAffected == 0 {
		return translateError(ErrNotFound, "group %v", id)
	}

	return nil
}

// DeleteGroup removes a group & its memberships. Contacts that were in the
// group are kept.
func (s *Store) DeleteGroup(id uint) error {
	err := s.Transaction(func(tx *Store) error {
		if _, err := tx.FindGroup(id); err != nil {
			return err
		}

		if err := tx.db.Where("group_id = ?", id).Delete(&ContactMembership{}).Error; err != nil {
			return err
		}

		return tx.db.Delete(&Group{}, id).Error
	})

	return translateError(err, "delete group %v", id)
}

// ---------------------------------------------------------------------------------//
// Memberships
// --------------------------------------------------------------------------------//

// ContactGroups returns the groups a contact belongs to, ordered by name.
func (s *Store) ContactGroups(contactID uint) ([]Group, error) {
	groups := []Group{}
	err := s.db.Scopes(orderByName).
		Joins("INNER JOIN contact_memberships ON contact_memberships.group_id = `groups`.id AND contact_memberships.contact_id = ?", contactID).
		Find(&groups).Error
	if err != nil {
		return nil, translateError(err, "groups of contact %v", contactID)
	}

	return groups, nil
}

// AddContactToGroup is a no-op when the pair already exists. The returned bool
// reports whether a row was written.
func (s *Store) AddContactToGroup(contactID, groupID uint) (bool, error) {
	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ContactMembership{ContactID: contactID, GroupID: groupID})
	if res.Error != nil {
		return false, translateError(res.Error, "add contact %v to group %v", contactID, groupID)
	}

	return res.RowsAffected > 0, nil
}

// RemoveContactFromGroup is a no-op when the pair doesn't exist. The returned
// bool reports whether a row was deleted.
func (s *Store) RemoveContactFromGroup(contactID, groupID uint) (bool, error) {
	res := s.db.Where("contact_id = ? AND group_id = ?", contactID, groupID).Delete(&ContactMembership{})
	if res.Error != nil {
		return false, translateError(res.Error, "remove contact %v from group %v", contactID, groupID)
	}

	return res.RowsAffected > 0, nil
}
