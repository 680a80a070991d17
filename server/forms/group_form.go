package forms

import (
	"github.com/Daskott/rolodex/server/models"
)

type GroupForm struct {
	Group  *models.Group `json:"group"`
	Fields FieldSet      `json:"fields"`
}

func BuildGroupForm(store *models.Store, groupID uint) (*GroupForm, error) {
	group, err := store.FindGroup(groupID)
	if err != nil {
		return nil, err
	}

	return &GroupForm{
		Group: group,
		Fields: FieldSet{
			{Key: GroupNameKey, Label: "Name", Kind: TextField, MaxLength: MaxNameLength, Initial: group.Name},
			{Key: DescriptionKey, Label: "Description", Kind: TextField, MaxLength: MaxDescriptionLength, Initial: group.Description},
		},
	}, nil
}

// CreateGroup validates & stores a new group. Its name must not be used by any
// existing group.
func CreateGroup(store *models.Store, v *Validator, sub *GroupSubmission) (*models.Group, error) {
	group := &models.Group{Name: sub.Name, Description: sub.Description}

	err := store.Transaction(func(tx *models.Store) error {
		if err := v.GroupSubmission(sub); err != nil {
			return err
		}

		names, err := tx.GroupNames()
		if err != nil {
			return err
		}

		if err = CheckUniqueName(names, "", sub.Name); err != nil {
			return duplicateName(GroupNameKey)
		}

		return tx.CreateGroup(group)
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}

// SaveGroup renames/re-describes a group. The group may keep its own name but
// not take one used by another group.
func SaveGroup(store *models.Store, v *Validator, groupID uint, sub *GroupSubmission) (*models.Group, error) {
	var group *models.Group

	err := store.Transaction(func(tx *models.Store) error {
		var err error
		group, err = tx.FindGroup(groupID)
		if err != nil {
			return err
		}

		if err = v.GroupSubmission(sub); err != nil {
			return err
		}

		names, err := tx.GroupNames()
		if err != nil {
			return err
		}

		if err = CheckUniqueName(names, group.Name, sub.Name); err != nil {
			return duplicateName(GroupNameKey)
		}

		if err = tx.UpdateGroup(groupID, sub.Name, sub.Description); err != nil {
			return err
		}

		group.Name, group.Description = sub.Name, sub.Description
		return nil
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}
