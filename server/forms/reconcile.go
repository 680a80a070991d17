package forms

import (
	"github.com/Daskott/rolodex/server/models"
	"github.com/pkg/errors"
)

// ReconcileResult lists the writes a submission caused.
type ReconcileResult struct {
	NameChanged   bool   `json:"name_changed"`
	GroupsAdded   []uint `json:"groups_added"`
	GroupsRemoved []uint `json:"groups_removed"`
	PhonesUpdated int    `json:"phones_updated"`
	EmailsUpdated int    `json:"emails_updated"`
}

// Writes is the number of rows the reconciliation changed.
func (r *ReconcileResult) Writes() int {
	writes := len(r.GroupsAdded) + len(r.GroupsRemoved) + r.PhonesUpdated + r.EmailsUpdated
	if r.NameChanged {
		writes++
	}
	return writes
}

type childRecord struct {
	id    uint
	value string
}

// SaveContact validates an edit-contact submission & applies it to the
// contact in a single transaction: either every change is stored or none is.
func SaveContact(store *models.Store, v *Validator, contactID uint, sub *Submission) (*ReconcileResult, error) {
	var result *ReconcileResult

	err := store.Transaction(func(tx *models.Store) error {
		contact, err := tx.FindContact(contactID)
		if err != nil {
			return err
		}

		if err = v.ContactSubmission(sub); err != nil {
			return err
		}

		names, err := tx.ContactNames()
		if err != nil {
			return err
		}

		if err = CheckUniqueName(names, contact.Name, sub.Name); err != nil {
			return duplicateName(ContactNameKey)
		}

		result, err = Reconcile(tx, contact, sub)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Reconcile writes the difference between a contact's stored state and a
// validated submission. Unchanged values & memberships are not written.
//
// Phones (and emails) that carry record ids are matched by id. Without ids the
// i-th submitted value overwrites the i-th record. Either way, the submission
// must account for exactly the records that exist, otherwise the form was
// rendered from a state that has since changed & ErrStaleState is returned.
func Reconcile(tx *models.Store, contact *models.Contact, sub *Submission) (*ReconcileResult, error) {
	result := &ReconcileResult{GroupsAdded: []uint{}, GroupsRemoved: []uint{}}

	if sub.Name != contact.Name {
		if err := tx.UpdateContactName(contact.ID, sub.Name); err != nil {
			return nil, err
		}
		result.NameChanged = true
	}

	if err := reconcileGroups(tx, contact.ID, sub, result); err != nil {
		return nil, err
	}

	phones, err := tx.ContactPhones(contact.ID)
	if err != nil {
		return nil, err
	}

	phoneRecords := []childRecord{}
	for _, phone := range phones {
		phoneRecords = append(phoneRecords, childRecord{id: phone.ID, value: phone.Number})
	}

	result.PhonesUpdated, err = reconcileChildren("phone", phoneRecords, sub.Phones, tx.UpdatePhoneNumber)
	if err != nil {
		return nil, err
	}

	emails, err := tx.ContactEmails(contact.ID)
	if err != nil {
		return nil, err
	}

	emailRecords := []childRecord{}
	for _, email := range emails {
		emailRecords = append(emailRecords, childRecord{id: email.ID, value: email.Address})
	}

	result.EmailsUpdated, err = reconcileChildren("email", emailRecords, sub.Emails, tx.UpdateEmailAddress)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func reconcileGroups(tx *models.Store, contactID uint, sub *Submission, result *ReconcileResult) error {
	desired := map[uint]bool{}

	for _, id := range sub.GroupIDs {
		group, err := tx.FindGroup(id)
		if err != nil {
			return staleGroup(err)
		}
		desired[group.ID] = true
	}

	for _, name := range sub.GroupNames {
		group, err := tx.FindGroupByName(name)
		if err != nil {
			return staleGroup(err)
		}
		desired[group.ID] = true
	}

	current, err := tx.ContactGroups(contactID)
	if err != nil {
		return err
	}

	isCurrent := map[uint]bool{}
	for _, group := range current {
		isCurrent[group.ID] = true

		if desired[group.ID] {
			continue
		}

		if _, err := tx.RemoveContactFromGroup(contactID, group.ID); err != nil {
			return err
		}
		result.GroupsRemoved = append(result.GroupsRemoved, group.ID)
	}

	// Walk all groups so additions come out in name order
	groups, err := tx.ListGroups()
	if err != nil {
		return err
	}

	for _, group := range groups {
		if !desired[group.ID] || isCurrent[group.ID] {
			continue
		}

		if _, err := tx.AddContactToGroup(contactID, group.ID); err != nil {
			return err
		}
		result.GroupsAdded = append(result.GroupsAdded, group.ID)
	}

	return nil
}

// A selected group that no longer exists was deleted after the form was rendered
func staleGroup(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return errors.Wrap(models.ErrStaleState, err.Error())
	}
	return err
}

func reconcileChildren(kind string, current []childRecord, submitted []ChildValue, update func(id uint, value string) error) (int, error) {
	if len(submitted) != len(current) {
		return 0, errors.Wrapf(models.ErrStaleState,
			"%v count changed: submitted %v, stored %v", kind, len(submitted), len(current))
	}

	withID := 0
	for _, child := range submitted {
		if child.ID != 0 {
			withID++
		}
	}

	var targets []childRecord

	switch withID {
	case 0:
		targets = current
	case len(submitted):
		stored := map[uint]childRecord{}
		for _, record := range current {
			stored[record.id] = record
		}

		for _, child := range submitted {
			record, ok := stored[child.ID]
			if !ok {
				return 0, errors.Wrapf(models.ErrStaleState, "%v %v is not one of the contact's records", kind, child.ID)
			}
			// Each stored record may only be matched once
			delete(stored, child.ID)
			targets = append(targets, record)
		}
	default:
		return 0, errors.Wrapf(models.ErrStaleState, "some %v values are missing a record id", kind)
	}

	updated := 0
	for i, record := range targets {
		if record.value == submitted[i].Value {
			continue
		}

		if err := update(record.id, submitted[i].Value); err != nil {
			return 0, err
		}
		updated++
	}

	return updated, nil
}
