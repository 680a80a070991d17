package forms

import (
	"net/url"
	"sort"
	"strings"
)

// ChildValue is a submitted phone number or email address. ID is the record the
// value belongs to; it is zero when the client only knows the field's position.
type ChildValue struct {
	ID    uint   `json:"id,omitempty"`
	Value string `json:"value"`
}

// Submission is the cleaned content of an edit-contact form.
type Submission struct {
	Name     string       `json:"name"`
	Phones   []ChildValue `json:"phones"`
	Emails   []ChildValue `json:"emails"`
	GroupIDs []uint       `json:"group_ids"`

	// GroupNames holds groups selected through 'g_<name>' form keys
	GroupNames []string `json:"-"`
}

// GroupSubmission is the content of a create/edit group form.
type GroupSubmission struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ParseFieldSet builds a Submission out of url-encoded form keys, as produced
// by FieldSet.Values. Fields are partitioned by key prefix: 'tel_' phones,
// 'email_' emails & 'g_' group checkboxes. Unknown keys are ignored.
func ParseFieldSet(values url.Values) (*Submission, error) {
	phones, err := childValues(values, phonePrefix)
	if err != nil {
		return nil, err
	}

	emails, err := childValues(values, emailPrefix)
	if err != nil {
		return nil, err
	}

	groupNames := []string{}
	for key := range values {
		if strings.HasPrefix(key, groupPrefix) && isChecked(values.Get(key)) {
			groupNames = append(groupNames, strings.TrimPrefix(key, groupPrefix))
		}
	}
	sort.Strings(groupNames)

	return &Submission{
		Name:       values.Get(ContactNameKey),
		Phones:     phones,
		Emails:     emails,
		GroupNames: groupNames,
	}, nil
}

func ParseGroupValues(values url.Values) *GroupSubmission {
	return &GroupSubmission{
		Name:        values.Get(GroupNameKey),
		Description: values.Get(DescriptionKey),
	}
}

// Submission returns what submitting the form unchanged would send, with every
// phone & email carrying its record id.
func (fs FieldSet) Submission() *Submission {
	sub := &Submission{Phones: []ChildValue{}, Emails: []ChildValue{}, GroupIDs: []uint{}}

	for _, field := range fs {
		switch {
		case field.Key == ContactNameKey:
			sub.Name, _ = field.Initial.(string)
		case strings.HasPrefix(field.Key, phonePrefix):
			value, _ := field.Initial.(string)
			sub.Phones = append(sub.Phones, ChildValue{ID: field.RecordID, Value: value})
		case strings.HasPrefix(field.Key, emailPrefix):
			value, _ := field.Initial.(string)
			sub.Emails = append(sub.Emails, ChildValue{ID: field.RecordID, Value: value})
		case strings.HasPrefix(field.Key, groupPrefix):
			if checked, _ := field.Initial.(bool); checked {
				sub.GroupIDs = append(sub.GroupIDs, field.RecordID)
			}
		}
	}

	return sub
}
