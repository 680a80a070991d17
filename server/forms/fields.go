package forms

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	ContactNameKey = "contact_name"
	GroupNameKey   = "name"
	DescriptionKey = "description"

	groupPrefix = "g_"
	phonePrefix = "tel_"
	emailPrefix = "email_"
	idSuffix    = "_id"

	PhoneLabelPrefix = "Phone"
	EmailLabelPrefix = "Email"

	MaxNameLength        = 50
	MaxDescriptionLength = 280
	MaxPhoneLength       = 14
	MaxEmailLength       = 255
)

var ErrInvalidLabel = errors.New("invalid label")

var labelNumber = regexp.MustCompile(`^[1-9][0-9]*$`)

type FieldKind string

const (
	TextField  FieldKind = "text"
	BoolField  FieldKind = "bool"
	EmailField FieldKind = "email"
)

// Field describes one input of a form & its initial value. RecordID is the id of
// the group, phone or email the field was generated from.
type Field struct {
	Key       string      `json:"key"`
	Label     string      `json:"label"`
	Kind      FieldKind   `json:"kind"`
	MaxLength int         `json:"max_length,omitempty"`
	Initial   interface{} `json:"initial"`
	RecordID  uint        `json:"record_id,omitempty"`
}

type FieldSet []Field

func (fs FieldSet) Get(key string) (Field, bool) {
	for _, field := range fs {
		if field.Key == key {
			return field, true
		}
	}
	return Field{}, false
}

// Values encodes the initial values the way a browser would post them: checked
// boxes are sent as "on", unchecked ones are left out.
func (fs FieldSet) Values() url.Values {
	values := url.Values{}
	for _, field := range fs {
		switch initial := field.Initial.(type) {
		case bool:
			if initial {
				values.Set(field.Key, "on")
			}
		case string:
			values.Set(field.Key, initial)
		}
	}
	return values
}

func GroupKey(name string) string { return groupPrefix + name }
func PhoneKey(pos int) string     { return fmt.Sprintf("%v%d", phonePrefix, pos) }
func EmailKey(pos int) string     { return fmt.Sprintf("%v%d", emailPrefix, pos) }

// PhoneLabel returns the label of the phone at zero-based position pos
func PhoneLabel(pos int) string { return fmt.Sprintf("%v %d", PhoneLabelPrefix, pos+1) }

// EmailLabel returns the label of the email at zero-based position pos
func EmailLabel(pos int) string { return fmt.Sprintf("%v %d", EmailLabelPrefix, pos+1) }

// ParseLabel turns a label such as "Phone 2" into the zero-based position 1.
// Positions are written without sign or leading zeros; anything else fails
// with ErrInvalidLabel.
func ParseLabel(label, prefix string) (int, error) {
	number := strings.TrimPrefix(label, prefix+" ")
	if number == label || !labelNumber.MatchString(number) {
		return 0, errors.Wrapf(ErrInvalidLabel, "%q is not a %v label", label, prefix)
	}

	n, err := strconv.Atoi(number)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidLabel, "%q is not a %v label", label, prefix)
	}

	return n - 1, nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

// childValues collects the 'tel_<i>' (or 'email_<i>') values & their optional
// 'tel_<i>_id' ids, ordered by i.
func childValues(values url.Values, prefix string) ([]ChildValue, error) {
	byPos := map[int]*ChildValue{}

	for key := range values {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		rest := strings.TrimPrefix(key, prefix)
		isID := strings.HasSuffix(rest, idSuffix)
		rest = strings.TrimSuffix(rest, idSuffix)

		pos, err := strconv.Atoi(rest)
		if err != nil || pos < 0 {
			return nil, fmt.Errorf("unknown field %q", key)
		}

		if byPos[pos] == nil {
			byPos[pos] = &ChildValue{}
		}

		if !isID {
			byPos[pos].Value = values.Get(key)
			continue
		}

		id, err := strconv.ParseUint(values.Get(key), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("field %q must be a record id", key)
		}
		byPos[pos].ID = uint(id)
	}

	positions := []int{}
	for pos := range byPos {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	children := []ChildValue{}
	for _, pos := range positions {
		children = append(children, *byPos[pos])
	}

	return children, nil
}

func isChecked(value string) bool {
	switch strings.ToLower(value) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
