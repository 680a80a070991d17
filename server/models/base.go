package models

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateName   = errors.New("the chosen name is already in use")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrStaleState      = errors.New("record has changed since the form was rendered")
)

type BaseModel struct {
	ID        uint      `json:"id,omitempty" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// ---------------------------------------------------------------------------------//
// Scopes
// --------------------------------------------------------------------------------//

func orderByName(db *gorm.DB) *gorm.DB {
	return db.Order("name asc")
}

// Child records are always enumerated in insertion order, which is what
// "Phone 1", "Email 2" etc. refer to.
func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

// translateError maps driver/gorm errors onto the package's sentinel errors.
func translateError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrapf(ErrNotFound, format, args...)
	}

	// WARNING: THIS CHECK IS UNIQE TO SQLITE, REMEMBER TO UPDATE IT IF/WHEN
	// OTHER SQL DATABASES ARE SUPPORTED
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return errors.Wrapf(ErrDuplicateName, format, args...)
	}

	return errors.Wrapf(err, format, args...)
}
