package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Base carries the primary key and timestamps shared by every table
type Base struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none was set
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// StringList is a list column stored as text[] on postgres and as array literal text elsewhere
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(value); err != nil {
		return fmt.Errorf("failed to scan string list: %w", err)
	}
	*l = StringList(arr)
	return nil
}

// GormDataType keeps gorm from parsing the slice as a relation
func (StringList) GormDataType() string {
	return "text"
}

// GormDBDataType picks the column type per dialect
func (StringList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// JSONDoc holds a JSON document in a jsonb column
type JSONDoc json.RawMessage

// NewJSONDoc marshals v into a document
func NewJSONDoc(v interface{}) (JSONDoc, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return JSONDoc(data), nil
}

// Decode unmarshals the document into v
func (d JSONDoc) Decode(v interface{}) error {
	if len(d) == 0 {
		return fmt.Errorf("empty document")
	}
	return json.Unmarshal(d, v)
}

// Value implements the driver.Valuer interface
func (d JSONDoc) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "{}", nil
	}
	return string(d), nil
}

// Scan implements the sql.Scanner interface
func (d *JSONDoc) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = nil
	case []byte:
		*d = append(JSONDoc(nil), v...)
	case string:
		*d = JSONDoc(v)
	default:
		return fmt.Errorf("unsupported document type %T", value)
	}
	return nil
}

// MarshalJSON emits the raw document
func (d JSONDoc) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

// UnmarshalJSON stores the raw document
func (d *JSONDoc) UnmarshalJSON(data []byte) error {
	*d = append((*d)[:0], data...)
	return nil
}

// GormDBDataType picks the column type per dialect
func (JSONDoc) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}
