package registration

import "strings"

// Field names one of the four inputs rendered by the sign-up form. The set is
// closed; ParseField rejects anything else.
type Field string

const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldEmail     Field = "email"
	FieldPassword  Field = "password"
)

var fieldOrder = [...]Field{FieldFirstName, FieldLastName, FieldEmail, FieldPassword}

// Fields returns the known fields in display order.
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder[:])
	return out
}

// ParseField resolves a raw input name into a Field. Surrounding whitespace is
// ignored; matching is case-sensitive to mirror the HTML name attributes.
func ParseField(name string) (Field, bool) {
	candidate := Field(strings.TrimSpace(name))
	for _, field := range fieldOrder {
		if field == candidate {
			return field, true
		}
	}
	return "", false
}

// Valid reports whether f is one of the known fields.
func (f Field) Valid() bool {
	_, ok := ParseField(string(f))
	return ok
}

func (f Field) String() string {
	return string(f)
}

// FormValues carries the raw text of every input. The zero value is the empty
// form.
type FormValues struct {
	FirstName string `json:"firstName" form:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" form:"lastName" yaml:"lastName"`
	Email     string `json:"email" form:"email" yaml:"email"`
	Password  string `json:"password" form:"password" yaml:"password"`
}

// Get returns the value held for field. Unknown fields read as empty.
func (v FormValues) Get(field Field) string {
	switch field {
	case FieldFirstName:
		return v.FirstName
	case FieldLastName:
		return v.LastName
	case FieldEmail:
		return v.Email
	case FieldPassword:
		return v.Password
	default:
		return ""
	}
}

// Set overwrites a single field and reports whether the field was known. The
// value is stored verbatim; no trimming or validation happens here.
func (v *FormValues) Set(field Field, value string) bool {
	switch field {
	case FieldFirstName:
		v.FirstName = value
	case FieldLastName:
		v.LastName = value
	case FieldEmail:
		v.Email = value
	case FieldPassword:
		v.Password = value
	default:
		return false
	}
	return true
}

// IsZero reports whether every field is the empty string.
func (v FormValues) IsZero() bool {
	return v == FormValues{}
}

// Redacted returns a copy with the password blanked, for echoing values back
// over APIs and logs.
func (v FormValues) Redacted() FormValues {
	v.Password = ""
	return v
}
