package registration

import "encoding/json"

// Rule identifies which check produced a FieldError.
type Rule string

const (
	RuleRequired   Rule = "required"
	RuleFormat     Rule = "format"
	RuleUniqueness Rule = "uniqueness"
	RuleStrength   Rule = "strength"
)

// Messages shown inline under each input. They are part of the user-visible
// contract and must not change casually.
const (
	MsgFirstNameRequired = "First name is required"
	MsgLastNameRequired  = "Last name is required"
	MsgEmailRequired     = "Email is required"
	MsgEmailFormat       = "Email must be a valid Gmail address"
	MsgEmailRegistered   = "This email is already registered"
	MsgPasswordRequired  = "Password is required"
	MsgPasswordStrength  = "Password must be 8–30 chars and include upper, lower, number & special character"
)

// FieldError is the single validation message recorded for a field.
type FieldError struct {
	Field   Field  `json:"field"`
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Message
}

// FormErrors holds at most one FieldError per known field. A nil slot means
// the field passed the last validation run.
type FormErrors struct {
	FirstName *FieldError
	LastName  *FieldError
	Email     *FieldError
	Password  *FieldError
}

// Get returns the error recorded for field, if any.
func (e FormErrors) Get(field Field) (FieldError, bool) {
	slot := e.slot(field)
	if slot == nil {
		return FieldError{}, false
	}
	return *slot, true
}

// Message returns the message recorded for field or "".
func (e FormErrors) Message(field Field) string {
	if fe, ok := e.Get(field); ok {
		return fe.Message
	}
	return ""
}

// Has reports whether field currently fails validation.
func (e FormErrors) Has(field Field) bool {
	return e.slot(field) != nil
}

// Len counts the failing fields.
func (e FormErrors) Len() int {
	n := 0
	for _, field := range fieldOrder {
		if e.slot(field) != nil {
			n++
		}
	}
	return n
}

// Empty reports whether no field failed.
func (e FormErrors) Empty() bool {
	return e.Len() == 0
}

// DuplicateEmail reports whether the email slot carries the "already
// registered" outcome. It outranks every other error when the banner status is
// derived.
func (e FormErrors) DuplicateEmail() bool {
	return e.Email != nil && e.Email.Rule == RuleUniqueness
}

// List returns the recorded errors in field display order.
func (e FormErrors) List() []FieldError {
	var out []FieldError
	for _, field := range fieldOrder {
		if slot := e.slot(field); slot != nil {
			out = append(out, *slot)
		}
	}
	return out
}

// Messages flattens the errors into a name → message map. Returns nil when the
// form is clean.
func (e FormErrors) Messages() map[string]string {
	list := e.List()
	if len(list) == 0 {
		return nil
	}
	out := make(map[string]string, len(list))
	for _, fe := range list {
		out[fe.Field.String()] = fe.Message
	}
	return out
}

// MarshalJSON encodes the errors as a name → message object.
func (e FormErrors) MarshalJSON() ([]byte, error) {
	messages := e.Messages()
	if messages == nil {
		messages = map[string]string{}
	}
	return json.Marshal(messages)
}

func (e *FormErrors) set(fe FieldError) {
	copied := fe
	switch fe.Field {
	case FieldFirstName:
		e.FirstName = &copied
	case FieldLastName:
		e.LastName = &copied
	case FieldEmail:
		e.Email = &copied
	case FieldPassword:
		e.Password = &copied
	}
}

func (e FormErrors) slot(field Field) *FieldError {
	switch field {
	case FieldFirstName:
		return e.FirstName
	case FieldLastName:
		return e.LastName
	case FieldEmail:
		return e.Email
	case FieldPassword:
		return e.Password
	default:
		return nil
	}
}
