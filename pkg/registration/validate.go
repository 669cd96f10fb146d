package registration

type check struct {
	rule    Rule
	passes  func(string) bool
	message string
}

// checks lists the rules per field in evaluation order. The first failing
// check wins and short-circuits the rest.
var checks = map[Field][]check{
	FieldFirstName: {
		{rule: RuleRequired, passes: IsRequired, message: MsgFirstNameRequired},
	},
	FieldLastName: {
		{rule: RuleRequired, passes: IsRequired, message: MsgLastNameRequired},
	},
	FieldEmail: {
		{rule: RuleRequired, passes: IsRequired, message: MsgEmailRequired},
		{rule: RuleFormat, passes: IsGmail, message: MsgEmailFormat},
		{rule: RuleUniqueness, passes: IsUniqueEmail, message: MsgEmailRegistered},
	},
	FieldPassword: {
		{rule: RuleRequired, passes: IsRequired, message: MsgPasswordRequired},
		{rule: RuleStrength, passes: IsValidPassword, message: MsgPasswordStrength},
	},
}

// ValidateField runs the rules for a single field and returns the first
// failure. ok is false when the value passes (or the field is unknown).
func ValidateField(field Field, value string) (FieldError, bool) {
	for _, c := range checks[field] {
		if !c.passes(value) {
			return FieldError{Field: field, Rule: c.rule, Message: c.message}, true
		}
	}
	return FieldError{}, false
}

// Validate evaluates every field and returns the resulting error set. It has
// no side effects and returns the same result for the same input.
func Validate(values FormValues) FormErrors {
	var errs FormErrors
	for _, field := range fieldOrder {
		if fe, failed := ValidateField(field, values.Get(field)); failed {
			errs.set(fe)
		}
	}
	return errs
}
