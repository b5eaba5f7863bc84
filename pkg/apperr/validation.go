package apperr

import "fmt"

// Validator collects field level problems before building a single
// VALIDATION_ERROR.
type Validator struct {
	fields map[string]string
}

func (v *Validator) Check(ok bool, field, message string) {
	if ok {
		return
	}
	v.Add(field, message)
}

func (v *Validator) Add(field, message string) {
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	if _, exists := v.fields[field]; exists {
		return
	}
	v.fields[field] = message
}

func (v *Validator) Required(value, field string) {
	v.Check(value != "", field, "is required")
}

func (v *Validator) Valid() bool { return len(v.fields) == 0 }

// Err returns nil when no problems were recorded.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return &Error{
		Kind:    KindValidation,
		Code:    "VALIDATION_ERROR",
		Message: "invalid request",
		Fields:  v.fields,
	}
}

// Invalid builds a single-field validation error.
func Invalid(field, format string, args ...any) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    "VALIDATION_ERROR",
		Message: "invalid request",
		Fields:  map[string]string{field: fmt.Sprintf(format, args...)},
	}
}

// FieldsOf returns the field breakdown of a validation error, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if As(err, &e) {
		return e.Fields
	}
	return nil
}
