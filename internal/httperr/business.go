package httperr

import "errors"

// BusinessError is a typed, caller-recoverable rejection. Conflict and
// validation codes are recovered at the handler boundary; only
// infrastructure errors propagate as generic failures.
type BusinessError struct {
	Code    string
	Message string
	Fields  map[string]string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessMsg(code, message string) error {
	return BusinessError{Code: code, Message: message}
}

// ErrValidation carries a field-level error list.
func ErrValidation(code string, fields map[string]string) error {
	return BusinessError{Code: code, Message: "invalid input", Fields: fields}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
