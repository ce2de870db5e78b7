package shared

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks a request struct against its `validate` tags and reports
// failures as ErrInvalidPayload.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Namespace()+" failed on '"+fe.Tag()+"'")
		}
		return Errorf(ErrInvalidPayload, "Invalid payload: %s", strings.Join(fields, "; "))
	}

	return Errorf(ErrInvalidPayload, "Invalid payload: %v", err)
}

func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}
