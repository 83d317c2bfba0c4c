package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/user-auth-service/pkg/apperror"
)

// passwordPattern applies to plaintext passwords before hashing.
var passwordPattern = regexp.MustCompile(`^[A-Za-z0-9]{3,30}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	register(v)
	return v
}

// register installs the tag name func and the custom tags shared by the
// standalone validator and Gin's binding engine.
func register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("pwd", func(fl validator.FieldLevel) bool {
		return passwordPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(fl.Field().String())
	})
}

// Init configures the global validator used by Gin's binding.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(v)
	}
}

// LoginInput is the shape accepted by Login. Password has no pattern here,
// only at registration.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput is the shape accepted by Register.
type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,pwd"`
}

// ValidateUserID fails unless id is a 24 character hex ObjectID.
func ValidateUserID(id string) error {
	if err := validate.Var(id, "required,objectid"); err != nil {
		return apperror.Validation("user id is not valid")
	}
	return nil
}

// ValidatePassword checks a plaintext password against the alphanumeric 3-30 rule.
func ValidatePassword(password string) error {
	return varError("password", validate.Var(strings.TrimSpace(password), "required,pwd"))
}

// ValidateComparePasswordInput checks the candidate password and the stored hash.
func ValidateComparePasswordInput(passwordInput, passwordHash string) error {
	if err := varError("passwordInput", validate.Var(strings.TrimSpace(passwordInput), "required,pwd")); err != nil {
		return err
	}
	return varError("passwordHash", validate.Var(strings.TrimSpace(passwordHash), "required"))
}

// ValidateLoginInput normalizes and validates login input. The returned value
// carries the trimmed, lower-cased email.
func ValidateLoginInput(in LoginInput) (LoginInput, error) {
	in.Email = normalizeEmail(in.Email)
	in.Password = strings.TrimSpace(in.Password)
	if err := validate.Struct(in); err != nil {
		return LoginInput{}, firstError(err)
	}
	return in, nil
}

// ValidateRegisterInput normalizes and validates registration input.
func ValidateRegisterInput(in RegisterInput) (RegisterInput, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	in.Password = strings.TrimSpace(in.Password)
	if err := validate.Struct(in); err != nil {
		return RegisterInput{}, firstError(err)
	}
	return in, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func varError(field string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperror.Validation(field + " " + formatFieldError(verrs[0]))
	}
	return apperror.Validation(field + " is invalid")
}

// firstError reports only the first violated constraint.
func firstError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperror.Validation(fe.Field() + " " + formatFieldError(fe))
	}
	return apperror.Validation("invalid input")
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "pwd":
		return "must be 3 to 30 alphanumeric characters"
	case "objectid":
		return "must be a valid object id"
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
