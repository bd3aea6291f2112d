package utility

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

// Indian tax and contact identifiers
var (
	TANRegex     = regexp.MustCompile(`^[A-Z]{4}[0-9]{5}[A-Z]$`)
	PANRegex     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	PincodeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	PhoneRegex   = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	SlugRegex    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	UTRRegex     = regexp.MustCompile(`^[A-Za-z0-9]{12,22}$`)
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

type customTag struct {
	tag  string
	text string
	fn   validator.Func
}

func regexTag(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

var customTags = []customTag{
	{"tan", "{0} must be a valid TAN (e.g. ABCD12345E)", regexTag(TANRegex)},
	{"pan", "{0} must be a valid PAN (e.g. ABCDE1234F)", regexTag(PANRegex)},
	{"pincode", "{0} must be a valid 6 digit pincode", regexTag(PincodeRegex)},
	{"phone", "{0} must be a valid 10 digit mobile number", regexTag(PhoneRegex)},
	{"slug", "{0} may only contain lowercase letters, digits and hyphens", regexTag(SlugRegex)},
	{"utr", "{0} must be 12 to 22 letters or digits", regexTag(UTRRegex)},
	{"notblank", "{0} is required", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}},
}

func init() {
	english := en.New()
	translator, _ = ut.New(english, english).GetTranslator("en")

	validate = validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, c := range customTags {
		_ = validate.RegisterValidation(c.tag, c.fn)
		registerTranslation(c.tag, c.text)
	}
	registerTranslation("required", "{0} is required")
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidationError carries per-field messages keyed by JSON path.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(field, message string, more ...string) *ValidationError {
	fields := map[string]string{field: message}
	for i := 0; i+1 < len(more); i += 2 {
		fields[more[i]] = more[i+1]
	}
	return &ValidationError{Fields: fields}
}

// Validate runs struct validation and converts failures into a
// *ValidationError.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate")
	}
	return translate(verrs)
}

func translate(verrs validator.ValidationErrors) *ValidationError {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		// "TDSSimulation.deductor.tan" -> "deductor.tan"
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		fields[ns] = fe.Translate(translator)
	}
	return &ValidationError{Fields: fields}
}

// ValidateVar checks a single value against a tag expression.
func ValidateVar(value interface{}, tag string) error {
	return validate.Var(value, tag)
}
