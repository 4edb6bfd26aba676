package theme

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid theme config")

// Palette maps a shade key to a hex colour.
type Palette map[string]string

type Config struct {
	Content []string `yaml:"content" validate:"required,min=1,dive,required,content_glob"`
	Theme   Theme    `yaml:"theme"`
	Plugins []string `yaml:"plugins"`
}

type Theme struct {
	Extend Extension `yaml:"extend"`
}

type Extension struct {
	Colors     map[string]Palette  `yaml:"colors"`
	FontFamily map[string][]string `yaml:"fontFamily"`
}

// ValidationError names the offending config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("theme config: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("theme config: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	namePattern  = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	shadeOrder   = []string{"DEFAULT", "50", "100", "200", "300", "400", "500", "600", "700", "800", "900", "950"}
	allowedShade = func() map[string]int {
		m := make(map[string]int, len(shadeOrder))
		for i, s := range shadeOrder {
			m[s] = i
		}
		return m
	}()
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("content_glob", func(fl validator.FieldLevel) bool {
			return doublestar.ValidatePattern(trimDot(fl.Field().String()))
		})

		_ = v.RegisterValidation("token_name", func(fl validator.FieldLevel) bool {
			return namePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("shade", func(fl validator.FieldLevel) bool {
			_, ok := allowedShade[fl.Field().String()]
			return ok
		})

		validateInst = v
	})

	return validateInst
}

func Parse(data []byte) (Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Load(fsys fs.FS, path string) (Config, error) {
	data, err := fs.ReadFile(fsys, trimDot(path))
	if err != nil {
		return Config{}, fmt.Errorf("read theme config: %w", err)
	}
	return Parse(data)
}

func Validate(cfg Config) error {
	v := validatorInstance()

	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ValidationError{Field: "content", Message: contentMessage(fe)}
		}
		return &ValidationError{Message: err.Error()}
	}

	for _, name := range sortedKeys(cfg.Theme.Extend.Colors) {
		field := "theme.extend.colors." + name
		if err := v.Var(name, "token_name"); err != nil {
			return &ValidationError{Field: field, Message: "colour name must match [a-z][a-z0-9-]*"}
		}
		palette := cfg.Theme.Extend.Colors[name]
		if len(palette) == 0 {
			return &ValidationError{Field: field, Message: "at least one shade is required"}
		}
		for _, shade := range sortedKeys(palette) {
			if err := v.Var(shade, "shade"); err != nil {
				return &ValidationError{Field: field + "." + shade, Message: "unknown shade, expected one of " + strings.Join(shadeOrder, ", ")}
			}
			if err := v.Var(palette[shade], "required,hexcolor"); err != nil {
				return &ValidationError{Field: field + "." + shade, Message: fmt.Sprintf("%q is not a hex colour", palette[shade])}
			}
		}
	}

	for _, role := range sortedKeys(cfg.Theme.Extend.FontFamily) {
		field := "theme.extend.fontFamily." + role
		if err := v.Var(role, "token_name"); err != nil {
			return &ValidationError{Field: field, Message: "font role must match [a-z][a-z0-9-]*"}
		}
		if err := v.Var(cfg.Theme.Extend.FontFamily[role], "required,min=1,dive,required"); err != nil {
			return &ValidationError{Field: field, Message: "font stack must list at least one non-empty family"}
		}
	}

	if len(cfg.Plugins) > 0 {
		return &ValidationError{Field: "plugins", Message: "theme plugins are not supported"}
	}

	return nil
}

func contentMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "content_glob":
		return fmt.Sprintf("invalid glob %q", fe.Value())
	case "required", "min":
		if fe.Field() == "Content" {
			return "at least one content glob is required"
		}
		return "content glob cannot be empty"
	default:
		return fe.Error()
	}
}

func trimDot(p string) string {
	return strings.TrimPrefix(p, "./")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
