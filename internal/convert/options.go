// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/vcf-converter/pkg/types"
)

var validate = newValidator()

// newValidator reports field errors by their YAML key so messages match the
// config file and flags.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks cfg for values no conversion can use.
func Validate(cfg types.ConversionConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid options: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		msgs = append(msgs, fmt.Sprintf("%s: %q fails %s", field, fmt.Sprint(fe.Value()), fe.Tag()))
	}
	return fmt.Errorf("invalid options: %s", strings.Join(msgs, "; "))
}
