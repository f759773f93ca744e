package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

var validate = validator.New()

// ValidateRetrievalConfig checks the retrieval tunables.
// Every failure wraps domain.ErrInvalidConfiguration.
func ValidateRetrievalConfig(cfg domain.RetrievalConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", e.Field(), describeTag(e)))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfiguration, strings.Join(msgs, "; "))
}

func describeTag(e validator.FieldError) string {
	if e.Param() == "" {
		return e.Tag()
	}
	return e.Tag() + "=" + e.Param()
}
