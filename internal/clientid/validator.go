// Package clientid проверяет пользовательские идентификаторы клиентов.
package clientid

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MinLength = 3
	MaxLength = 10
)

// ReservedPrefixes зарезервированы под идентификаторы, которые генерирует сервер.
var ReservedPrefixes = []string{"CLI_", "INST_", "API_"}

var allowedChars = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Criteria отдаётся клиенту вместе с ошибкой валидации.
type Criteria struct {
	MaxLength         int      `json:"max_length"`
	MinLength         int      `json:"min_length"`
	AllowedCharacters string   `json:"allowed_characters"`
	ReservedPrefixes  []string `json:"reserved_prefixes"`
}

type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Criteria Criteria `json:"criteria"`
}

func DefaultCriteria() Criteria {
	prefixes := make([]string, len(ReservedPrefixes))
	copy(prefixes, ReservedPrefixes)
	return Criteria{
		MaxLength:         MaxLength,
		MinLength:         MinLength,
		AllowedCharacters: "letters (A-Z, a-z), numbers (0-9) and underscores (_)",
		ReservedPrefixes:  prefixes,
	}
}

// Validate проверяет все правила и собирает все нарушения по порядку.
func Validate(id string) Result {
	errs := []string{}

	switch n := len(id); {
	case n > MaxLength:
		errs = append(errs, fmt.Sprintf("Client ID cannot exceed %d characters", MaxLength))
	case n < MinLength:
		errs = append(errs, fmt.Sprintf("Client ID must be at least %d characters", MinLength))
	}

	if !allowedChars.MatchString(id) {
		errs = append(errs, "Client ID can only contain letters, numbers and underscores")
	}

	for _, prefix := range ReservedPrefixes {
		if strings.HasPrefix(id, prefix) {
			errs = append(errs, fmt.Sprintf("Client ID cannot start with reserved prefix %q (reserved: %s)",
				prefix, strings.Join(ReservedPrefixes, ", ")))
			break
		}
	}

	return Result{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Criteria: DefaultCriteria(),
	}
}
