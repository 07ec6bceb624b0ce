package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrPermissionDenied = errors.New("auth: permission denied")
	ErrUnauthenticated  = errors.New("auth: unauthenticated")
	ErrInvalidToken     = fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	ErrMissingSecret    = errors.New("auth: secret is not configured")
)

// PermissionError reports a denied action together with the tokens that
// would have allowed it.
type PermissionError struct {
	Required []string
	Resource Resource
	Action   ActionType
}

// NewPermissionError builds the error for a single denied token.
func NewPermissionError(token string) *PermissionError {
	res, act, _ := SplitToken(token)
	return &PermissionError{Required: []string{token}, Resource: res, Action: act}
}

func (e *PermissionError) Error() string {
	if e.Resource == "" && e.Action == "" {
		return "You don't have permission to perform this action"
	}
	return fmt.Sprintf("You don't have permission to %s %s", Verb(e.Action), e.Resource)
}

// Is makes every PermissionError match ErrPermissionDenied.
func (e *PermissionError) Is(target error) bool { return target == ErrPermissionDenied }

// RequiredPermissions returns a copy of the required tokens.
func (e *PermissionError) RequiredPermissions() []string {
	return append([]string(nil), e.Required...)
}

// Verb splits a camel-cased action type into lower-case words, e.g.
// deleteById -> "delete by id".
func Verb(a ActionType) string {
	var (
		b    strings.Builder
		prev rune
	)
	for i, r := range string(a) {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(prev) {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return b.String()
}
