// Package nested walks decoded JSON objects one key at a time.
package nested

import (
	"errors"
	"fmt"
	"strings"
)

// KeyError reports the key at which a walk stopped, either because the
// current level has no such key or because it is not an object.
type KeyError struct {
	Key  string
	Path []string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("key not found: %q (path %s)", e.Key, strings.Join(e.Path, "."))
}

// TypeError reports a value that exists but has an unexpected type.
type TypeError struct {
	Path []string
	Want string
	Got  any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("value at %s is %T, want %s", strings.Join(e.Path, "."), e.Got, e.Want)
}

// Access returns the value reached by following path through m. An empty
// path returns m itself.
func Access(m map[string]any, path ...string) (any, error) {
	var current any = m
	for i, key := range path {
		level, ok := current.(map[string]any)
		if !ok {
			return nil, &KeyError{Key: key, Path: path[:i+1]}
		}
		next, ok := level[key]
		if !ok {
			return nil, &KeyError{Key: key, Path: path[:i+1]}
		}
		current = next
	}
	return current, nil
}

// Lookup is Access followed by a type assertion to T.
func Lookup[T any](m map[string]any, path ...string) (T, error) {
	var zero T

	value, err := Access(m, path...)
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, &TypeError{Path: path, Want: fmt.Sprintf("%T", zero), Got: value}
	}
	return typed, nil
}

// ParsePath splits a dotted path such as "owner.login" into keys.
func ParsePath(dotted string) []string {
	dotted = strings.TrimSpace(dotted)
	if dotted == "" {
		return nil
	}
	return strings.Split(dotted, ".")
}

func IsKeyError(err error) bool {
	var keyErr *KeyError
	return errors.As(err, &keyErr)
}
