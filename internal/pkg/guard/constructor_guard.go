// Package guard provides the constructor guard pattern used by value objects,
// entities, commands, and queries to ensure they are only created through
// their designated constructor functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error
// is provided for an unconstructed object.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard detects whether a struct was created through its
// constructor or as a zero value. Embedding a guard and calling Validate
// keeps domain objects from being used in an unvalidated state.
//
// Example:
//
//	type Code struct {
//	    value string
//	    guard guard.ConstructorGuard
//	}
//
//	func NewCode(value string) (Code, error) {
//	    if value == "" {
//	        return Code{}, errors.New("value is required")
//	    }
//	    return Code{value: value, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c Code) Validate() error {
//	    return c.guard.Validate(ErrCodeIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking its owner as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a properly constructed guard. For a zero-value
// guard it returns notConstructedErr, or ErrDefaultConstructorGuard when
// notConstructedErr is nil.
func (g ConstructorGuard) Validate(notConstructedErr error) error {
	if g.isConstructed {
		return nil
	}

	if notConstructedErr == nil {
		return ErrDefaultConstructorGuard
	}

	return notConstructedErr
}
