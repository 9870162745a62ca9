package deliverycode

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"
	"strings"
	"time"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/pkg/errs"
	"fleetops/internal/pkg/guard"
)

const (
	// Alphabet is the character set for delivery codes. Ambiguous
	// glyphs (0, O, 1, I) are excluded so codes survive being read
	// aloud at the door.
	Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

	// Length is the number of characters in a delivery code.
	Length = 8

	// TTL is how long a code stays valid after generation.
	TTL = 60 * time.Minute

	// MaxAttempts is the number of wrong entries before a code locks.
	MaxAttempts = 3
)

// Verification outcomes and construction errors.
var (
	// ErrCodeIsNotConstructed is returned when using an improperly initialized Code.
	ErrCodeIsNotConstructed = errors.New("Code must be created via NewCode constructor")
	// ErrCodeExpired is returned when verifying a code past its TTL.
	ErrCodeExpired = errors.New("delivery code expired")
	// ErrCodeLocked is returned when a code has exhausted its attempts.
	ErrCodeLocked = errors.New("delivery code locked")
	// ErrCodeMismatch is returned on a wrong entry that still leaves attempts.
	ErrCodeMismatch = errors.New("delivery code mismatch")
	// ErrCodeNotActive is returned when verifying a code that already
	// reached a terminal state.
	ErrCodeNotActive = errors.New("delivery code is not active")
)

// NewValue generates a fresh delivery code value: Length characters
// drawn uniformly from Alphabet using crypto/rand.
func NewValue() (string, error) {
	var b strings.Builder
	b.Grow(Length)

	max := big.NewInt(int64(len(Alphabet)))
	for i := 0; i < Length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(Alphabet[n.Int64()])
	}

	return b.String(), nil
}

// Code is the verification secret for one order's handover. It is
// generated when a mission launches, expires TTL after generation and
// locks after MaxAttempts wrong entries.
//
// Terminal states are Verified, Locked and Expired. Verification is
// only possible while the code is Active.
type Code struct {
	// value is the secret the recipient must present
	value string
	// orderID is the order this code protects
	orderID kernel.UUID
	// status is the code lifecycle state
	status Status
	// attemptsLeft counts remaining wrong entries before lockout
	attemptsLeft int
	// createdAt is when the code was generated
	createdAt time.Time
	// expiresAt is createdAt plus TTL
	expiresAt time.Time
	// guard ensures the code was properly constructed
	guard guard.ConstructorGuard
}

// NewCode creates an Active code for an order. The value must be a
// well-formed code (use NewValue). Expiry is fixed at now plus TTL.
func NewCode(orderID kernel.UUID, value string, now time.Time) (*Code, error) {
	c := &Code{
		status:       Active,
		attemptsLeft: MaxAttempts,
		createdAt:    now,
		expiresAt:    now.Add(TTL),
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setOrderID(orderID),
		c.setValue(value),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCode reconstructs a Code from persisted state.
func RestoreCode(
	orderID kernel.UUID,
	value string,
	status Status,
	attemptsLeft int,
	createdAt time.Time,
	expiresAt time.Time,
) (*Code, error) {
	c := &Code{
		createdAt: createdAt,
		expiresAt: expiresAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setOrderID(orderID),
		c.setValue(value),
		c.setStatus(status),
		c.setAttemptsLeft(attemptsLeft),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks if the Code was properly constructed.
func (c *Code) Validate() error {
	if c == nil {
		return ErrCodeIsNotConstructed
	}
	return c.guard.Validate(ErrCodeIsNotConstructed)
}

// Value returns the secret code value.
func (c *Code) Value() string {
	return c.value
}

// Order returns the protected order's ID.
func (c *Code) Order() kernel.UUID {
	return c.orderID
}

// Status returns the code lifecycle state.
func (c *Code) Status() Status {
	return c.status
}

// AttemptsLeft returns how many wrong entries remain before lockout.
func (c *Code) AttemptsLeft() int {
	return c.attemptsLeft
}

// CreatedAt returns when the code was generated.
func (c *Code) CreatedAt() time.Time {
	return c.createdAt
}

// ExpiresAt returns when the code stops being valid.
func (c *Code) ExpiresAt() time.Time {
	return c.expiresAt
}

// IsExpired reports whether the code's TTL has passed. It does not
// change state; use MarkExpired or Verify for that.
func (c *Code) IsExpired(now time.Time) bool {
	return !now.Before(c.expiresAt)
}

// Verify checks a candidate value against the code.
//
// Outcomes:
//   - nil: the candidate matched, the code becomes Verified
//   - ErrCodeExpired: the TTL passed, the code becomes Expired
//   - ErrCodeMismatch: wrong entry, one attempt consumed
//   - ErrCodeLocked: wrong entry exhausted the attempts, or the code
//     was already Locked
//   - ErrCodeNotActive: the code was already Verified or Expired
//
// Comparison is constant-time. Expiry wins over lockout: a locked code
// past its TTL still reports ErrCodeExpired semantics only through the
// sweep, so lockout state is preserved for the audit trail.
func (c *Code) Verify(candidate string, now time.Time) error {
	switch c.status {
	case Active:
	case Locked:
		return ErrCodeLocked
	default:
		return ErrCodeNotActive
	}

	if c.IsExpired(now) {
		c.status = Expired
		return ErrCodeExpired
	}

	if subtle.ConstantTimeCompare([]byte(c.value), []byte(candidate)) == 1 {
		c.status = Verified
		return nil
	}

	c.attemptsLeft--
	if c.attemptsLeft <= 0 {
		c.status = Locked
		return ErrCodeLocked
	}
	return ErrCodeMismatch
}

// MarkExpired transitions an Active code to Expired once its TTL has
// passed. Used by the expiry sweep. Returns false when the code is not
// Active or not yet expired.
func (c *Code) MarkExpired(now time.Time) bool {
	if c.status != Active || !c.IsExpired(now) {
		return false
	}

	c.status = Expired
	return true
}

func (c *Code) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

// setValue checks the value is Length characters, all from Alphabet.
func (c *Code) setValue(value string) error {
	if len(value) != Length {
		return errs.NewValueIsInvalidError("code value length")
	}
	for i := 0; i < len(value); i++ {
		if !strings.ContainsRune(Alphabet, rune(value[i])) {
			return errs.NewValueIsInvalidError("code value character")
		}
	}

	c.value = value
	return nil
}

// setStatus is used by RestoreCode only.
func (c *Code) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}

// setAttemptsLeft is used by RestoreCode only.
func (c *Code) setAttemptsLeft(attemptsLeft int) error {
	if attemptsLeft < 0 || attemptsLeft > MaxAttempts {
		return errs.NewValueIsOutOfRangeError("attemptsLeft", attemptsLeft, 0, MaxAttempts)
	}
	c.attemptsLeft = attemptsLeft
	return nil
}
