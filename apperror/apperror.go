// Package apperror holds the typed failures returned by every core operation.
package apperror

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidArgument
	KindEmptyCart
	KindInvalidCoupon
	KindCouponNotActive
	KindBelowMinimum
	KindConstraintViolation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindEmptyCart:
		return "EMPTY_CART"
	case KindInvalidCoupon:
		return "INVALID_COUPON"
	case KindCouponNotActive:
		return "COUPON_NOT_ACTIVE"
	case KindBelowMinimum:
		return "BELOW_MINIMUM"
	case KindConstraintViolation:
		return "CONSTRAINT_VIOLATION"
	default:
		return "UNKNOWN"
	}
}

// Sentinels for errors.Is; any *Error of the same Kind matches.
var (
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrInvalidArgument     = &Error{Kind: KindInvalidArgument}
	ErrEmptyCart           = &Error{Kind: KindEmptyCart}
	ErrInvalidCoupon       = &Error{Kind: KindInvalidCoupon}
	ErrCouponNotActive     = &Error{Kind: KindCouponNotActive}
	ErrBelowMinimum        = &Error{Kind: KindBelowMinimum}
	ErrConstraintViolation = &Error{Kind: KindConstraintViolation}
)

type Error struct {
	Kind   Kind
	Entity string // e.g. "product", "cart"
	Key    string // id, sku, code or constraint name
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(e.Kind.String()))
	if e.Entity != "" {
		b.WriteString(": ")
		b.WriteString(e.Entity)
		if e.Key != "" {
			fmt.Fprintf(&b, " %q", e.Key)
		}
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func NotFound(entity, key string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Key: key, Msg: "not found"}
}

func InvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

func EmptyCart(customerID uint) *Error {
	return &Error{Kind: KindEmptyCart, Entity: "cart", Key: Key(customerID), Msg: "cart has no lines"}
}

func InvalidCoupon(code string) *Error {
	return &Error{Kind: KindInvalidCoupon, Entity: "coupon", Key: code, Msg: "unknown coupon code"}
}

func CouponNotActive(code, msg string) *Error {
	return &Error{Kind: KindCouponNotActive, Entity: "coupon", Key: code, Msg: msg}
}

func BelowMinimum(code, msg string) *Error {
	return &Error{Kind: KindBelowMinimum, Entity: "coupon", Key: code, Msg: msg}
}

func ConstraintViolation(entity, constraint string, err error) *Error {
	return &Error{Kind: KindConstraintViolation, Entity: entity, Key: constraint, Err: err}
}

// FromStore maps store-level failures onto the taxonomy. Errors that are
// already typed, and transient errors the caller should retry, pass through.
func FromStore(entity, key string, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(entity, key)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ConstraintViolation(entity, "unique", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ConstraintViolation(entity, "foreign key", err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return ConstraintViolation(entity, "check", err)
	}
	// Drivers that do not translate their errors still name the constraint.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate key"):
		return ConstraintViolation(entity, "unique", err)
	case strings.Contains(msg, "foreign key"):
		return ConstraintViolation(entity, "foreign key", err)
	case strings.Contains(msg, "check constraint"):
		return ConstraintViolation(entity, "check", err)
	}
	return fmt.Errorf("%s %s: %w", entity, key, err)
}

// Key formats a numeric id for use as an error key.
func Key(id uint) string { return strconv.FormatUint(uint64(id), 10) }
