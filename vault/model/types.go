package model

import (
	"database/sql/driver"
	"strconv"

	"github.com/nottyhq/notty/lib/errors"
)

// Amount is an unsigned 64-bit value or token amount. It is stored as a
// string to keep the full uint64 range representable across drivers, and
// implements sql.Scanner and driver.Valuer.
type Amount uint64

// Scan implements sql.Scanner.
func (a *Amount) Scan(src interface{}) error {
	switch src := src.(type) {
	case int64:
		if src < 0 {
			return errors.Newf("Negative value for Amount: %d", src)
		}
		*a = Amount(src)
	case []byte:
		v, err := strconv.ParseUint(string(src), 10, 64)
		if err != nil {
			return errors.Newf("Impossible to set Amount with string: %q", src)
		}
		*a = Amount(v)
	case string:
		v, err := strconv.ParseUint(src, 10, 64)
		if err != nil {
			return errors.Newf("Impossible to set Amount with string: %q", src)
		}
		*a = Amount(v)
	default:
		return errors.Newf("Incompatible type for Amount with value: %q", src)
	}

	return nil
}

// Value implements driver.Valuer.
func (a Amount) Value() (value driver.Value, err error) {
	return strconv.FormatUint(uint64(a), 10), nil
}
