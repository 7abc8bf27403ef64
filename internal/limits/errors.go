package limits

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a table has no rows at all.
var ErrEmptyInput = errors.New("empty input: table has no rows")

// ErrInvalidOptions is returned when parse options cannot describe a table.
var ErrInvalidOptions = errors.New("invalid parse options")

// InvalidValueError reports a metric cell that is neither a null token nor a
// number. Row and Column are 1-based.
type InvalidValueError struct {
	Row    int
	Column int
	Metric string
	Text   string
	Err    error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s at row %d, column %d: %q", e.Metric, e.Row, e.Column, e.Text)
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}
