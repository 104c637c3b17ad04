package engine

import (
	"fmt"
	"time"
)

// Argument accessors for payload authors. Grid files deliver integral
// numbers as int64 and fractional ones as float64; Go callers pass whatever
// they like, so the numeric accessors normalize the common widths.

// ArgValue returns the i-th resolved argument, or an error if the argument
// list is shorter than that.
func ArgValue(args []any, i int) (any, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("missing argument %d (got %d)", i, len(args))
	}
	return args[i], nil
}

// ArgInt returns the i-th argument as an int64.
func ArgInt(args []any, i int) (int64, error) {
	v, err := ArgValue(args, i)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n == float64(int64(n)) {
			return int64(n), nil
		}
	}
	return 0, fmt.Errorf("argument %d: expected integer, got %T", i, v)
}

// ArgFloat returns the i-th argument as a float64.
func ArgFloat(args []any, i int) (float64, error) {
	v, err := ArgValue(args, i)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("argument %d: expected number, got %T", i, v)
}

// ArgString returns the i-th argument as a string.
func ArgString(args []any, i int) (string, error) {
	v, err := ArgValue(args, i)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %d: expected string, got %T", i, v)
	}
	return s, nil
}

// ArgDuration returns the i-th argument parsed as a time.Duration string.
func ArgDuration(args []any, i int) (time.Duration, error) {
	s, err := ArgString(args, i)
	if err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("argument %d: %w", i, err)
	}
	return d, nil
}
