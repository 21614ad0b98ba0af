package vecerr

import (
	"fmt"
	"strings"
)

// LossyPolicy decides what happens to a LossyConversionWarning.
type LossyPolicy int

const (
	// LossyWarn logs the warning and continues.
	LossyWarn LossyPolicy = iota
	// LossyIgnore drops the warning silently.
	LossyIgnore
	// LossyError fails the conversion with the warning as the error.
	LossyError
)

func (p LossyPolicy) String() string {
	switch p {
	case LossyWarn:
		return "warn"
	case LossyIgnore:
		return "ignore"
	case LossyError:
		return "error"
	default:
		return fmt.Sprintf("LossyPolicy(%d)", int(p))
	}
}

// ParseLossyPolicy accepts "warn", "ignore" or "error" (case-insensitive).
func ParseLossyPolicy(s string) (LossyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "warn", "warning":
		return LossyWarn, nil
	case "ignore", "off":
		return LossyIgnore, nil
	case "error", "raise":
		return LossyError, nil
	}
	return LossyWarn, fmt.Errorf("unknown lossy policy %q", s)
}

// Decode implements envconfig.Decoder.
func (p *LossyPolicy) Decode(value string) error {
	v, err := ParseLossyPolicy(value)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
