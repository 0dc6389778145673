package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/farkas/internal/ir"
)

// marshalCoefficients converts a coefficient list to canonical JSON TEXT.
// A nil list is stored as "[]".
func marshalCoefficients(coeffs []string) (string, error) {
	if coeffs == nil {
		coeffs = []string{}
	}
	data, err := ir.MarshalCanonical(coeffs)
	if err != nil {
		return "", fmt.Errorf("marshal coefficients: %w", err)
	}
	return string(data), nil
}

// unmarshalCoefficients parses the stored JSON array. Coefficients are
// rational strings, so there is no float precision to lose.
func unmarshalCoefficients(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return []string{}, nil
	}
	var coeffs []string
	if err := json.Unmarshal([]byte(data), &coeffs); err != nil {
		return nil, fmt.Errorf("unmarshal coefficients: %w", err)
	}
	return coeffs, nil
}
