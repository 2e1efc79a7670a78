package domain

import (
	"fmt"
	"strings"
)

// NewPair normalizes platform (lowercase) and brand (trimmed) and validates both.
func NewPair(platform, brand string) (Pair, error) {
	p := Pair{
		Platform: strings.ToLower(strings.TrimSpace(platform)),
		Brand:    strings.TrimSpace(brand),
	}
	if p.Platform == "" || p.Brand == "" {
		return Pair{}, fmt.Errorf("%w: platform=%q brand=%q", ErrInvalidPair, platform, brand)
	}
	return p, nil
}

// ParsePair parses "platform:brand". The brand may itself contain colons.
func ParsePair(raw string) (Pair, error) {
	platform, brand, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return Pair{}, fmt.Errorf("%w: %q, expected platform:brand", ErrInvalidPair, raw)
	}
	return NewPair(platform, brand)
}

// ParsePairs parses a comma separated list of pairs, skipping blanks.
func ParsePairs(raw string) ([]Pair, error) {
	var pairs []Pair
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParsePair(part)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}
