// Package risk maps free-text classifier output onto the four AI Act risk
// tiers for display.
package risk

import (
	"regexp"
	"strings"
)

type Category int

const (
	Unknown Category = iota
	Prohibited
	High
	Limited
	Minimal
)

var tierRe = regexp.MustCompile(`(?i)\b(prohibited|high[-\s]+risk|limited[-\s]+risk|minimal[-\s]+risk)\b`)

// Detect returns the tier named first in text, or Unknown.
func Detect(text string) Category {
	m := tierRe.FindString(text)
	if m == "" {
		return Unknown
	}
	switch strings.ToLower(strings.Fields(strings.ReplaceAll(m, "-", " "))[0]) {
	case "prohibited":
		return Prohibited
	case "high":
		return High
	case "limited":
		return Limited
	case "minimal":
		return Minimal
	}
	return Unknown
}

func (c Category) String() string {
	switch c {
	case Prohibited:
		return "Prohibited"
	case High:
		return "High Risk"
	case Limited:
		return "Limited Risk"
	case Minimal:
		return "Minimal Risk"
	default:
		return "Unknown"
	}
}

// Position is the marker position on a 0-100 scale running from
// prohibited on the left to minimal on the right.
func (c Category) Position() float64 {
	switch c {
	case Prohibited:
		return 12.5
	case High:
		return 37.5
	case Limited:
		return 62.5
	case Minimal:
		return 87.5
	default:
		return 100
	}
}

// Color is the hex colour used when rendering the tier.
func (c Category) Color() string {
	switch c {
	case Prohibited:
		return "#ff0000"
	case High:
		return "#ff8f00"
	case Limited:
		return "#ffe144"
	case Minimal:
		return "#008000"
	default:
		return "#616161"
	}
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
