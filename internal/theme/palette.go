// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/olegiv/tenantblog/internal/tenant"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Alpha suffixes appended to the brand color (#rrggbbaa).
const (
	alphaTint   = "15"
	alphaSoft   = "08"
	alphaStrong = "cc"
)

// Palette is the set of brand colors derived from a tenant color.
type Palette struct {
	Primary string // #rrggbb
	Tint    string // badges and tag chips
	Soft    string // page header gradient
	Strong  string // call-to-action gradient end
}

// NewPalette derives a palette from a #rrggbb color. Anything else falls
// back to the neutral gray used for unknown tenants.
func NewPalette(color string) Palette {
	color = strings.ToLower(strings.TrimSpace(color))
	if !hexColorRegex.MatchString(color) {
		color = tenant.DefaultColor
	}
	return Palette{
		Primary: color,
		Tint:    color + alphaTint,
		Soft:    color + alphaSoft,
		Strong:  color + alphaStrong,
	}
}

// Vars returns the palette as CSS custom properties for a style attribute.
// The values are validated hex colors, so marking them safe is sound.
func (p Palette) Vars() template.CSS {
	return template.CSS(fmt.Sprintf(
		"--brand: %s; --brand-tint: %s; --brand-soft: %s; --brand-strong: %s",
		p.Primary, p.Tint, p.Soft, p.Strong,
	))
}
