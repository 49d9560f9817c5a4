/*
Package planning provides bulk schedule planning on top of the attendance
engine: template distribution across a cohort and date range, and team
coverage gap analysis.

PURPOSE:
  Planners are pure functions over a read-only view of the store. They
  produce a WriteSet - the complete list of (employee, day) -> status
  decisions for one template run - and never mutate anything themselves.
  The caller applies the WriteSet through Store.ApplyWriteSet in one
  atomic batch, so an interrupted run writes nothing at all.

KEY CONCEPTS IN THIS FILE (catalog.go):
  - TemplateKey: Identifier for a distribution scheme
  - Template: The scheme's parameters (weekly on-site ratio)
  - Catalog: The fixed key -> Template mapping

SEE ALSO:
  - template.go: The planners consuming these parameters
  - coverage.go: The gap analyzer
*/
package planning

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// TEMPLATE CATALOG
// =============================================================================

type TemplateKey string

const (
	// TemplateOfficeFirst is the 4x1 scheme: 4 on-site days, 1 remote.
	TemplateOfficeFirst TemplateKey = "office_first"

	// TemplateBalanced is the 3x2 scheme: 3 on-site days, 2 remote.
	TemplateBalanced TemplateKey = "balanced"

	// TemplateAlternate is the even split: nominally 2.5/2.5 per week.
	// The fraction rounds toward more on-site days for earlier-indexed
	// employees in the cohort.
	TemplateAlternate TemplateKey = "alternate"
)

// Template holds the nominal weekly ratio for a distribution scheme.
type Template struct {
	Key           TemplateKey
	Name          string
	OfficePerWeek decimal.Decimal // out of 5 weekdays, may be fractional
}

var catalog = map[TemplateKey]Template{
	TemplateOfficeFirst: {
		Key:           TemplateOfficeFirst,
		Name:          "Office first (4x1)",
		OfficePerWeek: decimal.NewFromInt(4),
	},
	TemplateBalanced: {
		Key:           TemplateBalanced,
		Name:          "Balanced (3x2)",
		OfficePerWeek: decimal.NewFromInt(3),
	},
	TemplateAlternate: {
		Key:           TemplateAlternate,
		Name:          "Alternate weeks (2.5/2.5)",
		OfficePerWeek: decimal.NewFromFloat(2.5),
	},
}

// Lookup returns the template for key.
func Lookup(key TemplateKey) (Template, error) {
	t, ok := catalog[key]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", attendance.ErrUnknownTemplate, key)
	}
	return t, nil
}

// Templates returns the catalog in a stable order.
func Templates() []Template {
	return []Template{
		catalog[TemplateOfficeFirst],
		catalog[TemplateBalanced],
		catalog[TemplateAlternate],
	}
}

// officeCountFor returns the whole number of on-site weekdays for the
// employee at cohort index i. Fractional ratios round up for even indexes
// and down for odd ones, so "2.5" alternates 3,2,3,2 across the cohort.
func (t Template) officeCountFor(i int) int {
	base := int(t.OfficePerWeek.IntPart())
	if t.OfficePerWeek.Sub(decimal.NewFromInt(int64(base))).IsPositive() && i%2 == 0 {
		base++
	}
	if base > 5 {
		base = 5
	}
	return base
}
