// Package detail loads the extended record shown on an entity's detail page.
// Nothing here is cached: every view refetches.
package detail

import "strings"

// Fallback texts rendered when a field is absent.
const (
	UnknownName = "Unknown"
	NoData      = "No data"
)

// DefaultLocale is the locale used for localized lookups.
const DefaultLocale = "en"

// FallbackColor is the accent colour when the generation has no table entry.
const FallbackColor = "#6B7280"

// accentColors maps a lower-cased name to the page accent colour.
var accentColors = map[string]string{
	"normal":   "#A8A77A",
	"fire":     "#EE8130",
	"water":    "#6390F0",
	"electric": "#F7D02C",
	"grass":    "#7AC74C",
	"ice":      "#96D9D6",
	"fighting": "#C22E28",
	"poison":   "#A33EA1",
	"ground":   "#E2BF65",
	"flying":   "#A98FF3",
	"psychic":  "#F95587",
	"bug":      "#A6B91A",
	"rock":     "#B6A136",
	"ghost":    "#735797",
	"dragon":   "#6F35FC",
	"dark":     "#705746",
	"steel":    "#B7B7CE",
	"fairy":    "#D685AD",
}

// AccentColor returns the accent colour for name, or FallbackColor.
func AccentColor(name string) string {
	if c, ok := accentColors[strings.ToLower(name)]; ok {
		return c
	}
	return FallbackColor
}

// LocalizedText is a string tagged with its locale.
type LocalizedText struct {
	Text   string `json:"text"`
	Locale string `json:"locale"`
}

// Effect is an effect description in one locale.
type Effect struct {
	Effect      string `json:"effect"`
	ShortEffect string `json:"short_effect"`
	Locale      string `json:"locale"`
}

// Detail is the extended record of one entity, in API order.
type Detail struct {
	ID          string          `json:"id"`
	Effects     []Effect        `json:"effect_entries"`
	FlavorTexts []LocalizedText `json:"flavor_text_entries"`
	Names       []LocalizedText `json:"names"`
	Generation  string          `json:"generation"`
}

// Name returns the entity name in locale, or UnknownName.
func (d *Detail) Name(locale string) string {
	if d == nil {
		return UnknownName
	}
	if t, ok := lookup(d.Names, locale); ok {
		return t
	}
	return UnknownName
}

// Effect returns the short effect text in locale, or NoData.
func (d *Detail) Effect(locale string) string {
	if d == nil {
		return NoData
	}
	for _, e := range d.Effects {
		if e.Locale == locale && e.ShortEffect != "" {
			return e.ShortEffect
		}
	}
	return NoData
}

// Flavor returns the first flavor text in locale, or NoData.
func (d *Detail) Flavor(locale string) string {
	if d == nil {
		return NoData
	}
	if t, ok := lookup(d.FlavorTexts, locale); ok {
		return t
	}
	return NoData
}

// GenerationLabel returns the generation name, or NoData.
func (d *Detail) GenerationLabel() string {
	if d == nil || d.Generation == "" {
		return NoData
	}
	return d.Generation
}

func lookup(texts []LocalizedText, locale string) (string, bool) {
	for _, t := range texts {
		if t.Locale == locale && t.Text != "" {
			return t.Text, true
		}
	}
	return "", false
}
