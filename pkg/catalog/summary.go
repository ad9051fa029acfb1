package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FallbackCategory is assigned when none of an entity's types is known.
const FallbackCategory = "normal"

// Category pairs a type name with its card colour.
type Category struct {
	Name  string
	Color string
}

// Categories is the priority-ordered category table. The primary category
// of an entity is the first entry here that appears in its type list.
var Categories = []Category{
	{Name: "fire", Color: "#FDDFDF"},
	{Name: "grass", Color: "#DEFDE0"},
	{Name: "electric", Color: "#FCF7DE"},
	{Name: "water", Color: "#DEF3FD"},
	{Name: "ground", Color: "#F4E7DA"},
	{Name: "rock", Color: "#D5D5D4"},
	{Name: "fairy", Color: "#FCEAFF"},
	{Name: "poison", Color: "#98D7A5"},
	{Name: "bug", Color: "#F8D5A3"},
	{Name: "dragon", Color: "#97B3E6"},
	{Name: "psychic", Color: "#EAEDA1"},
	{Name: "flying", Color: "#F5F5F5"},
	{Name: "fighting", Color: "#E6E0D4"},
	{Name: "normal", Color: "#F5F5F5"},
}

var categoryColors = func() map[string]string {
	m := make(map[string]string, len(Categories))
	for _, c := range Categories {
		m[c.Name] = c.Color
	}
	return m
}()

// ColorFor returns the card colour of category, or the fallback colour.
func ColorFor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return categoryColors[FallbackCategory]
}

// PrimaryCategory picks the first category of the priority table present in types.
func PrimaryCategory(types []string) string {
	present := make(map[string]struct{}, len(types))
	for _, t := range types {
		present[t] = struct{}{}
	}
	for _, c := range Categories {
		if _, ok := present[c.Name]; ok {
			return c.Name
		}
	}
	return FallbackCategory
}

// Summary is the compact record shown in the list grid.
type Summary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"pokemonId"`
	Category string `json:"type"`
	Color    string `json:"color"`
}

// Normalize builds a Summary from the raw API fields.
func Normalize(id int, name string, types []string) Summary {
	category := PrimaryCategory(types)
	return Summary{
		ID:       strconv.Itoa(id),
		Name:     Capitalize(name),
		Code:     fmt.Sprintf("%03d", id),
		Category: category,
		Color:    ColorFor(category),
	}
}

// SpriteURL returns the sprite image URL for the entity.
func (s Summary) SpriteURL(base string) string {
	return SpriteURL(base, s.ID)
}

// SpriteURL builds {base}/{id}.png.
func SpriteURL(base, id string) string {
	return strings.TrimRight(base, "/") + "/" + id + ".png"
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
