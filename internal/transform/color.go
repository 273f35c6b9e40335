package transform

import "strings"

// ColorResolver maps a color name to a short SKU code. Resolution never
// fails: on a lookup miss the first three characters of the name are
// upper-cased, or fewer when the name is shorter.
type ColorResolver struct {
	codes map[string]string
}

// DefaultColorCodes returns the built-in color table. Lookup is exact-match
// and case-sensitive.
func DefaultColorCodes() map[string]string {
	return map[string]string{
		"Black":  "BLK",
		"White":  "WHT",
		"Red":    "RED",
		"Orange": "ORA",
		"Yellow": "YWL",
		"Green":  "GRN",
		"Blue":   "BLU",
		"Purple": "PUR",
		"Pink":   "PNK",
		"Gray":   "GRY",
		"Brown":  "BRN",
	}
}

// NewColorResolver builds a resolver from the default table merged with the
// given overrides. Overrides win on name collisions.
func NewColorResolver(overrides map[string]string) *ColorResolver {
	codes := DefaultColorCodes()
	for name, code := range overrides {
		codes[name] = code
	}
	return &ColorResolver{codes: codes}
}

// Resolve returns the short code for a color name.
func (r *ColorResolver) Resolve(name string) string {
	if code, ok := r.codes[name]; ok {
		return code
	}
	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return strings.ToUpper(string(runes))
}
