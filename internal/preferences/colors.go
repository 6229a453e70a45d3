package preferences

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultColorID is used for unknown color names.
const DefaultColorID = "9"

var colorIDs = map[string]string{
	"blue":       "1",
	"green":      "2",
	"purple":     "3",
	"red":        "4",
	"yellow":     "5",
	"orange":     "6",
	"turquoise":  "7",
	"gray":       "8",
	"bold_blue":  "9",
	"bold_green": "10",
	"bold_red":   "11",
}

// ColorID maps a color name to the calendar color id, "9" when unknown.
func ColorID(name string) string {
	if id, ok := colorIDs[strings.ToLower(name)]; ok {
		return id
	}
	return DefaultColorID
}

// ValidColor reports whether name is a known color.
func ValidColor(name string) bool {
	_, ok := colorIDs[strings.ToLower(name)]
	return ok
}

// ColorNames returns the known color names sorted by id.
func ColorNames() []string {
	names := make([]string, 0, len(colorIDs))
	for name := range colorIDs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, _ := strconv.Atoi(colorIDs[names[i]])
		b, _ := strconv.Atoi(colorIDs[names[j]])
		return a < b
	})
	return names
}
