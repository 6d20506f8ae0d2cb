package content

import (
	"strconv"
	"strings"
)

// StatKey identifies one of the four site statistics
type StatKey string

const (
	StatChildrenHelped StatKey = "children_helped"
	StatVolunteers     StatKey = "volunteers"
	StatShelterHomes   StatKey = "shelter_homes"
	StatYearsService   StatKey = "years_service"
)

// StatOrder is the fixed display order of the statistics
var StatOrder = []StatKey{StatChildrenHelped, StatVolunteers, StatShelterHomes, StatYearsService}

var statLabels = map[StatKey]string{
	StatChildrenHelped: "Children Helped",
	StatVolunteers:     "Volunteers",
	StatShelterHomes:   "Shelter Homes",
	StatYearsService:   "Years of Service",
}

// Stat is one site statistic. Value is numeric text, possibly with a trailing "+".
type Stat struct {
	Key   StatKey `json:"key"`
	Value string  `json:"value"`
	Label string  `json:"label"`
}

// Display is the rounded value shown to visitors
func (s Stat) Display() string {
	return StatDisplayValue(s.Key, s.Value)
}

// StatLabel returns the fixed label for a key
func StatLabel(key StatKey) string {
	if label, ok := statLabels[key]; ok {
		return label
	}
	return string(key)
}

// ParseStatValue reads the integer part of a stored value, ignoring a trailing "+"
func ParseStatValue(raw string) (int, bool) {
	v := strings.TrimSuffix(strings.TrimSpace(raw), "+")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// leadingInt reads the run of digits a value starts with, so "12abc" shows
// as 12 while it is being typed. Saving still requires ParseStatValue.
func leadingInt(raw string) (int, bool) {
	v := strings.TrimSpace(raw)
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// StatDisplayValue is the only place the rounding rule lives.
// children_helped and volunteers round down to a step of 50 once the value
// reaches 50, years_service rounds down to a step of 5 once it reaches 5,
// shelter_homes is always exact. Rounded values carry a "+" suffix.
func StatDisplayValue(key StatKey, raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "--"
	}
	v, ok := leadingInt(raw)
	if !ok {
		return "Invalid"
	}

	switch key {
	case StatChildrenHelped, StatVolunteers:
		if v >= 50 {
			return strconv.Itoa((v/50)*50) + "+"
		}
	case StatYearsService:
		if v >= 5 {
			return strconv.Itoa((v/5)*5) + "+"
		}
	}
	return strconv.Itoa(v)
}

// OrderStats returns exactly one stat per known key in display order, taking
// values from fetched and leaving missing ones empty. Labels are the fixed ones.
func OrderStats(fetched []Stat) []Stat {
	byKey := make(map[StatKey]Stat, len(fetched))
	for _, s := range fetched {
		byKey[s.Key] = s
	}

	ordered := make([]Stat, 0, len(StatOrder))
	for _, key := range StatOrder {
		stat := Stat{Key: key, Label: StatLabel(key)}
		if found, ok := byKey[key]; ok {
			stat.Value = found.Value
		}
		ordered = append(ordered, stat)
	}
	return ordered
}
