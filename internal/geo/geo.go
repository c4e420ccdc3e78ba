// Package geo holds the static Division -> District -> Seat hierarchy used to
// locate incident reports.
package geo

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed hierarchy.yaml
var hierarchyYAML []byte

// Hierarchy is the read-only three-level location table.
type Hierarchy struct {
	divisions []division
	index     map[string]map[string][]string
}

type division struct {
	Name      string     `yaml:"name"`
	Districts []district `yaml:"districts"`
}

type district struct {
	Name  string   `yaml:"name"`
	Seats []string `yaml:"seats"`
}

var (
	defaultOnce      sync.Once
	defaultHierarchy *Hierarchy
	defaultErr       error
)

// Default returns the embedded hierarchy. It is parsed once per process.
func Default() *Hierarchy {
	defaultOnce.Do(func() {
		defaultHierarchy, defaultErr = Parse(hierarchyYAML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("geo: embedded hierarchy is invalid: %v", defaultErr))
	}
	return defaultHierarchy
}

// Parse decodes and validates a hierarchy document.
func Parse(data []byte) (*Hierarchy, error) {
	var doc struct {
		Divisions []division `yaml:"divisions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse hierarchy: %w", err)
	}

	h := &Hierarchy{
		divisions: doc.Divisions,
		index:     make(map[string]map[string][]string, len(doc.Divisions)),
	}
	for _, div := range doc.Divisions {
		if _, dup := h.index[div.Name]; dup {
			return nil, fmt.Errorf("duplicate division %q", div.Name)
		}
		districts := make(map[string][]string, len(div.Districts))
		for _, dist := range div.Districts {
			districts[dist.Name] = dist.Seats
		}
		h.index[div.Name] = districts
	}

	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Validate checks that every district belongs to exactly one division and that
// seat ids are unique and contiguous from 1.
func (h *Hierarchy) Validate() error {
	owner := make(map[string]string)
	seen := make(map[int]string)
	for _, div := range h.divisions {
		for _, dist := range div.Districts {
			if prev, ok := owner[dist.Name]; ok {
				return fmt.Errorf("district %q appears in %q and %q", dist.Name, prev, div.Name)
			}
			owner[dist.Name] = div.Name
			if len(dist.Seats) == 0 {
				return fmt.Errorf("district %q has no seats", dist.Name)
			}
			for _, seat := range dist.Seats {
				id, ok := SeatID(seat)
				if !ok {
					return fmt.Errorf("seat %q has no constituency number", seat)
				}
				if prev, dup := seen[id]; dup {
					return fmt.Errorf("constituency %d used by %q and %q", id, prev, seat)
				}
				seen[id] = seat
			}
		}
	}
	for i := 1; i <= len(seen); i++ {
		if _, ok := seen[i]; !ok {
			return fmt.Errorf("constituency numbers have a gap at %d", i)
		}
	}
	return nil
}

// Divisions returns division names in table order.
func (h *Hierarchy) Divisions() []string {
	names := make([]string, len(h.divisions))
	for i, div := range h.divisions {
		names[i] = div.Name
	}
	return names
}

// Districts returns the districts of a division in table order, or nil if the
// division is unknown.
func (h *Hierarchy) Districts(divisionName string) []string {
	for _, div := range h.divisions {
		if div.Name != divisionName {
			continue
		}
		names := make([]string, len(div.Districts))
		for i, dist := range div.Districts {
			names[i] = dist.Name
		}
		return names
	}
	return nil
}

// Seats returns the seat labels of a district, or nil if the pair is unknown.
func (h *Hierarchy) Seats(divisionName, districtName string) []string {
	if !h.IsValidDistrict(divisionName, districtName) {
		return nil
	}
	return append([]string(nil), h.index[divisionName][districtName]...)
}

// IsValidDivision reports whether name is a division of the table.
func (h *Hierarchy) IsValidDivision(name string) bool {
	_, ok := h.index[name]
	return ok
}

// IsValidDistrict reports whether division is valid and name is one of its districts.
func (h *Hierarchy) IsValidDistrict(divisionName, name string) bool {
	districts, ok := h.index[divisionName]
	if !ok {
		return false
	}
	_, ok = districts[name]
	return ok
}

// IsValidSeat reports whether seat belongs to the (division, district) pair.
func (h *Hierarchy) IsValidSeat(divisionName, districtName, seat string) bool {
	if !h.IsValidDistrict(divisionName, districtName) {
		return false
	}
	for _, s := range h.index[divisionName][districtName] {
		if s == seat {
			return true
		}
	}
	return false
}

// SeatCount returns the number of seats in the table.
func (h *Hierarchy) SeatCount() int {
	n := 0
	for _, districts := range h.index {
		for _, seats := range districts {
			n += len(seats)
		}
	}
	return n
}

// SeatIDs returns every constituency number in ascending order.
func (h *Hierarchy) SeatIDs() []int {
	var ids []int
	for _, div := range h.divisions {
		for _, dist := range div.Districts {
			for _, seat := range dist.Seats {
				if id, ok := SeatID(seat); ok {
					ids = append(ids, id)
				}
			}
		}
	}
	sort.Ints(ids)
	return ids
}

var seatIDPattern = regexp.MustCompile(`\((\d+)\)\s*$`)

// SeatID extracts the constituency number from a label such as "Dhaka-1 (150)".
func SeatID(label string) (int, bool) {
	m := seatIDPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}
