package report

import (
	"fmt"

	"github.com/techvote/techvote/internal/geo"
)

// Selection is the chosen Division/District/Seat. Setters accept any string;
// changing a level clears every level below it.
type Selection struct {
	Division string `json:"division"`
	District string `json:"district"`
	Seat     string `json:"seat"`
}

// SetDivision sets the division and clears district and seat.
func (s *Selection) SetDivision(name string) {
	s.Division = name
	s.District = ""
	s.Seat = ""
}

// SetDistrict sets the district and clears the seat.
func (s *Selection) SetDistrict(name string) {
	s.District = name
	s.Seat = ""
}

// SetSeat sets the seat.
func (s *Selection) SetSeat(name string) {
	s.Seat = name
}

// Complete reports whether all three levels are non-empty.
func (s Selection) Complete() bool {
	return s.Division != "" && s.District != "" && s.Seat != ""
}

// Suggestions are the known options for each level given the current selection.
type Suggestions struct {
	Divisions []string `json:"divisions"`
	Districts []string `json:"districts"`
	Seats     []string `json:"seats"`
}

// Selector checks selections against a hierarchy. Its answers drive
// enabled/disabled state only; it never rejects input.
type Selector struct {
	hierarchy *geo.Hierarchy
}

// NewSelector creates a selector over h.
func NewSelector(h *geo.Hierarchy) *Selector {
	return &Selector{hierarchy: h}
}

// Hierarchy returns the underlying location table.
func (sel *Selector) Hierarchy() *geo.Hierarchy {
	return sel.hierarchy
}

// DistrictEnabled reports whether the district input should be enabled.
func (sel *Selector) DistrictEnabled(s Selection) bool {
	return sel.hierarchy.IsValidDivision(s.Division)
}

// SeatEnabled reports whether the seat input should be enabled.
func (sel *Selector) SeatEnabled(s Selection) bool {
	return sel.hierarchy.IsValidDistrict(s.Division, s.District)
}

// Suggestions lists the options for each level. A level whose parent is not a
// known entry gets no suggestions.
func (sel *Selector) Suggestions(s Selection) Suggestions {
	sug := Suggestions{
		Divisions: sel.hierarchy.Divisions(),
		Districts: []string{},
		Seats:     []string{},
	}
	if sel.DistrictEnabled(s) {
		sug.Districts = sel.hierarchy.Districts(s.Division)
	}
	if sel.SeatEnabled(s) {
		sug.Seats = sel.hierarchy.Seats(s.Division, s.District)
	}
	return sug
}

// Consistent returns an error wrapping ErrInconsistentLocation unless the
// selection names an existing division, district and seat.
func (sel *Selector) Consistent(s Selection) error {
	switch {
	case !sel.hierarchy.IsValidDivision(s.Division):
		return fmt.Errorf("%w: unknown division %q", ErrInconsistentLocation, s.Division)
	case !sel.hierarchy.IsValidDistrict(s.Division, s.District):
		return fmt.Errorf("%w: district %q is not in %q", ErrInconsistentLocation, s.District, s.Division)
	case !sel.hierarchy.IsValidSeat(s.Division, s.District, s.Seat):
		return fmt.Errorf("%w: seat %q is not in %q", ErrInconsistentLocation, s.Seat, s.District)
	}
	return nil
}
