package domain

import (
	"errors"
	"fmt"
	"sort"
)

// MaxVisitors bounds the roster; the palette has one color per slot.
const MaxVisitors = 6

// Palette assigns colors to visitors in sorted-id order.
var Palette = []string{"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00", "#a65628"}

var ErrUnknownVisitor = errors.New("unknown visitor")

// Visitor is one of the people whose travels are tracked.
type Visitor struct {
	ID    string
	Name  string
	Color string
}

// Roster is the fixed, ordered set of visitors for a session.
// It is built once while loading and never mutated.
type Roster struct {
	visitors []Visitor
	byID     map[string]int
}

// NewRoster orders persons by id and assigns palette colors to those without an
// explicit color.
func NewRoster(persons map[string]string, colors map[string]string) (*Roster, error) {
	if len(persons) == 0 {
		return nil, errors.New("new roster: no persons defined")
	}
	if len(persons) > MaxVisitors {
		return nil, fmt.Errorf("new roster: %d persons exceeds maximum of %d", len(persons), MaxVisitors)
	}

	ids := make([]string, 0, len(persons))
	for id := range persons {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	visitors := make([]Visitor, 0, len(ids))
	for i, id := range ids {
		color := colors[id]
		if color == "" {
			color = Palette[i]
		}
		name := persons[id]
		if name == "" {
			name = id
		}
		visitors = append(visitors, Visitor{ID: id, Name: name, Color: color})
	}

	return NewRosterFromVisitors(visitors)
}

// NewRosterFromVisitors keeps the given order. Used by repositories that already
// store resolved colors.
func NewRosterFromVisitors(visitors []Visitor) (*Roster, error) {
	if len(visitors) > MaxVisitors {
		return nil, fmt.Errorf("new roster: %d visitors exceeds maximum of %d", len(visitors), MaxVisitors)
	}
	r := &Roster{
		visitors: append([]Visitor(nil), visitors...),
		byID:     make(map[string]int, len(visitors)),
	}
	for i, v := range r.visitors {
		if v.ID == "" {
			return nil, fmt.Errorf("new roster: visitor at index %d has empty id", i)
		}
		if _, dup := r.byID[v.ID]; dup {
			return nil, fmt.Errorf("new roster: duplicate visitor id %q", v.ID)
		}
		r.byID[v.ID] = i
	}
	return r, nil
}

// Visitors returns a copy of the roster in order.
func (r *Roster) Visitors() []Visitor {
	return append([]Visitor(nil), r.visitors...)
}

func (r *Roster) Get(id string) (Visitor, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Visitor{}, false
	}
	return r.visitors[i], true
}

// Index returns the roster position of id, or -1.
func (r *Roster) Index(id string) int {
	i, ok := r.byID[id]
	if !ok {
		return -1
	}
	return i
}

func (r *Roster) Len() int { return len(r.visitors) }
