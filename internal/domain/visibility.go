package domain

import (
	"fmt"
	"strings"
)

// Mode selects which locations count as visible.
type Mode string

const (
	ModeAll    Mode = "all"
	ModeShared Mode = "shared"
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ModeAll, nil
	case "shared", "shared-only":
		return ModeShared, nil
	}
	return "", fmt.Errorf("parse mode: unknown mode %q", s)
}

// Visibility is the transient UI state: which visitor toggles are on and the mode.
// A nil Toggled map means every visitor is on.
type Visibility struct {
	Toggled map[string]bool
	Mode    Mode
}

func (v Visibility) On(id string) bool {
	if v.Toggled == nil {
		return true
	}
	return v.Toggled[id]
}

// Key is a stable cache key for the visibility state over the given roster.
func (v Visibility) Key(r *Roster) string {
	var b strings.Builder
	b.WriteString(string(v.Mode))
	b.WriteByte(':')
	first := true
	for _, vis := range r.visitors {
		if !v.On(vis.ID) {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		b.WriteString(vis.ID)
		first = false
	}
	return b.String()
}
