package slurm

import "strings"

// State is the closed health/availability enumeration for a node.
// The numeric order doubles as the precedence order for compound raw
// states: a higher value is more specific and wins the mapping.
type State int

const (
	StateUnknown State = iota
	StateIdle
	StateMixed
	StateAllocated
	StateDraining
	StateDrained
	StateDown
)

// String returns the canonical lowercase name used for display, sorting,
// and export.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMixed:
		return "mixed"
	case StateAllocated:
		return "allocated"
	case StateDraining:
		return "draining"
	case StateDrained:
		return "drained"
	case StateDown:
		return "down"
	default:
		return "unknown"
	}
}

// stateTable maps raw Slurm state tokens (compact and long forms) to the
// enumeration. Matching is case-insensitive. New raw vocabulary goes here,
// not into control flow.
var stateTable = map[string]State{
	"idle":       StateIdle,
	"mix":        StateMixed,
	"mixed":      StateMixed,
	"alloc":      StateAllocated,
	"allocated":  StateAllocated,
	"comp":       StateAllocated, // completing jobs still hold the node
	"completing": StateAllocated,
	"drng":       StateDraining,
	"draining":   StateDraining,
	"drain":      StateDrained,
	"drained":    StateDrained,
	"down":       StateDown,
	"fail":       StateDown,
	"failing":    StateDown,
	"error":      StateDown,
}

// stateFlagChars are the sinfo suffix flags appended to compact states
// ('*' not responding, '~' powered down, '#' powering up, and so on).
const stateFlagChars = "*~#%!$@^-"

// ParseState maps a raw state string into the enumeration. Compound states
// (joined with '+') map to the most specific applicable value using the
// precedence down > drained > draining > allocated > mixed > idle.
// Unrecognized input maps to StateUnknown, never an error.
func ParseState(raw string) State {
	best := StateUnknown
	for _, token := range strings.Split(strings.ToLower(raw), "+") {
		token = strings.TrimRight(strings.TrimSpace(token), stateFlagChars)
		if s, ok := stateTable[token]; ok && s > best {
			best = s
		}
	}
	return best
}
