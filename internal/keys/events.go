// internal/keys/events.go
package keys

import "github.com/brailleio/brld/internal/family"

// Group classifies a key event.
type Group int

const (
	GroupNavigation Group = iota
	GroupRouting
	GroupDots
	GroupStatus
)

func (g Group) String() string {
	switch g {
	case GroupNavigation:
		return "navigation"
	case GroupRouting:
		return "routing"
	case GroupDots:
		return "dots"
	case GroupStatus:
		return "status"
	}
	return "unknown"
}

// Event is a single abstract input occurrence. Code is the
// family.NavKey for navigation, the rebased column for routing and
// status, and the 8-bit dot mask for dots.
type Event struct {
	Group Group
	Code  int
	Press bool
}

// Navigation event constructors used by the decoder.
func navEvent(k family.NavKey, press bool) Event {
	return Event{Group: GroupNavigation, Code: int(k), Press: press}
}
