// internal/keys/command.go
package keys

import "github.com/brailleio/brld/internal/family"

// CommandKind is the display's public command vocabulary.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdPanLeft
	CmdPanRight
	CmdLineUp
	CmdLineDown
	CmdCursorRoute // Arg: text column
	CmdStatusKey   // Arg: status column
	CmdDots        // Arg: 8-bit dot mask
	CmdRestart
)

func (k CommandKind) String() string {
	switch k {
	case CmdPanLeft:
		return "pan-left"
	case CmdPanRight:
		return "pan-right"
	case CmdLineUp:
		return "line-up"
	case CmdLineDown:
		return "line-down"
	case CmdCursorRoute:
		return "cursor-route"
	case CmdStatusKey:
		return "status-key"
	case CmdDots:
		return "dots"
	case CmdRestart:
		return "restart-required"
	}
	return "none"
}

// Command is one abstract display command handed to the consumer.
type Command struct {
	Kind  CommandKind
	Arg   int
	Shift bool
	Long  bool
}

// Translator folds the ordered event stream into commands, latching
// modifier state across the bracketing sequence the decoder emits.
type Translator struct {
	shift bool
	long  bool
}

// Translate consumes one event. Modifier edges update latched state
// and produce no command.
func (t *Translator) Translate(ev Event) (Command, bool) {
	switch ev.Group {
	case GroupNavigation:
		switch family.NavKey(ev.Code) {
		case family.NavShift:
			t.shift = ev.Press
			return Command{}, false
		case family.NavLongPress:
			t.long = ev.Press
			return Command{}, false
		case family.NavPanLeft:
			return t.cmd(CmdPanLeft, 0), true
		case family.NavPanRight:
			return t.cmd(CmdPanRight, 0), true
		case family.NavLineUp:
			return t.cmd(CmdLineUp, 0), true
		case family.NavLineDown:
			return t.cmd(CmdLineDown, 0), true
		}
		return Command{}, false

	case GroupRouting:
		return t.cmd(CmdCursorRoute, ev.Code), true

	case GroupStatus:
		return t.cmd(CmdStatusKey, ev.Code), true

	case GroupDots:
		return t.cmd(CmdDots, ev.Code), true
	}

	return Command{}, false
}

func (t *Translator) cmd(kind CommandKind, arg int) Command {
	return Command{Kind: kind, Arg: arg, Shift: t.shift, Long: t.long}
}
