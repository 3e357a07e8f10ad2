package command

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cory-johannsen/arsenal/internal/game/inventory"
	"github.com/cory-johannsen/arsenal/internal/game/player"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// ErrUsage is returned when a command's arguments do not fit its usage.
var ErrUsage = errors.New("usage")

// MaxWait bounds a single wait command.
const MaxWait = time.Minute

// ActionKind says what the console should do with a translated line.
type ActionKind int

const (
	// ActIntent hands Intent to the player controller.
	ActIntent ActionKind = iota
	// ActWait lets Wait of simulation time pass.
	ActWait
	// ActStatus prints the arsenal status.
	ActStatus
	// ActHelp prints the command list.
	ActHelp
	// ActQuit ends the console session.
	ActQuit
)

// Action is the result of translating one parsed line.
type Action struct {
	Kind   ActionKind
	Intent player.Intent
	Wait   time.Duration
}

type translateFunc func(cmd *Command, parsed ParseResult) (Action, error)

// translators is the single source of truth for command dispatch.
// To add a command: add a Handler constant to commands.go AND an entry here.
var translators = map[string]translateFunc{
	HandlerFire:         simpleIntent(player.Fire),
	HandlerRelease:      simpleIntent(player.Release),
	HandlerReload:       simpleIntent(player.Reload),
	HandlerThrow:        simpleIntent(player.Throw),
	HandlerReleaseThrow: simpleIntent(player.ReleaseThrow),
	HandlerDrop:         simpleIntent(player.Drop),
	HandlerSelect:       translateSelect,
	HandlerPickup:       targetIntent(player.Pickup),
	HandlerOpen:         targetIntent(player.Open),
	HandlerFace:         translateFace,
	HandlerWait:         translateWait,
	HandlerStatus:       local(ActStatus),
	HandlerHelp:         local(ActHelp),
	HandlerQuit:         local(ActQuit),
}

// Handlers lists the handler identifiers Translate understands.
func Handlers() []string {
	out := make([]string, 0, len(translators))
	for h := range translators {
		out = append(out, h)
	}
	return out
}

// Translate turns a resolved command and its parsed line into an Action.
//
// Precondition: cmd is non-nil.
// Postcondition: argument errors wrap ErrUsage and name the usage form.
func Translate(cmd *Command, parsed ParseResult) (Action, error) {
	fn, ok := translators[cmd.Handler]
	if !ok {
		return Action{}, fmt.Errorf("command %q has no handler %q", cmd.Name, cmd.Handler)
	}
	return fn(cmd, parsed)
}

func usageError(cmd *Command) error {
	return fmt.Errorf("%w: %s", ErrUsage, cmd.Usage)
}

func simpleIntent(kind player.IntentKind) translateFunc {
	return func(*Command, ParseResult) (Action, error) {
		return Action{Kind: ActIntent, Intent: player.Intent{Kind: kind}}, nil
	}
}

func targetIntent(kind player.IntentKind) translateFunc {
	return func(cmd *Command, parsed ParseResult) (Action, error) {
		if len(parsed.Args) != 1 {
			return Action{}, usageError(cmd)
		}
		return Action{Kind: ActIntent, Intent: player.Intent{Kind: kind, Target: parsed.Args[0]}}, nil
	}
}

func local(kind ActionKind) translateFunc {
	return func(*Command, ParseResult) (Action, error) {
		return Action{Kind: kind}, nil
	}
}

func translateSelect(cmd *Command, parsed ParseResult) (Action, error) {
	if len(parsed.Args) != 1 {
		return Action{}, usageError(cmd)
	}
	slot, err := inventory.ParseSlot(parsed.Args[0])
	if err != nil || !slot.IsMain() {
		return Action{}, usageError(cmd)
	}
	return Action{Kind: ActIntent, Intent: player.Intent{Kind: player.Select, Slot: slot}}, nil
}

func translateFace(cmd *Command, parsed ParseResult) (Action, error) {
	var dir weapon.Vec2
	switch strings.ToLower(parsed.Arg(0)) {
	case "left", "l":
		dir = weapon.Left
	case "right", "r":
		dir = weapon.Right
	default:
		return Action{}, usageError(cmd)
	}
	if len(parsed.Args) != 1 {
		return Action{}, usageError(cmd)
	}
	return Action{Kind: ActIntent, Intent: player.Intent{Kind: player.Face, Direction: dir}}, nil
}

func translateWait(cmd *Command, parsed ParseResult) (Action, error) {
	if len(parsed.Args) != 1 {
		return Action{}, usageError(cmd)
	}
	d, err := time.ParseDuration(parsed.Args[0])
	if err != nil || d <= 0 || d > MaxWait {
		return Action{}, usageError(cmd)
	}
	return Action{Kind: ActWait, Wait: d}, nil
}
