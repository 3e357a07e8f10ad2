// Package command provides the console command registry, the line parser and
// the translation of parsed lines into player intents.
package command

// Categories for organizing commands in help output.
const (
	CategoryCombat    = "combat"
	CategoryInventory = "inventory"
	CategoryWorld     = "world"
	CategorySystem    = "system"
)

// Handler identifiers mapping commands to their translation.
const (
	HandlerFire         = "fire"
	HandlerRelease      = "release"
	HandlerReload       = "reload"
	HandlerThrow        = "throw"
	HandlerReleaseThrow = "release_throw"
	HandlerSelect       = "select"
	HandlerPickup       = "pickup"
	HandlerDrop         = "drop"
	HandlerOpen         = "open"
	HandlerFace         = "face"
	HandlerWait         = "wait"
	HandlerStatus       = "status"
	HandlerHelp         = "help"
	HandlerQuit         = "quit"
)

// Command defines a console command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument form, e.g. "select <1|2>". Empty when the
	// command takes no arguments.
	Usage string
	// Help is the short help text.
	Help string
	// Category groups the command in help output.
	Category string
	// Handler selects the translation applied to the parsed line.
	Handler string
}

// BuiltinCommands returns all built-in console commands.
func BuiltinCommands() []Command {
	return []Command{
		// Combat
		{Name: "fire", Aliases: []string{"f", "shoot"}, Help: "Pull and hold the trigger of the selected weapon", Category: CategoryCombat, Handler: HandlerFire},
		{Name: "release", Aliases: []string{"rel"}, Help: "Let go of the main trigger", Category: CategoryCombat, Handler: HandlerRelease},
		{Name: "reload", Aliases: []string{"r", "rl"}, Help: "Reload the selected weapon", Category: CategoryCombat, Handler: HandlerReload},
		{Name: "throw", Aliases: []string{"t", "gr"}, Help: "Throw from the throwable slot", Category: CategoryCombat, Handler: HandlerThrow},
		{Name: "release-throw", Aliases: []string{"rt"}, Help: "Let go of the throw button", Category: CategoryCombat, Handler: HandlerReleaseThrow},

		// Inventory
		{Name: "select", Aliases: []string{"sel"}, Usage: "select <1|2>", Help: "Select the primary or secondary slot", Category: CategoryInventory, Handler: HandlerSelect},
		{Name: "pickup", Aliases: []string{"get", "take"}, Usage: "pickup <weapon_id>", Help: "Pick up a weapon from the floor", Category: CategoryInventory, Handler: HandlerPickup},
		{Name: "drop", Aliases: nil, Help: "Drop the selected weapon", Category: CategoryInventory, Handler: HandlerDrop},
		{Name: "status", Aliases: []string{"st", "inv", "i"}, Help: "Show slots, ammo and the floor", Category: CategoryInventory, Handler: HandlerStatus},

		// World
		{Name: "open", Aliases: []string{"o"}, Usage: "open <chest_id>", Help: "Open a weapon chest", Category: CategoryWorld, Handler: HandlerOpen},
		{Name: "face", Aliases: nil, Usage: "face <left|right>", Help: "Turn to face left or right", Category: CategoryWorld, Handler: HandlerFace},
		{Name: "wait", Aliases: []string{"w"}, Usage: "wait <duration>", Help: "Let simulation time pass, e.g. wait 500ms", Category: CategoryWorld, Handler: HandlerWait},

		// System
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Help: "Leave the console", Category: CategorySystem, Handler: HandlerQuit},
	}
}
