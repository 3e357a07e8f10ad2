package dispenser

import (
	"errors"
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/game/weapon"
	"github.com/cory-johannsen/arsenal/internal/scripting"
)

// ErrAlreadyOpen is returned when a dispenser is opened a second time.
var ErrAlreadyOpen = errors.New("dispenser: already open")

// ScriptKey is the scripting.Manager key dispenser hooks are loaded under.
const ScriptKey = "dispensers"

// dropOffset places spawned weapons just above the dispenser.
var dropOffset = weapon.Vec2{Y: 0.5}

// Acquirer takes weapons presented by the world. *inventory.Allocator
// satisfies it.
type Acquirer interface {
	Acquire(w *weapon.Instance) bool
}

// World receives spawned weapons. *inventory.Floor satisfies it.
type World interface {
	Release(w *weapon.Instance)
}

// Deps carries the collaborators shared by every dispenser.
type Deps struct {
	Factory *weapon.Factory
	World   World
	// Scripts may be nil; hooks are then skipped.
	Scripts *scripting.Manager
	Logger  *zap.Logger
}

// Dispenser is one chest in the world. It opens exactly once.
//
// Dispenser is not safe for concurrent use; only the simulation goroutine may call it.
type Dispenser struct {
	def    *Def
	deps   Deps
	logger *zap.Logger
	open   bool
}

// New returns a closed Dispenser for def.
//
// Precondition: def is valid; deps.Factory and deps.World are non-nil.
func New(def *Def, deps Deps) *Dispenser {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispenser{
		def:    def,
		deps:   deps,
		logger: logger.With(zap.String("dispenser", def.ID)),
	}
}

// ID returns the dispenser identifier.
func (d *Dispenser) ID() string { return d.def.ID }

// Def returns the dispenser definition.
func (d *Dispenser) Def() *Def { return d.def }

// IsOpen reports whether the dispenser has been opened.
func (d *Dispenser) IsOpen() bool { return d.open }

// Open spawns every static and scripted drop OnGround into the world, then
// offers each to to in order. Drops that to rejects, or all drops when to is
// nil, stay in the world.
//
// Postcondition: returns ErrAlreadyOpen with no effect on a second call.
// Drops that cannot be created are logged and skipped.
func (d *Dispenser) Open(to Acquirer) ([]*weapon.Instance, error) {
	if d.open {
		d.logger.Info("tried opening an already open dispenser")
		return nil, ErrAlreadyOpen
	}
	d.open = true

	drops := append([]Drop(nil), d.def.Drops...)
	drops = append(drops, d.scriptedDrops()...)

	spawned := make([]*weapon.Instance, 0, len(drops))
	origin := d.def.Position.Add(dropOffset)
	for _, drop := range drops {
		w, err := d.deps.Factory.New(drop.Weapon, drop.Magazine, drop.Total)
		if err != nil {
			d.logger.Warn("skipping invalid drop", zap.String("weapon", drop.Weapon), zap.Error(err))
			continue
		}
		w.SetPosition(origin)
		d.deps.World.Release(w)
		spawned = append(spawned, w)
	}

	acquired := 0
	if to != nil {
		for _, w := range spawned {
			if to.Acquire(w) {
				acquired++
			}
		}
	}
	d.logger.Info("dispenser opened",
		zap.Int("spawned", len(spawned)),
		zap.Int("acquired", acquired),
	)
	return spawned, nil
}

// scriptedDrops calls the dispenser's Lua hook. The hook receives the
// dispenser ID and returns an array of {weapon=, magazine=, total=} tables.
func (d *Dispenser) scriptedDrops() []Drop {
	if d.def.Hook == "" || d.deps.Scripts == nil {
		return nil
	}
	ret, err := d.deps.Scripts.CallHook(ScriptKey, d.def.Hook, lua.LString(d.def.ID))
	if err != nil {
		d.logger.Warn("dispenser hook failed", zap.String("hook", d.def.Hook), zap.Error(err))
		return nil
	}
	drops, err := decodeDrops(ret)
	if err != nil {
		d.logger.Warn("dispenser hook returned bad drops", zap.String("hook", d.def.Hook), zap.Error(err))
	}
	return drops
}

// decodeDrops converts a Lua array of drop tables. Malformed entries are
// reported in the returned error and skipped; nil yields no drops.
func decodeDrops(v lua.LValue) ([]Drop, error) {
	if v == lua.LNil {
		return nil, nil
	}
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected table, got %s", v.Type())
	}
	var drops []Drop
	var errs []error
	n := tbl.Len()
	for i := 1; i <= n; i++ {
		entry, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			errs = append(errs, fmt.Errorf("entry %d is not a table", i))
			continue
		}
		name, ok := entry.RawGetString("weapon").(lua.LString)
		if !ok || name == "" {
			errs = append(errs, fmt.Errorf("entry %d has no weapon", i))
			continue
		}
		drops = append(drops, Drop{
			Weapon:   string(name),
			Magazine: luaInt(entry.RawGetString("magazine")),
			Total:    luaInt(entry.RawGetString("total")),
		})
	}
	return drops, errors.Join(errs...)
}

func luaInt(v lua.LValue) int {
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// Registry holds every dispenser in the world keyed by ID.
type Registry struct {
	byID map[string]*Dispenser
}

// NewRegistry builds one Dispenser per def.
//
// Postcondition: returns an error for duplicate IDs or static drops the
// factory's catalog cannot satisfy.
func NewRegistry(defs []*Def, deps Deps) (*Registry, error) {
	r := &Registry{byID: make(map[string]*Dispenser, len(defs))}
	for _, def := range defs {
		if _, dup := r.byID[def.ID]; dup {
			return nil, fmt.Errorf("dispenser: Registry: dispenser ID %q already registered", def.ID)
		}
		if err := def.ValidateAgainst(deps.Factory.Catalog()); err != nil {
			return nil, err
		}
		if def.Hook != "" && deps.Scripts != nil && !deps.Scripts.HasHook(ScriptKey, def.Hook) {
			if deps.Logger != nil {
				deps.Logger.Warn("dispenser hook not defined",
					zap.String("dispenser", def.ID),
					zap.String("hook", def.Hook),
				)
			}
		}
		r.byID[def.ID] = New(def, deps)
	}
	return r, nil
}

// Get returns the dispenser with id.
func (r *Registry) Get(id string) (*Dispenser, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// All returns every dispenser sorted by ID.
func (r *Registry) All() []*Dispenser {
	out := make([]*Dispenser, 0, len(r.byID))
	for _, d := range r.byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
