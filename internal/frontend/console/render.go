package console

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/arsenal/internal/frontend/telnet"
	"github.com/cory-johannsen/arsenal/internal/game/command"
	"github.com/cory-johannsen/arsenal/internal/game/player"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// RenderStatus formats a status snapshot as console lines.
func RenderStatus(st player.Status, style telnet.Styler) string {
	var b strings.Builder
	b.WriteString(style.Paintf(telnet.BrightYellow, "t=%s tick %d, facing %s", st.Now, st.Ticks, facingName(st.Facing)))
	for _, s := range st.Slots {
		b.WriteString("\r\n")
		marker := " "
		if s.Slot == st.Selected {
			marker = "*"
		}
		if s.Empty {
			b.WriteString(style.Paintf(telnet.Dim, "%s %-9s  (empty)", marker, s.Slot))
			continue
		}
		line := fmt.Sprintf("%s %-9s  %-16s %-12s mag %d/%d  reserve %d",
			marker, s.Slot, s.Type, s.State, s.Magazine, s.Capacity, s.Total)
		color := telnet.White
		if s.State == weapon.Active {
			color = telnet.Green
		}
		b.WriteString(style.Paint(color, line))
		if note := gateNote(s); note != "" {
			b.WriteString(" " + style.Paint(telnet.Yellow, note))
		}
	}
	b.WriteString("\r\n")
	if len(st.Floor) == 0 {
		b.WriteString(style.Paint(telnet.Dim, "floor: nothing"))
		return b.String()
	}
	items := make([]string, 0, len(st.Floor))
	for _, it := range st.Floor {
		items = append(items, fmt.Sprintf("%s %s [%d|%d]", shortID(it.WeaponID), it.Type, it.Magazine, it.Total))
	}
	b.WriteString(style.Paint(telnet.Cyan, "floor: "+strings.Join(items, ", ")))
	return b.String()
}

func gateNote(s player.SlotStatus) string {
	if s.State != weapon.Active {
		return ""
	}
	switch {
	case !s.Gates.CanReload && s.Busy:
		return "(reloading)"
	case s.Gates.AwaitRelease:
		return "(release trigger)"
	case !s.Gates.CanShoot && s.Busy:
		return "(cycling)"
	case !s.Gates.CanShoot:
		return "(needs reload)"
	}
	return ""
}

// RenderHelp lists the registry's commands by category.
func RenderHelp(reg *command.Registry, style telnet.Styler) string {
	var b strings.Builder
	byCat := reg.CommandsByCategory()
	for i, cat := range reg.Categories() {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(style.Paint(telnet.BrightCyan, cat+":"))
		for _, cmd := range byCat[cat] {
			form := cmd.Name
			if cmd.Usage != "" {
				form = cmd.Usage
			}
			if len(cmd.Aliases) > 0 {
				form += " (" + strings.Join(cmd.Aliases, ", ") + ")"
			}
			b.WriteString(fmt.Sprintf("\r\n  %-28s %s", form, cmd.Help))
		}
	}
	return b.String()
}
