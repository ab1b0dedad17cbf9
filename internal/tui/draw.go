package tui

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pairplay/internal/game"
	"github.com/sadopc/pairplay/internal/library"
)

// drawModel is the single-shot draw screen. One instance runs the
// punishment wheel, another the position-card deck; only the kind differs.
type drawModel struct {
	col    *library.Collection
	kind   library.Kind
	width  int
	height int

	role    library.Role
	enabled map[string]bool
	cursor  int
	result  *game.DrawResult
	rng     *rand.Rand
}

func newDrawModel(col *library.Collection, kind library.Kind) drawModel {
	enabled := make(map[string]bool)
	for _, sub := range kind.Config().Subcategories {
		enabled[sub] = true
	}
	return drawModel{
		col:     col,
		kind:    kind,
		role:    library.RoleMale,
		enabled: enabled,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (d *drawModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d drawModel) tiers() []string {
	var out []string
	for _, sub := range d.kind.Config().Subcategories {
		if d.enabled[sub] {
			out = append(out, sub)
		}
	}
	return out
}

func (d drawModel) update(msg tea.Msg) (drawModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	if d.result != nil {
		if key.Matches(keyMsg, keys.Back) || key.Matches(keyMsg, keys.Enter) {
			d.result = nil
			return d, nil
		}
		if key.Matches(keyMsg, keys.Roll) {
			return d.draw()
		}
		return d, nil
	}

	subs := d.kind.Config().Subcategories
	switch {
	case key.Matches(keyMsg, keys.Partner), key.Matches(keyMsg, keys.Left), key.Matches(keyMsg, keys.Right):
		if d.role == library.RoleMale {
			d.role = library.RoleFemale
		} else {
			d.role = library.RoleMale
		}
	case key.Matches(keyMsg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if d.cursor < len(subs)-1 {
			d.cursor++
		}
	case key.Matches(keyMsg, keys.Enter):
		sub := subs[d.cursor]
		d.enabled[sub] = !d.enabled[sub]
	case key.Matches(keyMsg, keys.Roll):
		return d.draw()
	}
	return d, nil
}

func (d drawModel) draw() (drawModel, tea.Cmd) {
	res := game.Draw(d.col, d.kind, d.role, d.tiers(), d.rng)
	d.result = &res
	return d, nil
}

func (d drawModel) view() string {
	w := d.width - 4
	cfg := d.kind.Config()

	if d.result != nil {
		return d.renderResult(w)
	}

	var rows []string
	rows = append(rows, titleStyle.Render(cfg.Name))
	rows = append(rows, "")
	rows = append(rows, d.renderRoleToggle(cfg))
	rows = append(rows, "")

	lib := d.col.Library(d.kind)
	for i, sub := range cfg.Subcategories {
		check := "[ ]"
		if d.enabled[sub] {
			check = successStyle.Render("[x]")
		}
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		count := len(lib.Get(d.role, sub))
		rows = append(rows, fmt.Sprintf("%s%s %s %s", cursor, check,
			style.Render(cfg.SubLabels[sub]),
			mutedStyle.Render(fmt.Sprintf("(%d)", count))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("space: draw  enter: toggle tier  p: switch partner"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (d drawModel) renderRoleToggle(cfg library.Config) string {
	var parts []string
	for _, role := range library.Roles {
		label := roleLabel(d.kind, role)
		if role == d.role {
			parts = append(parts, roleStyleFor(role).Render("● "+label))
		} else {
			parts = append(parts, mutedStyle.Render("○ "+label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts[0], "   ", parts[1])
}

func (d drawModel) renderResult(w int) string {
	it := d.result.Item

	style := highlightStyle
	if d.result.Empty {
		style = warningStyle
	} else if it.Color != "" {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(it.Color))
	}

	var rows []string
	if it.Title != "" {
		rows = append(rows, style.Bold(true).Render(it.Icon+" "+it.Title))
		if it.Description != "" {
			rows = append(rows, "", normalItemStyle.Render(it.Description))
		}
	} else {
		rows = append(rows, style.Bold(true).Render(it.Icon), "", normalItemStyle.Render(it.Content))
	}
	rows = append(rows, "", mutedStyle.Render("space: draw again  esc: back"))

	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
