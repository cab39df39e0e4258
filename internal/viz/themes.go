package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/algosim/internal/sim"
)

// Theme defines the color scheme for rendered frames.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Faint     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Bar       lipgloss.Color
	Roles     map[sim.Role]lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:      "classic",
		Primary:   lipgloss.Color("86"),
		Secondary: lipgloss.Color("213"),
		Text:      lipgloss.Color("255"),
		Muted:     lipgloss.Color("242"),
		Faint:     lipgloss.Color("238"),
		Success:   lipgloss.Color("82"),
		Warning:   lipgloss.Color("220"),
		Error:     lipgloss.Color("203"),
		Bar:       lipgloss.Color("75"),
		Roles: map[sim.Role]lipgloss.Color{
			sim.RoleCurrent: lipgloss.Color("220"),
			sim.RoleNext:    lipgloss.Color("213"),
			sim.RolePivot:   lipgloss.Color("203"),
			sim.RoleLeft:    lipgloss.Color("86"),
			sim.RoleRight:   lipgloss.Color("213"),
			sim.RoleMid:     lipgloss.Color("220"),
			sim.RoleMerge:   lipgloss.Color("82"),
			sim.RoleFound:   lipgloss.Color("82"),
		},
	}

	ThemeRetro = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // green phosphor
		Secondary: lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#008800"),
		Faint:     lipgloss.Color("#005500"),
		Success:   lipgloss.Color("#ccffcc"),
		Warning:   lipgloss.Color("#ffff00"),
		Error:     lipgloss.Color("#ff5555"),
		Bar:       lipgloss.Color("#00aa00"),
		Roles: map[sim.Role]lipgloss.Color{
			sim.RoleCurrent: lipgloss.Color("#ffff00"),
			sim.RoleNext:    lipgloss.Color("#88ff88"),
			sim.RolePivot:   lipgloss.Color("#ff5555"),
			sim.RoleLeft:    lipgloss.Color("#ccffcc"),
			sim.RoleRight:   lipgloss.Color("#88ff88"),
			sim.RoleMid:     lipgloss.Color("#ffff00"),
			sim.RoleMerge:   lipgloss.Color("#ccffcc"),
			sim.RoleFound:   lipgloss.Color("#ffffff"),
		},
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Faint:     lipgloss.Color("#444444"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff0000"),
		Bar:       lipgloss.Color("#aaaaaa"),
		Roles: map[sim.Role]lipgloss.Color{
			sim.RoleCurrent: lipgloss.Color("#0088ff"),
			sim.RoleNext:    lipgloss.Color("#0088ff"),
			sim.RolePivot:   lipgloss.Color("#ffffff"),
			sim.RoleLeft:    lipgloss.Color("#0088ff"),
			sim.RoleRight:   lipgloss.Color("#0088ff"),
			sim.RoleMid:     lipgloss.Color("#ffffff"),
			sim.RoleMerge:   lipgloss.Color("#00ff00"),
			sim.RoleFound:   lipgloss.Color("#00ff00"),
		},
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#00a8cc"),
		Secondary: lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Faint:     lipgloss.Color("#224455"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffcc00"),
		Error:     lipgloss.Color("#ff4444"),
		Bar:       lipgloss.Color("#0077be"),
		Roles: map[sim.Role]lipgloss.Color{
			sim.RoleCurrent: lipgloss.Color("#ffd700"),
			sim.RoleNext:    lipgloss.Color("#ff9ff3"),
			sim.RolePivot:   lipgloss.Color("#ff4444"),
			sim.RoleLeft:    lipgloss.Color("#00ff88"),
			sim.RoleRight:   lipgloss.Color("#ff9ff3"),
			sim.RoleMid:     lipgloss.Color("#ffd700"),
			sim.RoleMerge:   lipgloss.Color("#00ff88"),
			sim.RoleFound:   lipgloss.Color("#00ff88"),
		},
	}

	DefaultTheme = ThemeClassic

	Themes = []Theme{
		ThemeClassic,
		ThemeRetro,
		ThemeMinimal,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	if t, ok := LookupTheme(name); ok {
		return t
	}
	return DefaultTheme
}

func LookupTheme(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Next returns the theme after t in Themes, wrapping around.
func (t Theme) Next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return DefaultTheme
}

// RoleColor returns the color for an element drawn in the given role.
func (t Theme) RoleColor(r sim.Role) lipgloss.Color {
	if c, ok := t.Roles[r]; ok {
		return c
	}
	return t.Bar
}

func (t Theme) Style(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}
