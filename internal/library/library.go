// Package library holds the three user-editable item libraries (board-game
// tasks, position cards, punishments) and the editor operations over them.
//
// Every library is partitioned twice: by player role, then by a per-kind
// subcategory (difficulty, mode or intensity). Readers must treat absent
// buckets as empty, never as an error.
package library

// Role partitions every library at the top level.
type Role string

const (
	RoleMale   Role = "male"
	RoleFemale Role = "female"
)

// Roles lists the two roles in fixed order.
var Roles = []Role{RoleMale, RoleFemale}

// Task difficulties.
const (
	DifficultyWarmup    = "warmup"
	DifficultyIntimate  = "intimate"
	DifficultyAdventure = "adventure"
)

// Position-card modes.
const (
	ModeCute = "cute"
	ModeFun  = "fun"
	ModeDeep = "deep"
)

// Punishment intensities.
const (
	IntensityMild    = "mild"
	IntensityMedium  = "medium"
	IntensityIntense = "intense"
)

// Item is one user-editable record. The three kinds share the struct; a
// kind's Config declares which fields are required. Fields a kind does not
// use stay empty and are dropped from JSON.
type Item struct {
	ID          string `json:"id,omitempty"`
	Content     string `json:"content,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	TextColor   string `json:"textColor,omitempty"`
}

// Field returns the value of a named record field. Unknown names read as
// empty, mirroring how imported records with missing fields behave.
func (it Item) Field(name string) string {
	switch name {
	case "content":
		return it.Content
	case "title":
		return it.Title
	case "description":
		return it.Description
	case "icon":
		return it.Icon
	case "color":
		return it.Color
	case "textColor":
		return it.TextColor
	}
	return ""
}

func (it *Item) setField(name, value string) {
	switch name {
	case "content":
		it.Content = value
	case "title":
		it.Title = value
	case "description":
		it.Description = value
	case "icon":
		it.Icon = value
	case "color":
		it.Color = value
	case "textColor":
		it.TextColor = value
	}
}

// Text returns the item's main text, preferring content over title.
func (it Item) Text() string {
	if it.Content != "" {
		return it.Content
	}
	return it.Title
}

// Library maps role → subcategory → ordered items.
type Library map[Role]map[string][]Item

// Get returns the bucket at (role, sub). Absent paths read as empty.
func (l Library) Get(role Role, sub string) []Item {
	if l == nil {
		return nil
	}
	return l[role][sub]
}

// Count returns the total number of items across all buckets.
func (l Library) Count() int {
	n := 0
	for _, subs := range l {
		for _, items := range subs {
			n += len(items)
		}
	}
	return n
}

// Clone returns a deep copy. Mirror goroutines read clones so the UI
// goroutine can keep mutating the live maps.
func (l Library) Clone() Library {
	out := make(Library, len(l))
	for role, subs := range l {
		m := make(map[string][]Item, len(subs))
		for sub, items := range subs {
			m[sub] = append([]Item(nil), items...)
		}
		out[role] = m
	}
	return out
}

// Normalize ensures every (role, sub) pair maps to a bucket so that writers
// can append without nil checks.
func (l Library) Normalize(subs []string) Library {
	for _, role := range Roles {
		if l[role] == nil {
			l[role] = make(map[string][]Item, len(subs))
		}
		for _, sub := range subs {
			if l[role][sub] == nil {
				l[role][sub] = []Item{}
			}
		}
	}
	return l
}

// Collection is the process-wide set of all three libraries, owned by the
// application session and persisted after every mutation.
type Collection struct {
	Tasks         Library `json:"taskLibrary"`
	PositionCards Library `json:"positionCardsLibrary"`
	Punishments   Library `json:"punishmentLibrary"`
}

// NewCollection returns a collection seeded with each kind's default data.
func NewCollection() *Collection {
	c := &Collection{}
	for _, k := range Kinds {
		c.SetLibrary(k, k.Config().Default())
	}
	return c
}

// Library returns the library for a kind.
func (c *Collection) Library(k Kind) Library {
	switch k {
	case KindTasks:
		return c.Tasks
	case KindPositionCards:
		return c.PositionCards
	case KindPunishments:
		return c.Punishments
	}
	return nil
}

// Clone returns a deep copy of all three libraries.
func (c *Collection) Clone() *Collection {
	return &Collection{
		Tasks:         c.Tasks.Clone(),
		PositionCards: c.PositionCards.Clone(),
		Punishments:   c.Punishments.Clone(),
	}
}

// SetLibrary replaces the library for a kind wholesale. Buckets outside the
// kind's role and subcategory space are dropped, so the in-memory state
// never carries items the store would lose on the next save.
func (c *Collection) SetLibrary(k Kind, l Library) {
	clean := Library{}.Normalize(k.Config().Subcategories)
	for _, role := range Roles {
		for _, sub := range k.Config().Subcategories {
			if items := l.Get(role, sub); len(items) > 0 {
				clean[role][sub] = append(clean[role][sub], items...)
			}
		}
	}
	switch k {
	case KindTasks:
		c.Tasks = clean
	case KindPositionCards:
		c.PositionCards = clean
	case KindPunishments:
		c.Punishments = clean
	}
}
