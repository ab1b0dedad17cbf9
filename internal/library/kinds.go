package library

// Kind tags one of the three libraries. Behavior that varies per library
// (required fields, subcategories, defaults) lives in the Config table and
// is dispatched by exhaustive switches over Kind.
type Kind int

const (
	KindTasks Kind = iota
	KindPositionCards
	KindPunishments
)

// Kinds lists the library kinds in display order.
var Kinds = []Kind{KindTasks, KindPositionCards, KindPunishments}

func (k Kind) String() string {
	switch k {
	case KindTasks:
		return "tasks"
	case KindPositionCards:
		return "position_cards"
	case KindPunishments:
		return "punishments"
	}
	return "unknown"
}

// Config is the static per-kind description consumed by the editor, the
// turn engine's pool assembly and the import/export format.
type Config struct {
	Name          string
	RoleLabels    map[Role]string
	Subcategories []string
	SubLabels     map[string]string
	Fields        []string          // required record fields, icon may be blank on input
	Placeholders  map[string]string // template example values per field
	BundleKey     string            // slot name in a multi-library bundle file
	Default       func() Library
}

var roleLabels = map[Role]string{
	RoleMale:   "Him",
	RoleFemale: "Her",
}

// Config returns the static configuration for the kind.
func (k Kind) Config() Config {
	switch k {
	case KindTasks:
		return Config{
			Name:          "Board Tasks",
			RoleLabels:    roleLabels,
			Subcategories: []string{DifficultyWarmup, DifficultyIntimate, DifficultyAdventure},
			SubLabels: map[string]string{
				DifficultyWarmup:    "Warmup",
				DifficultyIntimate:  "Intimate",
				DifficultyAdventure: "Adventure",
			},
			Fields: []string{"content", "icon"},
			Placeholders: map[string]string{
				"content": "Example task text",
				"icon":    "🎯",
			},
			BundleKey: "taskLibrary",
			Default:   defaultTaskLibrary,
		}
	case KindPositionCards:
		return Config{
			Name:          "Position Cards",
			RoleLabels:    roleLabels,
			Subcategories: []string{ModeCute, ModeFun, ModeDeep},
			SubLabels: map[string]string{
				ModeCute: "Cute",
				ModeFun:  "Fun",
				ModeDeep: "Deep",
			},
			Fields: []string{"title", "description", "icon"},
			Placeholders: map[string]string{
				"title":       "Example title",
				"description": "Example description",
				"icon":        "💑",
			},
			BundleKey: "positionCardsLibrary",
			Default:   defaultPositionCardsLibrary,
		}
	case KindPunishments:
		return Config{
			Name:          "Punishments",
			RoleLabels:    roleLabels,
			Subcategories: []string{IntensityMild, IntensityMedium, IntensityIntense},
			SubLabels: map[string]string{
				IntensityMild:    "Mild",
				IntensityMedium:  "Medium",
				IntensityIntense: "Intense",
			},
			Fields: []string{"content", "icon"},
			Placeholders: map[string]string{
				"content": "Example punishment text",
				"icon":    "🎭",
			},
			BundleKey: "punishmentLibrary",
			Default:   defaultPunishmentLibrary,
		}
	}
	return Config{}
}

// The defaults ship empty buckets; users populate libraries through the
// editor or by importing a file.

func defaultTaskLibrary() Library {
	return Library{}.Normalize(KindTasks.Config().Subcategories)
}

func defaultPositionCardsLibrary() Library {
	return Library{}.Normalize(KindPositionCards.Config().Subcategories)
}

func defaultPunishmentLibrary() Library {
	return Library{}.Normalize(KindPunishments.Config().Subcategories)
}
