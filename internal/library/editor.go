package library

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Editor applies CRUD and import/export operations to a Collection. All
// operations are synchronous over in-memory state; the onChange hook fires
// after every successful mutation so the caller can persist the snapshot.
type Editor struct {
	col      *Collection
	onChange func()
	newID    func() string
}

// NewEditor wraps a collection. onChange may be nil.
func NewEditor(col *Collection, onChange func()) *Editor {
	return &Editor{col: col, onChange: onChange, newID: uuid.NewString}
}

// Collection returns the wrapped collection.
func (e *Editor) Collection() *Collection { return e.col }

func (e *Editor) notify() {
	if e.onChange != nil {
		e.onChange()
	}
}

// AddItem validates the record against the kind's required fields, fills a
// blank icon with a suggested glyph, assigns a fresh id and appends it to
// the (role, sub) bucket. The stored item is returned.
func (e *Editor) AddItem(kind Kind, role Role, sub string, item Item) (Item, error) {
	cfg := kind.Config()

	var clean Item
	for _, f := range cfg.Fields {
		v := strings.TrimSpace(item.Field(f))
		if f == "icon" {
			if v == "" {
				v = SuggestGlyph(clean.Text())
			} else {
				v = firstGlyph(v)
			}
		} else if v == "" {
			return Item{}, ValidationError{Field: f}
		}
		clean.setField(f, v)
	}
	// Optional display tags ride along untouched beyond trimming.
	clean.Color = strings.TrimSpace(item.Color)
	clean.TextColor = strings.TrimSpace(item.TextColor)
	clean.ID = e.newID()

	lib := e.col.Library(kind).Normalize(cfg.Subcategories)
	lib[role][sub] = append(lib[role][sub], clean)
	e.notify()
	return clean, nil
}

// DeleteItem removes the first item with the given id from the (role, sub)
// bucket. A missing id is a no-op, not an error.
func (e *Editor) DeleteItem(kind Kind, role Role, sub, id string) {
	lib := e.col.Library(kind)
	items := lib.Get(role, sub)
	for i, it := range items {
		if it.ID == id {
			lib[role][sub] = append(items[:i:i], items[i+1:]...)
			e.notify()
			return
		}
	}
}

// UpdateItem applies field changes to an existing item, matched by id.
// When the target bucket is unchanged the item is replaced in place,
// preserving order. When it differs the item moves: removed from the old
// bucket, appended to the new one. A missing id is a no-op.
func (e *Editor) UpdateItem(kind Kind, item Item, oldRole Role, oldSub string, newRole Role, newSub string) {
	cfg := kind.Config()
	lib := e.col.Library(kind).Normalize(cfg.Subcategories)

	for _, f := range cfg.Fields {
		item.setField(f, strings.TrimSpace(item.Field(f)))
	}
	if item.Icon == "" {
		item.Icon = SuggestGlyph(item.Text())
	} else {
		item.Icon = firstGlyph(item.Icon)
	}

	if oldRole == newRole && oldSub == newSub {
		items := lib[oldRole][oldSub]
		for i, it := range items {
			if it.ID == item.ID {
				items[i] = item
				e.notify()
				return
			}
		}
		return
	}

	items := lib[oldRole][oldSub]
	for i, it := range items {
		if it.ID == item.ID {
			lib[oldRole][oldSub] = append(items[:i:i], items[i+1:]...)
			lib[newRole][newSub] = append(lib[newRole][newSub], item)
			e.notify()
			return
		}
	}
}

// Export serializes one library's full role → subcategory structure.
// An all-empty library is rejected with ErrEmptyLibrary.
func (e *Editor) Export(kind Kind) ([]byte, error) {
	lib := e.col.Library(kind)
	if lib.Count() == 0 {
		return nil, ErrEmptyLibrary
	}
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s library: %w", kind, err)
	}
	return data, nil
}

// ImportResult reports what an import replaced.
type ImportResult struct {
	Bundle bool
	Kinds  []Kind
}

// Import classifies the payload and replaces libraries wholesale.
//
// A payload carrying any bundle slot name (taskLibrary, positionCardsLibrary,
// punishmentLibrary) replaces every library present in it. Any other payload
// must be a single-library structure with both role keys and replaces the
// currently selected kind. Imported item shape is not validated beyond the
// structural role keys; malformed records are accepted as-is.
//
// On error the current libraries are left unmodified.
func (e *Editor) Import(payload []byte, current Kind) (ImportResult, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	isBundle := false
	for _, k := range Kinds {
		if _, ok := raw[k.Config().BundleKey]; ok {
			isBundle = true
			break
		}
	}

	if isBundle {
		// Decode every slot before touching state so a bad slot aborts
		// the whole import.
		decoded := map[Kind]Library{}
		for _, k := range Kinds {
			slot, ok := raw[k.Config().BundleKey]
			if !ok {
				continue
			}
			var lib Library
			if err := json.Unmarshal(slot, &lib); err != nil {
				return ImportResult{}, fmt.Errorf("%w: slot %s: %v", ErrInvalidFormat, k.Config().BundleKey, err)
			}
			decoded[k] = lib
		}
		res := ImportResult{Bundle: true}
		for _, k := range Kinds {
			if lib, ok := decoded[k]; ok {
				e.col.SetLibrary(k, lib)
				res.Kinds = append(res.Kinds, k)
			}
		}
		e.notify()
		return res, nil
	}

	if _, ok := raw[string(RoleMale)]; !ok {
		return ImportResult{}, fmt.Errorf("%w: missing %q role", ErrInvalidFormat, RoleMale)
	}
	if _, ok := raw[string(RoleFemale)]; !ok {
		return ImportResult{}, fmt.Errorf("%w: missing %q role", ErrInvalidFormat, RoleFemale)
	}
	var lib Library
	if err := json.Unmarshal(payload, &lib); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	e.col.SetLibrary(current, lib)
	e.notify()
	return ImportResult{Kinds: []Kind{current}}, nil
}

// Template generates an importable skeleton with one example item per
// subcategory per role, using the kind's placeholder values. Pure
// generation, no persistence.
func (e *Editor) Template(kind Kind) ([]byte, error) {
	cfg := kind.Config()
	lib := Library{}.Normalize(cfg.Subcategories)
	for _, role := range Roles {
		for _, sub := range cfg.Subcategories {
			var example Item
			for _, f := range cfg.Fields {
				example.setField(f, cfg.Placeholders[f])
			}
			example.ID = "example-1"
			lib[role][sub] = []Item{example}
		}
	}
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s template: %w", kind, err)
	}
	return data, nil
}

// Reset replaces the library wholesale with the kind's default data. The
// caller is expected to confirm with the user first.
func (e *Editor) Reset(kind Kind) {
	e.col.SetLibrary(kind, kind.Config().Default())
	e.notify()
}

func firstGlyph(s string) string {
	for _, r := range s {
		return string(r)
	}
	return s
}
