package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pairplay/internal/export"
	"github.com/sadopc/pairplay/internal/library"
)

var fieldTitles = map[string]string{
	"content":     "Text",
	"title":       "Title",
	"description": "Description",
	"icon":        "Icon (blank = suggested)",
}

type editorModel struct {
	editor *library.Editor
	width  int
	height int

	browsing   bool
	kindCursor int

	kind       library.Kind
	role       library.Role
	subIdx     int
	itemCursor int

	formActive bool
	form       *huh.Form
	formType   string // "add", "edit", "import", "reset"

	// Form field pointers (survive value copies)
	fields       map[string]*string
	fRole        *string
	fSub         *string
	importPath   *string
	confirmReset *bool

	editingID  string
	editingSub string
}

func newEditorModel(ed *library.Editor) editorModel {
	fields := map[string]*string{}
	for _, f := range []string{"content", "title", "description", "icon"} {
		v := ""
		fields[f] = &v
	}
	role, sub, path := "", "", ""
	confirm := false
	return editorModel{
		editor:       ed,
		browsing:     true,
		role:         library.RoleMale,
		fields:       fields,
		fRole:        &role,
		fSub:         &sub,
		importPath:   &path,
		confirmReset: &confirm,
	}
}

func (e *editorModel) setSize(w, h int) {
	e.width = w
	e.height = h
}

func (e editorModel) sub() string {
	return e.kind.Config().Subcategories[e.subIdx]
}

func (e editorModel) items() []library.Item {
	return e.editor.Collection().Library(e.kind).Get(e.role, e.sub())
}

func (e editorModel) update(msg tea.Msg) (editorModel, tea.Cmd) {
	if e.formActive && e.form != nil {
		return e.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil
	}
	if e.browsing {
		return e.updateBrowser(keyMsg)
	}
	return e.updateBucket(keyMsg)
}

func (e editorModel) updateBrowser(msg tea.KeyMsg) (editorModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if e.kindCursor > 0 {
			e.kindCursor--
		}
	case key.Matches(msg, keys.Down):
		if e.kindCursor < len(library.Kinds)-1 {
			e.kindCursor++
		}
	case key.Matches(msg, keys.Enter):
		e.browsing = false
		e.kind = library.Kinds[e.kindCursor]
		e.subIdx = 0
		e.itemCursor = 0
	}
	return e, nil
}

func (e editorModel) updateBucket(msg tea.KeyMsg) (editorModel, tea.Cmd) {
	subs := e.kind.Config().Subcategories
	switch {
	case key.Matches(msg, keys.Back):
		e.browsing = true
	case key.Matches(msg, keys.Left):
		e.subIdx = (e.subIdx + len(subs) - 1) % len(subs)
		e.itemCursor = 0
	case key.Matches(msg, keys.Right):
		e.subIdx = (e.subIdx + 1) % len(subs)
		e.itemCursor = 0
	case key.Matches(msg, keys.Partner):
		if e.role == library.RoleMale {
			e.role = library.RoleFemale
		} else {
			e.role = library.RoleMale
		}
		e.itemCursor = 0
	case key.Matches(msg, keys.Up):
		if e.itemCursor > 0 {
			e.itemCursor--
		}
	case key.Matches(msg, keys.Down):
		if e.itemCursor < len(e.items())-1 {
			e.itemCursor++
		}
	case key.Matches(msg, keys.New):
		return e.showItemForm("add", library.Item{})
	case key.Matches(msg, keys.Edit):
		items := e.items()
		if e.itemCursor < len(items) {
			return e.showItemForm("edit", items[e.itemCursor])
		}
	case key.Matches(msg, keys.Delete):
		items := e.items()
		if e.itemCursor < len(items) {
			e.editor.DeleteItem(e.kind, e.role, e.sub(), items[e.itemCursor].ID)
			if e.itemCursor >= len(e.items()) && e.itemCursor > 0 {
				e.itemCursor--
			}
			return e, statusCmd("Deleted")
		}
	case key.Matches(msg, keys.Export):
		return e, e.exportCmd()
	case key.Matches(msg, keys.Template):
		return e, e.templateCmd()
	case key.Matches(msg, keys.Import):
		return e.showImportForm()
	case key.Matches(msg, keys.Reset):
		return e.showResetForm()
	}
	return e, nil
}

func (e editorModel) showItemForm(formType string, item library.Item) (editorModel, tea.Cmd) {
	cfg := e.kind.Config()
	for name, ptr := range e.fields {
		*ptr = item.Field(name)
	}
	*e.fRole = string(e.role)
	*e.fSub = e.sub()
	e.editingID = item.ID
	e.editingSub = e.sub()
	e.formType = formType

	var inputs []huh.Field
	for _, f := range cfg.Fields {
		inputs = append(inputs, huh.NewInput().
			Title(fieldTitles[f]).
			Placeholder(cfg.Placeholders[f]).
			Value(e.fields[f]))
	}

	groups := []*huh.Group{huh.NewGroup(inputs...)}
	if formType == "edit" {
		roleOptions := make([]huh.Option[string], len(library.Roles))
		for i, r := range library.Roles {
			roleOptions[i] = huh.NewOption(roleLabel(e.kind, r), string(r))
		}
		subOptions := make([]huh.Option[string], len(cfg.Subcategories))
		for i, s := range cfg.Subcategories {
			subOptions[i] = huh.NewOption(cfg.SubLabels[s], s)
		}
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[string]().Title("Partner").Options(roleOptions...).Value(e.fRole),
			huh.NewSelect[string]().Title("Category").Options(subOptions...).Value(e.fSub),
		).Title("Move to"))
	}

	e.form = huh.NewForm(groups...).WithShowHelp(true).WithShowErrors(true)
	e.formActive = true
	return e, e.form.Init()
}

func (e editorModel) showImportForm() (editorModel, tea.Cmd) {
	*e.importPath = ""
	e.formType = "import"
	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("File to import").Placeholder("/path/to/library.json").Value(e.importPath),
		),
	).WithShowHelp(true).WithShowErrors(true)
	e.formActive = true
	return e, e.form.Init()
}

func (e editorModel) showResetForm() (editorModel, tea.Cmd) {
	*e.confirmReset = false
	e.formType = "reset"
	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Reset %s to defaults?", e.kind.Config().Name)).
				Description("Every item in this library will be removed.").
				Value(e.confirmReset),
		),
	).WithShowHelp(true).WithShowErrors(true)
	e.formActive = true
	return e, e.form.Init()
}

func (e editorModel) updateForm(msg tea.Msg) (editorModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			e.formActive = false
			e.form = nil
			return e, nil
		}
	}

	form, cmd := e.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		e.form = f
	}

	if e.form.State == huh.StateCompleted {
		e.formActive = false
		switch e.formType {
		case "add":
			return e.completeAdd()
		case "edit":
			return e.completeEdit()
		case "import":
			return e.completeImport()
		case "reset":
			if *e.confirmReset {
				e.editor.Reset(e.kind)
				e.itemCursor = 0
				return e, statusCmd(e.kind.Config().Name + " reset")
			}
			return e, nil
		}
	}

	return e, cmd
}

func (e editorModel) completeAdd() (editorModel, tea.Cmd) {
	item := e.itemFromForm()
	if _, err := e.editor.AddItem(e.kind, e.role, e.sub(), item); err != nil {
		var verr library.ValidationError
		if errors.As(err, &verr) {
			return e, errorCmd(fmt.Errorf("%s is required", fieldTitles[verr.Field]))
		}
		return e, errorCmd(err)
	}
	return e, statusCmd("Added")
}

func (e editorModel) completeEdit() (editorModel, tea.Cmd) {
	item := e.itemFromForm()
	item.ID = e.editingID
	newRole := library.Role(*e.fRole)
	newSub := *e.fSub
	e.editor.UpdateItem(e.kind, item, e.role, e.editingSub, newRole, newSub)
	if e.itemCursor >= len(e.items()) && e.itemCursor > 0 {
		e.itemCursor--
	}
	return e, statusCmd("Saved")
}

func (e editorModel) itemFromForm() library.Item {
	var item library.Item
	item.Content = *e.fields["content"]
	item.Title = *e.fields["title"]
	item.Description = *e.fields["description"]
	item.Icon = *e.fields["icon"]
	return item
}

// exportCmd serializes on the UI goroutine; only the file write runs in
// the command, so the collection is never read concurrently.
func (e editorModel) exportCmd() tea.Cmd {
	kind := e.kind
	data, err := e.editor.Export(kind)
	if err != nil {
		if errors.Is(err, library.ErrEmptyLibrary) {
			err = errors.New("nothing to export: the library is empty")
		}
		return errorCmd(err)
	}
	return func() tea.Msg {
		home, err := os.UserHomeDir()
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		path, err := export.WriteLibrary(home, kind, data)
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (e editorModel) templateCmd() tea.Cmd {
	kind := e.kind
	ed := e.editor
	return func() tea.Msg {
		data, err := ed.Template(kind)
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		path, err := export.WriteTemplate(home, kind, data)
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

// completeImport runs synchronously: the import mutates the shared
// collection, so it must happen on the UI goroutine.
func (e editorModel) completeImport() (editorModel, tea.Cmd) {
	payload, err := export.ReadLibraryFile(strings.TrimSpace(*e.importPath))
	if err != nil {
		return e, errorCmd(err)
	}
	res, err := e.editor.Import(payload, e.kind)
	if err != nil {
		return e, errorCmd(err)
	}
	e.itemCursor = 0
	var names []string
	for _, k := range res.Kinds {
		names = append(names, k.Config().Name)
	}
	label := "Imported " + strings.Join(names, ", ")
	if res.Bundle {
		label += " (bundle)"
	}
	return e, statusCmd(label)
}

func (e editorModel) view() string {
	w := e.width - 4

	if e.formActive && e.form != nil {
		title := map[string]string{
			"add":    "New Item",
			"edit":   "Edit Item",
			"import": "Import Library",
			"reset":  "Reset Library",
		}[e.formType]
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", e.form.View()),
		)
	}

	if e.browsing {
		return e.renderBrowser(w)
	}
	return e.renderBucket(w)
}

func (e editorModel) renderBrowser(w int) string {
	rows := []string{titleStyle.Render("Libraries"), ""}
	for i, k := range library.Kinds {
		cursor := "  "
		style := normalItemStyle
		if i == e.kindCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		count := e.editor.Collection().Library(k).Count()
		rows = append(rows, style.Render(cursor+k.Config().Name)+
			mutedStyle.Render(fmt.Sprintf("  %d items", count)))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: open"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (e editorModel) renderBucket(w int) string {
	cfg := e.kind.Config()

	var subTabs []string
	for i, s := range cfg.Subcategories {
		label := cfg.SubLabels[s]
		if i == e.subIdx {
			subTabs = append(subTabs, secondaryStyle.Bold(true).Render("["+label+"]"))
		} else {
			subTabs = append(subTabs, mutedStyle.Render(" "+label+" "))
		}
	}

	title := titleStyle.Render(cfg.Name) + "  " +
		roleStyleFor(e.role).Render(roleLabel(e.kind, e.role))

	rows := []string{
		title,
		strings.Join(subTabs, " "),
		"",
	}

	items := e.items()
	if len(items) == 0 {
		rows = append(rows, mutedStyle.Render("Empty. Press n to add an item."))
	}
	for i, it := range items {
		cursor := "  "
		style := normalItemStyle
		if i == e.itemCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		text := it.Text()
		if r := []rune(text); w > 10 && len(r) > w-10 {
			text = string(r[:w-10]) + "…"
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, it.Icon, text)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  ←/→: category  p: partner"))
	rows = append(rows, mutedStyle.Render("  o: export  i: import  t: template  R: reset  esc: back"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
