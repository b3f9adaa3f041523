package segmentation

import (
	"fmt"
	"strings"

	"github.com/okian/perfscope/internal/adapters/workbook"
	"github.com/okian/perfscope/internal/domain/model"
	"github.com/okian/perfscope/internal/domain/rules"
)

// UnnamedUser is the display name used when a row carries no name.
const UnnamedUser = "Sin nombre"

// Result is the outcome of extracting a segmentation workbook.
type Result struct {
	Directory *Directory
	// Segmentations lists the segmentation column headers found, in order.
	Segmentations []string
	Diagnostics   model.Diagnostics
}

// Extract builds a Directory from every qualifying sheet of wb. Sheets are
// processed in workbook order, so later rows win on identifier clashes.
func Extract(wb *workbook.Workbook) Result {
	res := Result{Directory: NewDirectory()}
	seen := make(map[string]struct{})

	for _, sheet := range wb.Sheets {
		segs, err := extractSheet(sheet, res.Directory)
		if err != nil {
			res.Diagnostics.Warn(sheet.Name, err.Error())
			continue
		}
		for _, s := range segs {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			res.Segmentations = append(res.Segmentations, s)
		}
	}
	return res
}

// sheetLayout describes a qualifying segmentation sheet.
type sheetLayout struct {
	identity      []int
	segmentations []string
	roles         map[rules.Role]int
}

func analyze(header []string) sheetLayout {
	l := sheetLayout{roles: make(map[rules.Role]int)}
	for i, cell := range header {
		text := strings.TrimSpace(cell)
		if text == "" {
			continue
		}
		if rules.Contains(text, rules.IdentityColumns...) {
			l.identity = append(l.identity, i)
		}
		if rules.Contains(text, rules.SegmentationColumns...) {
			l.segmentations = append(l.segmentations, text)
		}
		if role, ok := rules.Roles[rules.Fold(text)]; ok {
			if _, dup := l.roles[role]; !dup {
				l.roles[role] = i
			}
		}
	}
	return l
}

func extractSheet(sheet workbook.Sheet, dir *Directory) ([]string, error) {
	if len(sheet.Rows) == 0 {
		return nil, fmt.Errorf("La hoja %q está vacía", sheet.Name)
	}
	layout := analyze(sheet.Rows[0])
	if len(layout.identity) == 0 {
		return nil, fmt.Errorf("La hoja %q no tiene una estructura válida de usuarios", sheet.Name)
	}
	for r := 1; r < len(sheet.Rows); r++ {
		if workbook.IsBlank(sheet.Rows[r]) {
			continue
		}
		if u, ok := userFromRow(sheet, r, layout.roles); ok {
			dir.Set(u)
		}
	}
	return layout.segmentations, nil
}

func userFromRow(sheet workbook.Sheet, r int, roles map[rules.Role]int) (model.UserSegmentation, bool) {
	get := func(role rules.Role) string {
		if c, ok := roles[role]; ok {
			return sheet.Cell(r, c)
		}
		return ""
	}

	name := DisplayName(get)
	id := firstNonBlank(get(rules.RoleEmail), get(rules.RoleUser), nameIdentifier(name))
	if id == "" {
		return model.UserSegmentation{}, false
	}
	return model.UserSegmentation{
		ID:       id,
		Name:     name,
		Area:     get(rules.RoleArea),
		SubArea:  get(rules.RoleSubArea),
		Location: get(rules.RoleLocation),
	}, true
}

// DisplayName derives a name with priority: combined name column, nombre +
// apellido, nombre, name, fullname.
func DisplayName(get func(rules.Role) string) string {
	nombre, apellido := get(rules.RoleNombre), get(rules.RoleApellido)
	switch {
	case get(rules.RoleFullName) != "":
		return get(rules.RoleFullName)
	case nombre != "" && apellido != "":
		return strings.TrimSpace(nombre + " " + apellido)
	case nombre != "":
		return nombre
	case get(rules.RoleName) != "":
		return get(rules.RoleName)
	case get(rules.RoleFullname) != "":
		return get(rules.RoleFullname)
	default:
		return UnnamedUser
	}
}

// nameIdentifier is the last-resort identifier: the derived name, unless
// no name column carried a value.
func nameIdentifier(name string) string {
	if name == UnnamedUser {
		return ""
	}
	return name
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
