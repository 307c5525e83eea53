package form

import (
	"fmt"
	"slices"

	"investogun/internal/application/models"
	dErrors "investogun/pkg/domain-errors"
)

// List names a variable-length repeated group.
type List string

const (
	ListDirectors         List = "directors"
	ListShareholders      List = "shareholders"
	ListRawMaterials      List = "raw_materials"
	ListTechnicalPartners List = "technical_partners"
)

// Lists is every repeated group in form order.
var Lists = []List{ListDirectors, ListShareholders, ListRawMaterials, ListTechnicalPartners}

// listPaths maps the dotted prefix of a row path to its list.
var listPaths = map[string]List{
	"contacts.directors":         ListDirectors,
	"contacts.shareholders":      ListShareholders,
	"project.raw_materials":      ListRawMaterials,
	"project.technical_partners": ListTechnicalPartners,
}

// ParseList validates a list name from a route or action.
func ParseList(s string) (List, error) {
	l := List(s)
	if slices.Contains(Lists, l) {
		return l, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown list %q", s))
}

// Len returns the number of rows in l.
func Len(app models.Application, l List) int {
	switch l {
	case ListDirectors:
		return len(app.Contacts.Directors)
	case ListShareholders:
		return len(app.Contacts.Shareholders)
	case ListRawMaterials:
		return len(app.Project.RawMaterials)
	case ListTechnicalPartners:
		return len(app.Project.TechnicalPartners)
	}
	return 0
}

// CanRemove reports whether a row may be removed from l: every repeated group
// keeps at least one row.
func CanRemove(app models.Application, l List) bool {
	return Len(app, l) > 1
}

// AddRow appends one blank row to l and returns the updated copy.
func AddRow(app models.Application, l List) (models.Application, error) {
	if _, err := ParseList(string(l)); err != nil {
		return app, err
	}
	next := app.Clone()
	switch l {
	case ListDirectors:
		next.Contacts.Directors = append(next.Contacts.Directors, "")
	case ListShareholders:
		next.Contacts.Shareholders = append(next.Contacts.Shareholders, models.Shareholder{})
	case ListRawMaterials:
		next.Project.RawMaterials = append(next.Project.RawMaterials, models.RawMaterial{})
	case ListTechnicalPartners:
		next.Project.TechnicalPartners = append(next.Project.TechnicalPartners, models.TechnicalPartner{})
	}
	return next, nil
}

// RemoveRow deletes row index from l, keeping the order of the remaining rows.
// Removing the last remaining row is refused.
func RemoveRow(app models.Application, l List, index int) (models.Application, error) {
	if _, err := ParseList(string(l)); err != nil {
		return app, err
	}
	n := Len(app, l)
	if index < 0 || index >= n {
		return app, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s row %d does not exist", l, index+1))
	}
	if n <= 1 {
		return app, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must keep at least one row", l))
	}
	next := app.Clone()
	switch l {
	case ListDirectors:
		next.Contacts.Directors = slices.Delete(next.Contacts.Directors, index, index+1)
	case ListShareholders:
		next.Contacts.Shareholders = slices.Delete(next.Contacts.Shareholders, index, index+1)
	case ListRawMaterials:
		next.Project.RawMaterials = slices.Delete(next.Project.RawMaterials, index, index+1)
	case ListTechnicalPartners:
		next.Project.TechnicalPartners = slices.Delete(next.Project.TechnicalPartners, index, index+1)
	}
	return next, nil
}
