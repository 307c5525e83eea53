// Package form holds the edit operations over an in-progress application.
//
// Every operation is copy-on-write: it takes an Application by value, edits a
// deep copy and returns it. The input is never modified, so a failed edit
// leaves the caller's record exactly as it was.
//
// Fields are addressed by the dotted path of their JSON key, which is also
// the name attribute of the matching HTML input:
//
//	company.rc_number
//	contacts.directors.2
//	contacts.shareholders.0.percent
package form

import (
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"

	"investogun/internal/application/models"
	"investogun/internal/reference"
	dErrors "investogun/pkg/domain-errors"
	platformstrings "investogun/pkg/platform/strings"
)

// Editor applies field, list and service edits, checking choice fields
// against the reference option lists.
type Editor struct {
	ref *reference.Data
}

// NewEditor builds an Editor. A nil ref uses the embedded reference data.
func NewEditor(ref *reference.Data) *Editor {
	if ref == nil {
		ref = reference.Default()
	}
	return &Editor{ref: ref}
}

// Reference exposes the option lists the editor validates against.
func (e *Editor) Reference() *reference.Data {
	return e.ref
}

// Set assigns value to the field at path.
func (e *Editor) Set(app models.Application, path, value string) (models.Application, error) {
	next := app.Clone()
	if err := e.set(&next, path, value); err != nil {
		return app, err
	}
	return next, nil
}

// Apply assigns every path present in values. Keys without a dot (actions,
// hidden tokens) are ignored. When a key repeats, the last value wins, which
// lets a hidden "false" input precede a checkbox of the same name. Paths are
// applied in sorted order so the first reported error is deterministic.
func (e *Editor) Apply(app models.Application, values url.Values) (models.Application, error) {
	next := app.Clone()
	paths := make([]string, 0, len(values))
	for k := range values {
		if strings.Contains(k, ".") || k == "investor_status" {
			paths = append(paths, k)
		}
	}
	sort.Strings(paths)

	for _, path := range paths {
		vs := values[path]
		if path == ServicesPath {
			services, err := e.selectedServices(vs)
			if err != nil {
				return app, err
			}
			next.FacilitationServices.Services = services
			continue
		}
		if len(vs) == 0 {
			continue
		}
		if err := e.set(&next, path, vs[len(vs)-1]); err != nil {
			return app, err
		}
	}
	return next, nil
}

// ToggleService adds service to the selection when absent, removes it when
// present. Selection order is preserved.
func (e *Editor) ToggleService(app models.Application, service string) (models.Application, error) {
	if !e.ref.Contains(reference.KindFacilitationServices, service) {
		return app, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown facilitation service %q", service))
	}
	next := app.Clone()
	services := next.FacilitationServices.Services
	if i := slices.Index(services, service); i >= 0 {
		next.FacilitationServices.Services = slices.Delete(services, i, i+1)
	} else {
		next.FacilitationServices.Services = append(services, service)
	}
	return next, nil
}

// AttachmentField names one of the attachment lists.
type AttachmentField string

const (
	AttachmentBusinessPlan   AttachmentField = "business_plan_files"
	AttachmentCompanyProfile AttachmentField = "company_profile_files"
)

// ParseAttachmentField validates an attachment list name.
func ParseAttachmentField(s string) (AttachmentField, error) {
	switch f := AttachmentField(s); f {
	case AttachmentBusinessPlan, AttachmentCompanyProfile:
		return f, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown attachment field %q", s))
}

// SetAttachments replaces the file list of field, as choosing files in a file
// input replaces the previous choice.
func SetAttachments(app models.Application, field AttachmentField, files []models.Attachment) (models.Application, error) {
	if _, err := ParseAttachmentField(string(field)); err != nil {
		return app, err
	}
	next := app.Clone()
	list := make([]models.Attachment, len(files))
	copy(list, files)
	switch field {
	case AttachmentBusinessPlan:
		next.Attachments.BusinessPlanFiles = list
	case AttachmentCompanyProfile:
		next.Attachments.CompanyProfileFiles = list
	}
	return next, nil
}

func (e *Editor) set(app *models.Application, path, value string) error {
	path = strings.TrimSpace(path)

	if field, ok := scalarFields[path]; ok {
		v := cleanText(value)
		if err := e.checkChoice(path, v); err != nil {
			return err
		}
		*field(app) = v
		return nil
	}

	if field, ok := boolFields[path]; ok {
		b, err := parseBool(value)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("invalid value for %s", path))
		}
		*field(app) = b
		return nil
	}

	return setRowField(app, path, cleanText(value))
}

// setRowField handles "<list>.<index>" (directors) and
// "<list>.<index>.<field>" (table rows).
func setRowField(app *models.Application, path, value string) error {
	prefix, rest, ok := cutList(path)
	if !ok {
		return unknownPath(path)
	}
	list := listPaths[prefix]

	indexPart, field, hasField := strings.Cut(rest, ".")
	index, err := strconv.Atoi(indexPart)
	if err != nil || index < 0 {
		return unknownPath(path)
	}
	if index >= Len(*app, list) {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s row %d does not exist", list, index+1))
	}

	if list == ListDirectors {
		if hasField {
			return unknownPath(path)
		}
		app.Contacts.Directors[index] = value
		return nil
	}
	if !hasField {
		return unknownPath(path)
	}

	key := prefix + "." + field
	if alias, ok := fieldAliases[key]; ok {
		key = alias
	}
	target, ok := rowFields[key]
	if !ok {
		return unknownPath(path)
	}
	*target(app, index) = value
	return nil
}

func cutList(path string) (prefix, rest string, ok bool) {
	for p := range listPaths {
		if after, found := strings.CutPrefix(path, p+"."); found {
			return p, after, true
		}
	}
	return "", "", false
}

// checkChoice rejects values a select element could not have produced.
// Empty is always allowed: it is the "Select option" placeholder.
func (e *Editor) checkChoice(path, v string) error {
	if v == "" {
		return nil
	}
	var kind reference.Kind
	switch path {
	case "investor_status":
		if v != models.InvestorStatusExisting && v != models.InvestorStatusNew {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("invalid investor status %q", v))
		}
		return nil
	case "company.country_of_incorporation", "company.business_location.country":
		kind = reference.KindCountries
	case "company.business_location.state_nigeria":
		kind = reference.KindStates
	case "project.location_lga":
		kind = reference.KindLGAs
	case "facilitation_services.how_heard":
		kind = reference.KindHowHeard
	default:
		return nil
	}
	if !e.ref.Contains(kind, v) {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%q is not a valid option for %s", v, path))
	}
	return nil
}

func (e *Editor) selectedServices(values []string) ([]string, error) {
	out := platformstrings.DedupeAndTrim(values)
	for _, v := range out {
		if !e.ref.Contains(reference.KindFacilitationServices, v) {
			return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown facilitation service %q", v))
		}
	}
	return out, nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "on", "1":
		return true, nil
	case "no", "false", "off", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", v)
}

func unknownPath(path string) error {
	return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown field %q", path))
}
