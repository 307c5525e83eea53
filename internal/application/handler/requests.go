package handler

import (
	"strings"

	dErrors "investogun/pkg/domain-errors"
)

// UpdateFieldsRequest sets dotted paths to values, e.g.
// {"fields": {"company.rc_number": "RC123", "contacts.shareholders.0.percent": "40"}}.
type UpdateFieldsRequest struct {
	Fields map[string]string `json:"fields"`
}

func (r *UpdateFieldsRequest) Validate() error {
	if len(r.Fields) == 0 {
		return dErrors.New(dErrors.CodeValidation, "fields is required")
	}
	for path := range r.Fields {
		if strings.TrimSpace(path) == "" {
			return dErrors.New(dErrors.CodeValidation, "field path must not be empty")
		}
	}
	return nil
}

type ToggleServiceRequest struct {
	Service string `json:"service"`
}

func (r *ToggleServiceRequest) Validate() error {
	r.Service = strings.TrimSpace(r.Service)
	if r.Service == "" {
		return dErrors.New(dErrors.CodeValidation, "service is required")
	}
	return nil
}
