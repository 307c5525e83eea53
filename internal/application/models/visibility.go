package models

// Gates decide whether a dependent field is shown. Hidden values are kept on
// the record and still serialized; toggling a gate back reveals them as
// they were entered.

// RCNumberVisible reports whether the CAC registration number input applies.
func (a Application) RCNumberVisible() bool {
	return a.Company.CACRegistered
}

// HowHeardOtherVisible reports whether the free-text "please specify" input
// for the how-heard question applies.
func (a Application) HowHeardOtherVisible() bool {
	return a.FacilitationServices.HowHeard == "Others"
}

// HasService reports whether service is currently selected.
func (a Application) HasService(service string) bool {
	for _, s := range a.FacilitationServices.Services {
		if s == service {
			return true
		}
	}
	return false
}
