package form

import "investogun/internal/application/models"

// scalarFields maps a dotted form path to the string field it edits.
var scalarFields = map[string]func(*models.Application) *string{
	"investor_status": func(a *models.Application) *string { return &a.InvestorStatus },

	"company.name_or_promoter":                func(a *models.Application) *string { return &a.Company.NameOrPromoter },
	"company.rc_number":                       func(a *models.Application) *string { return &a.Company.RCNumber },
	"company.registered_address":              func(a *models.Application) *string { return &a.Company.RegisteredAddress },
	"company.country_of_incorporation":        func(a *models.Application) *string { return &a.Company.CountryOfIncorporation },
	"company.business_location.country":       func(a *models.Application) *string { return &a.Company.BusinessLocation.Country },
	"company.business_location.state_nigeria": func(a *models.Application) *string { return &a.Company.BusinessLocation.StateNigeria },
	"company.sector_industry":                 func(a *models.Application) *string { return &a.Company.SectorIndustry },
	"company.company_email":                   func(a *models.Application) *string { return &a.Company.CompanyEmail },
	"company.company_website":                 func(a *models.Application) *string { return &a.Company.CompanyWebsite },

	"contacts.md_ceo.surname":              func(a *models.Application) *string { return &a.Contacts.MDCEO.Surname },
	"contacts.md_ceo.first_name":           func(a *models.Application) *string { return &a.Contacts.MDCEO.FirstName },
	"contacts.md_ceo.other_names":          func(a *models.Application) *string { return &a.Contacts.MDCEO.OtherNames },
	"contacts.md_ceo.nationality":          func(a *models.Application) *string { return &a.Contacts.MDCEO.Nationality },
	"contacts.md_ceo.mobile":               func(a *models.Application) *string { return &a.Contacts.MDCEO.Mobile },
	"contacts.md_ceo.email":                func(a *models.Application) *string { return &a.Contacts.MDCEO.Email },
	"contacts.share_capitalization_amount": func(a *models.Application) *string { return &a.Contacts.ShareCapitalizationAmount },

	"project.overview":                     func(a *models.Application) *string { return &a.Project.Overview },
	"project.sector":                       func(a *models.Application) *string { return &a.Project.Sector },
	"project.total_value_usd":              func(a *models.Application) *string { return &a.Project.TotalValueUSD },
	"project.location_lga":                 func(a *models.Application) *string { return &a.Project.LocationLGA },
	"project.jobs_direct":                  func(a *models.Application) *string { return &a.Project.JobsDirect },
	"project.jobs_indirect":                func(a *models.Application) *string { return &a.Project.JobsIndirect },
	"project.project_commencement_date":    func(a *models.Application) *string { return &a.Project.ProjectCommencementDate },
	"project.operations_commencement_date": func(a *models.Application) *string { return &a.Project.OperationsCommencementDate },
	"project.phases.year1_initial":         func(a *models.Application) *string { return &a.Project.Phases.Year1Initial },
	"project.phases.year2":                 func(a *models.Application) *string { return &a.Project.Phases.Year2 },
	"project.phases.year3":                 func(a *models.Application) *string { return &a.Project.Phases.Year3 },

	"facilitation_services.other_services_detail":  func(a *models.Application) *string { return &a.FacilitationServices.OtherServicesDetail },
	"facilitation_services.how_heard":              func(a *models.Application) *string { return &a.FacilitationServices.HowHeard },
	"facilitation_services.how_heard_other_detail": func(a *models.Application) *string { return &a.FacilitationServices.HowHeardOtherDetail },
	"facilitation_services.motivation":             func(a *models.Application) *string { return &a.FacilitationServices.Motivation },

	"declaration.signer_name":      func(a *models.Application) *string { return &a.Declaration.SignerName },
	"declaration.designation_role": func(a *models.Application) *string { return &a.Declaration.DesignationRole },
	"declaration.date":             func(a *models.Application) *string { return &a.Declaration.Date },
	"declaration.phone":            func(a *models.Application) *string { return &a.Declaration.Phone },
	"declaration.email":            func(a *models.Application) *string { return &a.Declaration.Email },
}

var boolFields = map[string]func(*models.Application) *bool{
	"company.cac_registered": func(a *models.Application) *bool { return &a.Company.CACRegistered },
	"declaration.agreed":     func(a *models.Application) *bool { return &a.Declaration.Agreed },
}

// rowFields maps "<list>.<field>" to the string field within row i.
var rowFields = map[string]func(*models.Application, int) *string{
	"contacts.shareholders.name":        func(a *models.Application, i int) *string { return &a.Contacts.Shareholders[i].Name },
	"contacts.shareholders.nationality": func(a *models.Application, i int) *string { return &a.Contacts.Shareholders[i].Nationality },
	"contacts.shareholders.percent":     func(a *models.Application, i int) *string { return &a.Contacts.Shareholders[i].Percent },

	"project.raw_materials.material": func(a *models.Application, i int) *string { return &a.Project.RawMaterials[i].Material },
	"project.raw_materials.source":   func(a *models.Application, i int) *string { return &a.Project.RawMaterials[i].Source },

	"project.technical_partners.name":              func(a *models.Application, i int) *string { return &a.Project.TechnicalPartners[i].Name },
	"project.technical_partners.country_of_origin": func(a *models.Application, i int) *string { return &a.Project.TechnicalPartners[i].CountryOfOrigin },
	"project.technical_partners.website":           func(a *models.Application, i int) *string { return &a.Project.TechnicalPartners[i].Website },
}

// fieldAliases rewrites legacy column names to their payload key.
var fieldAliases = map[string]string{
	"contacts.shareholders.percentage": "contacts.shareholders.percent",
}

// ServicesPath is the multi-valued path carrying selected facilitation services.
const ServicesPath = "facilitation_services.services"
