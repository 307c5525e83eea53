package models

// Investor status values for the top-level radio group.
const (
	InvestorStatusExisting = "existing_investor"
	InvestorStatusNew      = "new_investor"
)

// DefaultWebsite pre-fills the company website input.
const DefaultWebsite = "https://"

// DateLayout is the layout of every date field (HTML date inputs).
const DateLayout = "2006-01-02"

// Application is the in-progress intake record. Its JSON form is the exact
// payload posted to the intake webhook.
type Application struct {
	InvestorStatus       string               `json:"investor_status"`
	Company              Company              `json:"company"`
	Contacts             Contacts             `json:"contacts"`
	Project              Project              `json:"project"`
	FacilitationServices FacilitationServices `json:"facilitation_services"`
	Declaration          Declaration          `json:"declaration"`
	Attachments          Attachments          `json:"attachments"`
}

type Company struct {
	NameOrPromoter         string           `json:"name_or_promoter"`
	CACRegistered          bool             `json:"cac_registered"`
	RCNumber               string           `json:"rc_number"`
	RegisteredAddress      string           `json:"registered_address"`
	CountryOfIncorporation string           `json:"country_of_incorporation"`
	BusinessLocation       BusinessLocation `json:"business_location"`
	SectorIndustry         string           `json:"sector_industry"`
	CompanyEmail           string           `json:"company_email"`
	CompanyWebsite         string           `json:"company_website"`
}

type BusinessLocation struct {
	Country      string `json:"country"`
	StateNigeria string `json:"state_nigeria"`
}

type Contacts struct {
	MDCEO                     Person        `json:"md_ceo"`
	Directors                 []string      `json:"directors"`
	ShareCapitalizationAmount string        `json:"share_capitalization_amount"`
	Shareholders              []Shareholder `json:"shareholders"`
}

// Person is the MD/CEO contact block.
type Person struct {
	Surname     string `json:"surname"`
	FirstName   string `json:"first_name"`
	OtherNames  string `json:"other_names"`
	Nationality string `json:"nationality"`
	Mobile      string `json:"mobile"`
	Email       string `json:"email"`
}

// Shareholder is one row of the share capitalization table. Percent stays a
// string, as entered.
type Shareholder struct {
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
	Percent     string `json:"percent"`
}

type Project struct {
	Overview                   string             `json:"overview"`
	Sector                     string             `json:"sector"`
	TotalValueUSD              string             `json:"total_value_usd"`
	LocationLGA                string             `json:"location_lga"`
	JobsDirect                 string             `json:"jobs_direct"`
	JobsIndirect               string             `json:"jobs_indirect"`
	ProjectCommencementDate    string             `json:"project_commencement_date"`
	OperationsCommencementDate string             `json:"operations_commencement_date"`
	Phases                     Phases             `json:"phases"`
	RawMaterials               []RawMaterial      `json:"raw_materials"`
	TechnicalPartners          []TechnicalPartner `json:"technical_partners"`
}

// Phases splits the investment across the first three years.
type Phases struct {
	Year1Initial string `json:"year1_initial"`
	Year2        string `json:"year2"`
	Year3        string `json:"year3"`
}

type RawMaterial struct {
	Material string `json:"material"`
	Source   string `json:"source"`
}

type TechnicalPartner struct {
	Name            string `json:"name"`
	CountryOfOrigin string `json:"country_of_origin"`
	Website         string `json:"website"`
}

type FacilitationServices struct {
	Services            []string `json:"services"`
	OtherServicesDetail string   `json:"other_services_detail"`
	HowHeard            string   `json:"how_heard"`
	HowHeardOtherDetail string   `json:"how_heard_other_detail"`
	Motivation          string   `json:"motivation"`
}

type Declaration struct {
	Agreed          bool   `json:"agreed"`
	SignerName      string `json:"signer_name"`
	DesignationRole string `json:"designation_role"`
	Date            string `json:"date"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
}

type Attachments struct {
	BusinessPlanFiles   []Attachment `json:"business_plan_files"`
	CompanyProfileFiles []Attachment `json:"company_profile_files"`
}

// Attachment describes an uploaded file. The file body lives in the blob
// store under Key; only this metadata travels in the payload.
type Attachment struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Key         string `json:"key"`
}

// Default row counts for the repeated groups on a fresh form.
const (
	DefaultDirectorRows    = 5
	DefaultShareholderRows = 5
	DefaultRawMaterialRows = 4
	DefaultPartnerRows     = 3
)

// New returns a blank application. today (YYYY-MM-DD) pre-fills the
// declaration date.
func New(today string) Application {
	return Application{
		Company: Company{
			CompanyWebsite: DefaultWebsite,
		},
		Contacts: Contacts{
			Directors:    make([]string, DefaultDirectorRows),
			Shareholders: make([]Shareholder, DefaultShareholderRows),
		},
		Project: Project{
			RawMaterials:      make([]RawMaterial, DefaultRawMaterialRows),
			TechnicalPartners: make([]TechnicalPartner, DefaultPartnerRows),
		},
		FacilitationServices: FacilitationServices{
			Services: []string{},
		},
		Declaration: Declaration{
			Date: today,
		},
		Attachments: Attachments{
			BusinessPlanFiles:   []Attachment{},
			CompanyProfileFiles: []Attachment{},
		},
	}
}

// Clone returns a deep copy; slices in the copy never alias the receiver's.
func (a Application) Clone() Application {
	c := a
	c.Contacts.Directors = cloneSlice(a.Contacts.Directors)
	c.Contacts.Shareholders = cloneSlice(a.Contacts.Shareholders)
	c.Project.RawMaterials = cloneSlice(a.Project.RawMaterials)
	c.Project.TechnicalPartners = cloneSlice(a.Project.TechnicalPartners)
	c.FacilitationServices.Services = cloneSlice(a.FacilitationServices.Services)
	c.Attachments.BusinessPlanFiles = cloneSlice(a.Attachments.BusinessPlanFiles)
	c.Attachments.CompanyProfileFiles = cloneSlice(a.Attachments.CompanyProfileFiles)
	return c
}

// cloneSlice keeps nil as nil and empty as empty so the JSON shape survives.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
