package branch

// Record is one branch office, normalized from whichever backend produced it.
type Record struct {
	LocationCode Scalar `json:"locationCode"`
	Name         string `json:"name"`
	Brand        string `json:"brand"`
	Division     string `json:"division"`
	Region       string `json:"region"`

	Manager      string `json:"manager"`
	ManagerEmail string `json:"managerEmail"`
	ManagerPhone string `json:"managerPhone"`

	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      Scalar `json:"zipCode"`

	Phone     string `json:"phone"`
	Fax       string `json:"fax"`
	Emergency string `json:"emergency"`

	RVP       string `json:"rvp"`
	RVPPhone  string `json:"rvpPhone"`
	President string `json:"president"`

	Hours string `json:"hours"` // location attributes column

	Attributes *Attributes `json:"attributes,omitempty"` // nil when the backend has none
}

// Attributes are the sheet-only columns carried through untouched.
type Attributes struct {
	Plumbing       string `json:"plumbing"`
	Waterworks     string `json:"waterworks"`
	HVAC           string `json:"hvac"`
	TradeFlag      string `json:"bk"`
	Headquarters   string `json:"headquarters"`
	GMTOffset      Scalar `json:"gmtOffset"`
	DaylightSaving string `json:"daylightSavingsTime"`
	CustomerFacing string `json:"customerFacing"`
}

// Code returns the display form of the location code.
func (r Record) Code() string { return r.LocationCode.String() }

// SheetColumns is the positional layout of the spreadsheet feed. The SQL
// directory table uses the same columns in the same order.
var SheetColumns = []string{
	"location_code",
	"location_name",
	"brand",
	"division",
	"region",
	"manager",
	"address_line1",
	"address_line2",
	"city",
	"state",
	"zip_code",
	"phone",
	"fax",
	"emergency",
	"branch_manager_email",
	"branch_manager_phone",
	"rvp",
	"rvp_phone",
	"president",
	"location_attributes",
	"plumbing",
	"waterworks",
	"hvac",
	"bk",
	"headquarters",
	"gmt_offset",
	"daylight_savings_time",
	"customer_facing",
}

const (
	colCode = iota
	colName
	colBrand
	colDivision
	colRegion
	colManager
	colAddress1
	colAddress2
	colCity
	colState
	colZip
	colPhone
	colFax
	colEmergency
	colManagerEmail
	colManagerPhone
	colRVP
	colRVPPhone
	colPresident
	colAttributes
	colPlumbing
	colWaterworks
	colHVAC
	colTradeFlag
	colHeadquarters
	colGMTOffset
	colDST
	colCustomerFacing
)
