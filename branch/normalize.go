package branch

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// RawRow is one row exactly as an adapter decoded it. It is either Cells
// (positional, spreadsheet layout) or Item (field-named, list service).
type RawRow interface {
	rawRow()
}

// Cell is a single gviz cell. Null cells decode to a nil *Cell.
type Cell struct {
	V any `json:"v"`
}

// Cells is a positional row following SheetColumns.
type Cells []*Cell

// Item is a field-named list-service row.
type Item map[string]any

func (Cells) rawRow() {}
func (Item) rawRow()  {}

// List-service field names. ListSelect is sent as the $select clause with
// ListExpand expanded, so the manager email arrives nested.
const (
	ListFieldCode         = "Title"
	ListFieldManager      = "Manager"
	ListFieldAddress1     = "Address1"
	ListFieldAddress2     = "Address2"
	ListFieldCity         = "City"
	ListFieldState        = "State"
	ListFieldZip          = "Zip"
	ListFieldPhone        = "Phone"
	ListFieldEmergency    = "Emergency"
	ListFieldManagerPhone = "ManagerPhone"
	ListFieldRVP          = "RVP"
	ListFieldRVPPhone     = "RVPPhone"
	ListFieldPresident    = "President"
	ListFieldHours        = "Hours"
	ListExpand            = "BranchManager"
	listFieldEmail        = "EMail"
)

var ListSelect = []string{
	ListFieldCode,
	ListFieldManager,
	ListFieldAddress1,
	ListFieldAddress2,
	ListFieldCity,
	ListFieldState,
	ListFieldZip,
	ListFieldPhone,
	ListFieldEmergency,
	ListFieldManagerPhone,
	ListFieldRVP,
	ListFieldRVPPhone,
	ListFieldPresident,
	ListFieldHours,
	ListExpand + "/" + listFieldEmail,
}

// Normalize maps a raw row to a Record. Missing cells or keys become "" or
// the unknown Scalar; it never fails.
func Normalize(row RawRow) Record {
	switch r := row.(type) {
	case Cells:
		return normalizeCells(r)
	case Item:
		return normalizeItem(r)
	default:
		return Record{}
	}
}

// NormalizeAll normalizes rows in order.
func NormalizeAll(rows []RawRow) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, Normalize(row))
	}
	return out
}

func normalizeCells(c Cells) Record {
	return Record{
		LocationCode: c.scalar(colCode),
		Name:         c.text(colName),
		Brand:        c.text(colBrand),
		Division:     c.text(colDivision),
		Region:       c.text(colRegion),
		Manager:      c.text(colManager),
		AddressLine1: c.text(colAddress1),
		AddressLine2: c.text(colAddress2),
		City:         c.text(colCity),
		State:        c.text(colState),
		ZipCode:      c.scalar(colZip),
		Phone:        c.text(colPhone),
		Fax:          c.text(colFax),
		Emergency:    c.text(colEmergency),
		ManagerEmail: c.text(colManagerEmail),
		ManagerPhone: c.text(colManagerPhone),
		RVP:          c.text(colRVP),
		RVPPhone:     c.text(colRVPPhone),
		President:    c.text(colPresident),
		Hours:        c.text(colAttributes),
		Attributes: &Attributes{
			Plumbing:       c.text(colPlumbing),
			Waterworks:     c.text(colWaterworks),
			HVAC:           c.text(colHVAC),
			TradeFlag:      c.text(colTradeFlag),
			Headquarters:   c.text(colHeadquarters),
			GMTOffset:      c.scalar(colGMTOffset),
			DaylightSaving: c.text(colDST),
			CustomerFacing: c.text(colCustomerFacing),
		},
	}
}

func (c Cells) scalar(i int) Scalar {
	if i >= len(c) || c[i] == nil {
		return Scalar{}
	}
	return scalarOf(c[i].V)
}

func (c Cells) text(i int) string { return c.scalar(i).String() }

func normalizeItem(it Item) Record {
	// The list has a single after-hours number; it is shown as both fax and
	// emergency contact.
	emergency := it.text(ListFieldEmergency)
	return Record{
		LocationCode: it.scalar(ListFieldCode),
		Manager:      it.text(ListFieldManager),
		ManagerEmail: managerEmail(it[ListExpand]),
		ManagerPhone: it.text(ListFieldManagerPhone),
		AddressLine1: it.text(ListFieldAddress1),
		AddressLine2: it.text(ListFieldAddress2),
		City:         it.text(ListFieldCity),
		State:        it.text(ListFieldState),
		ZipCode:      it.scalar(ListFieldZip),
		Phone:        it.text(ListFieldPhone),
		Fax:          emergency,
		Emergency:    emergency,
		RVP:          it.text(ListFieldRVP),
		RVPPhone:     it.text(ListFieldRVPPhone),
		President:    it.text(ListFieldPresident),
		Hours:        it.text(ListFieldHours),
	}
}

func (it Item) scalar(key string) Scalar { return scalarOf(it[key]) }

func (it Item) text(key string) string { return it.scalar(key).String() }

// managerEmail accepts the expanded person field either as a single object
// or as a one-element collection.
func managerEmail(v any) string {
	switch m := v.(type) {
	case map[string]any:
		return scalarOf(m[listFieldEmail]).String()
	case []any:
		if len(m) == 0 {
			return ""
		}
		return managerEmail(m[0])
	default:
		return ""
	}
}

func scalarOf(v any) Scalar {
	switch x := v.(type) {
	case nil:
		return Scalar{}
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return Number(f)
		}
		return Text(x.String())
	case string:
		return Text(x)
	case []byte:
		return Text(string(x))
	case bool:
		return Text(strconv.FormatBool(x))
	default:
		return Text(fmt.Sprint(x))
	}
}
