package branch

import "strings"

// Filter returns the records matching query. A record matches when its
// location code equals the query read as a number, or its city or state
// equals the query ignoring case. Matching is exact, unlike the list
// service's server-side substring filter. Surrounding blanks in query are
// ignored; an empty query returns records as given.
func Filter(records []Record, query string) []Record {
	q := strings.TrimSpace(query)
	if q == "" {
		return records
	}
	num, isNum := parseNumber(q)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if matches(r, q, num, isNum) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r Record, query string, num float64, isNum bool) bool {
	if isNum {
		if code, ok := r.LocationCode.Float(); ok && code == num {
			return true
		}
	}
	return strings.EqualFold(r.City, query) || strings.EqualFold(r.State, query)
}

// ByCode returns the records whose location code equals code, either
// textually or by numeric value.
func ByCode(records []Record, code string) []Record {
	code = strings.TrimSpace(code)
	num, isNum := parseNumber(code)
	var out []Record
	for _, r := range records {
		if r.Code() == code {
			out = append(out, r)
			continue
		}
		if v, ok := r.LocationCode.Float(); ok && isNum && v == num {
			out = append(out, r)
		}
	}
	return out
}
