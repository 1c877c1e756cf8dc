package branch

import "strings"

// OneLineAddress formats the postal address on one line:
// "line1 [line2] City, ST zip". Empty parts are dropped so no double spaces
// or dangling separators appear.
func OneLineAddress(r Record) string {
	locality := collapseSpaces(r.City)
	if st := collapseSpaces(r.State); st != "" {
		if locality != "" {
			locality += ", "
		}
		locality += st
	}
	parts := []string{r.AddressLine1, r.AddressLine2, locality, r.ZipCode.String()}
	return collapseSpaces(strings.Join(parts, " "))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
