package core

// ToggleFacet returns the facet value after clicking the badge for clicked:
// clicking the active value clears it, clicking any other value selects it.
func ToggleFacet(current, clicked string) string {
	if current == clicked {
		return ""
	}
	return clicked
}

// FacetValue is one distinct jurisdiction country and how many records carry it.
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetValues lists the distinct, non-empty countries in records in order of
// first appearance.
func FacetValues(records []StandardRecord) []FacetValue {
	var out []FacetValue
	pos := make(map[string]int)
	for _, rec := range records {
		c := rec.JurisdictionCountry
		if c == "" {
			continue
		}
		if i, ok := pos[c]; ok {
			out[i].Count++
			continue
		}
		pos[c] = len(out)
		out = append(out, FacetValue{Value: c, Count: 1})
	}
	return out
}
