package core

// Filter returns the records that satisfy both the facet and the query,
// preserving input order. An empty facet matches every country; an empty
// query matches every record. A nil matcher means the default substring
// matcher.
//
// The result is recomputed from scratch on every call.
func Filter(records []StandardRecord, query, facet string, m Matcher) []StandardRecord {
	if m == nil {
		m = MustGet(DefaultMatcher)
	}
	out := make([]StandardRecord, 0, len(records))
	for _, rec := range records {
		if facet != "" && rec.JurisdictionCountry != facet {
			continue
		}
		if !m.Match(rec, query) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Filter applies [Filter] to the dataset's records.
func (d *Dataset) Filter(query, facet string, m Matcher) []StandardRecord {
	return Filter(d.records, query, facet, m)
}
