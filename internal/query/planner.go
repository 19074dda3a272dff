package query

// Plan is the structured filter/sort/limit specification derived from one
// query. Immutable once built; the retrieval engine consumes it as-is and
// validates nothing here.
type Plan struct {
	Intent    Intent            `json:"intent"`
	Filters   map[string]string `json:"filters"`
	Limit     int               `json:"limit,omitempty"`
	Ascending bool              `json:"ascending"`
}

// BuildPlan maps non-empty entities to filter entries, quantity to the limit,
// and defaults the limit for ranking queries. Analysis and comparison are not
// filters.
func BuildPlan(intent Intent, ents Entities, defaultLimit int) Plan {
	p := Plan{
		Intent:  intent,
		Filters: make(map[string]string),
	}
	if ents.Country != "" {
		p.Filters["country"] = ents.Country
	}
	if ents.Year != "" {
		p.Filters["year"] = ents.Year
	}
	if ents.MedalType != "" {
		p.Filters["medal_type"] = ents.MedalType
	}
	if ents.City != "" {
		p.Filters["city"] = ents.City
	}
	if ents.Athlete != "" {
		p.Filters["athlete"] = ents.Athlete
	}
	if ents.Quantity != nil {
		p.Limit = *ents.Quantity
	} else if intent == IntentRanking {
		if defaultLimit <= 0 {
			defaultLimit = 10
		}
		p.Limit = defaultLimit
	}
	return p
}
