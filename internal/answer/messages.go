package answer

import (
	"fmt"

	"podium/internal/query"
)

// NoResultMessage keys the friendly no-results reply on the most specific
// entity the query resolved: year, then country, athlete, medal, generic.
func NoResultMessage(ents query.Entities) string {
	switch {
	case ents.Year != "":
		return fmt.Sprintf("I couldn't find any data for the year %s.", ents.Year)
	case ents.Country != "":
		return fmt.Sprintf("No records found for %s in the dataset.", ents.Country)
	case ents.Athlete != "":
		return fmt.Sprintf("Sorry, I couldn't find any athlete named %q in the dataset.", ents.Athlete)
	case ents.MedalType != "":
		return fmt.Sprintf("No data found related to %s medals.", ents.MedalType)
	default:
		return "I couldn't understand or find data for your request."
	}
}
