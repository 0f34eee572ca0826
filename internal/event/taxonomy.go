package event

// Fixed classification vocabularies. Anything the model returns outside of
// these is coerced to the default, never persisted as-is.
var (
	EventTypes = []string{
		"MACRO_DATA",
		"CENTRAL_BANK",
		"EARNINGS",
		"GEOPOLITICS",
		"CRYPTO",
		"COMMODITIES",
		"POLICY/REGULATION",
		"OTHER",
	}

	CountryRegions = []string{"US", "EU", "China", "UK", "Global"}

	// Impacts are ordered: Faible < Moyen < Élevé. The French values are the
	// wire format of the persisted event files.
	Impacts = []string{"Faible", "Moyen", "Élevé"}
)

// Defaults substituted for out-of-vocabulary values.
const (
	DefaultEventType     = "OTHER"
	DefaultCountryRegion = "Global"
	DefaultImpact        = "Faible"
	DefaultExplanation   = "No explanation provided by the model."
)

// EventTypeLabels maps taxonomy codes to human-readable labels for display.
var EventTypeLabels = map[string]string{
	"MACRO_DATA":        "Macro data",
	"CENTRAL_BANK":      "Central banks",
	"EARNINGS":          "Earnings",
	"GEOPOLITICS":       "Geopolitics",
	"CRYPTO":            "Crypto",
	"COMMODITIES":       "Commodities",
	"POLICY/REGULATION": "Policy & regulation",
	"OTHER":             "Other",
}

// impactSizes maps impact levels to the marker size used on the timeline.
var impactSizes = map[string]float64{
	"Faible": 40,
	"Moyen":  80,
	"Élevé":  160,
}

func contains(vocab []string, v string) bool {
	for _, s := range vocab {
		if s == v {
			return true
		}
	}
	return false
}

// ValidEventType reports whether v belongs to the event-type vocabulary.
func ValidEventType(v string) bool { return contains(EventTypes, v) }

// ValidCountryRegion reports whether v belongs to the region vocabulary.
func ValidCountryRegion(v string) bool { return contains(CountryRegions, v) }

// ValidImpact reports whether v belongs to the impact vocabulary.
func ValidImpact(v string) bool { return contains(Impacts, v) }

// Coerce replaces every out-of-vocabulary field of c with its documented
// default. Each field is checked independently; the explanation is passed
// through, with a fallback when empty.
func Coerce(c Classification) Classification {
	if !ValidEventType(c.EventType) {
		c.EventType = DefaultEventType
	}
	if !ValidCountryRegion(c.CountryRegion) {
		c.CountryRegion = DefaultCountryRegion
	}
	if !ValidImpact(c.Impact) {
		c.Impact = DefaultImpact
	}
	if c.Explanation == "" {
		c.Explanation = DefaultExplanation
	}
	return c
}

// PrettyEventType returns the display label for a taxonomy code, falling back
// to the code itself for unknown values.
func PrettyEventType(code string) string {
	if label, ok := EventTypeLabels[code]; ok {
		return label
	}
	return code
}

// ImpactSize maps an impact level to its timeline marker size. Unknown
// impacts get a neutral middle size.
func ImpactSize(impact string) float64 {
	if s, ok := impactSizes[impact]; ok {
		return s
	}
	return 60
}

// ImpactRank returns the position of impact in the severity order, or -1 for
// unknown values. Used for stable sorting of impact breakdowns.
func ImpactRank(impact string) int {
	for i, v := range Impacts {
		if v == impact {
			return i
		}
	}
	return -1
}
