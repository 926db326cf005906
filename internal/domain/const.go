package domain

// Archetype identifiers. The set is fixed; records never carry anything
// outside it.
const (
	ArchetypeGlue      = "glue"
	ArchetypeVisionary = "visionary"
	ArchetypeArchitect = "architect"
	ArchetypeOperator  = "operator"
	ArchetypeCatalyst  = "catalyst"
	ArchetypeDefault   = ArchetypeGlue
)

// Archetypes lists every valid archetype id.
var Archetypes = []string{
	ArchetypeGlue,
	ArchetypeVisionary,
	ArchetypeArchitect,
	ArchetypeOperator,
	ArchetypeCatalyst,
}

// Roles accepted on the role-selection question.
var Roles = []string{"engineer", "manager", "designer", "founder", "other"}

// EnrichmentState classifies a record with respect to its external match
// and asset health. ENRICHED_ASSET_STALE only exists mid-read: it is
// detected by a failed probe and resolved to one of the other states
// before the record is returned.
type EnrichmentState int

const (
	StateNotEnriched EnrichmentState = iota
	StateEnrichedValid
	StateEnrichedAssetStale
)

func (s EnrichmentState) String() string {
	switch s {
	case StateNotEnriched:
		return "NOT_ENRICHED"
	case StateEnrichedValid:
		return "ENRICHED_VALID"
	case StateEnrichedAssetStale:
		return "ENRICHED_ASSET_STALE"
	default:
		return "UNKNOWN"
	}
}

// RecordKeyPrefix prefixes every record id to form its store key.
const RecordKeyPrefix = "result:"
