package signal

// entityWeight is the (severity, structural) ranking pair
// orchestra_signals_engine.py's ENTITY_SIGNAL_WEIGHTS table assigns each
// entity-level signal name, carried over verbatim since severity is the
// primary rank-and-cap sort key (see rankAndCap in entity.go) and therefore
// directly decides which signals survive the top-3 cap.
type entityWeight struct {
	Severity   int
	Structural int
}

var entitySignalWeights = map[string]entityWeight{
	"Narrative Shaping":            {9, 3},
	"Strategic Fallout":            {8, 2},
	"Strategic Uplift":             {7, 2},
	"Echo (tight)":                 {6, 2},
	"Rising Threat":                {7, 2},
	"Rising Opportunity":           {7, 2},
	"Deepening Exposure":           {6, 1},
	"Strengthening Position":       {6, 1},
	"Lost Momentum":                {5, 1},
	"Prominence Spike":             {5, 1},
	"Momentum Gap":                 {5, 1},
	"Framing Cage (tight)":         {8, 3},
	"Turbulent Frame (tight)":      {6, 2},
	"Wedge Potential":              {5, 2},
	"Opening Available":            {6, 2},
	"Narrative Vacuum":             {4, 1},
	"Captured Narrative (article)": {6, 2},
	"Narrative Expansion":          {6, 2},
	"Narrative Fragmentation":      {5, 2},
	"Second Fiddle":                {4, 1},
	"Peer Pressure":                {4, 1},
	"Ricochet Risk":                {5, 2},
	"Contrast Framing":             {5, 1},
	"Polarized Framing":            {6, 2},
	"Cautious Schadenfreude":       {5, 2},
}
