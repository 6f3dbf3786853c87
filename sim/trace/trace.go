package trace

// TraceLevel controls the verbosity of extraction tracing.
type TraceLevel string

const (
	// LevelNone disables tracing.
	LevelNone TraceLevel = "none"
	// LevelUnits records every retained piece.
	LevelUnits TraceLevel = "units"
)

var validTraceLevels = map[TraceLevel]bool{
	LevelNone:  true,
	LevelUnits: true,
	"":         true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// ExtractionTrace collects unit records across façade calls.
// Not safe for concurrent use.
type ExtractionTrace struct {
	Config TraceConfig
	Units  []UnitRecord
	calls  int
}

// NewExtractionTrace creates an ExtractionTrace ready for recording.
func NewExtractionTrace(config TraceConfig) *ExtractionTrace {
	return &ExtractionTrace{
		Config: config,
		Units:  make([]UnitRecord, 0),
	}
}

// BeginCall numbers a new façade call, starting at 0.
func (et *ExtractionTrace) BeginCall() int {
	c := et.calls
	et.calls++
	return c
}

// Calls returns how many calls were begun.
func (et *ExtractionTrace) Calls() int { return et.calls }

// RecordUnit appends a unit record.
func (et *ExtractionTrace) RecordUnit(record UnitRecord) {
	et.Units = append(et.Units, record)
}
