package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

const (
	SchemaVersion = 1
	CodecVersion  = 1
)

// CurrentVersion stamps records written by this build.
func CurrentVersion() VersionedRecord {
	return VersionedRecord{SchemaVersion: SchemaVersion, CodecVersion: CodecVersion}
}

// TimestampLayout is fixed width so timestamps order correctly as strings.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const (
	LayerInput  = "input"
	LayerOutput = "output"
)

// NetworkSnapshot is the persisted form of a wired network.
type NetworkSnapshot struct {
	VersionedRecord
	ID           string       `json:"id"`
	CreatedAtUTC string       `json:"created_at_utc"`
	Activation   string       `json:"activation"`
	Seed         int64        `json:"seed"`
	InputCount   int          `json:"input_count"`
	OutputCount  int          `json:"output_count"`
	Units        []UnitRecord `json:"units"`
	Edges        []EdgeRecord `json:"edges"`
}

type UnitRecord struct {
	ID         int64   `json:"id"`
	Layer      string  `json:"layer"`
	Threshold  float64 `json:"threshold"`
	Activation float64 `json:"activation"`
}

// EdgeRecord refers to units by their position in NetworkSnapshot.Units.
type EdgeRecord struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Weight float64 `json:"weight"`
	Cached float64 `json:"cached"`
}

type InferenceRecord struct {
	VersionedRecord
	Sequence int       `json:"sequence"`
	Stimulus []float64 `json:"stimulus"`
	Target   []float64 `json:"target"`
	Outputs  []float64 `json:"outputs"`
}
