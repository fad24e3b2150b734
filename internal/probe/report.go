package probe

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"dbprobe/internal/storage"
)

// Stage is the last step a probe run completed
type Stage int

const (
	StageStarted Stage = iota
	StageConnected
	StageVersion
	StageCurrentDatabase
	StageDatabases
	StageTables
	StageSecondaryTables
	StageClosed
)

var stageNames = map[Stage]string{
	StageStarted:         "started",
	StageConnected:       "connected",
	StageVersion:         "version",
	StageCurrentDatabase: "current_database",
	StageDatabases:       "databases",
	StageTables:          "tables",
	StageSecondaryTables: "secondary_tables",
	StageClosed:          "closed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(text []byte) error {
	for stage, name := range stageNames {
		if name == string(text) {
			*s = stage
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", text)
}

// TableListing is the table list of one database
type TableListing struct {
	Database string                      `json:"database"`
	Tables   []string                    `json:"tables"`
	Columns  map[string][]storage.Column `json:"columns,omitempty"`
}

// Report holds everything a probe run gathered, up to the stage it reached.
// The password is never part of a report.
type Report struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`

	Engine   string `json:"engine"`
	Host     string `json:"host,omitempty"`
	User     string `json:"user,omitempty"`
	Port     int    `json:"port,omitempty"`
	Database string `json:"database"`

	Stage           Stage         `json:"stage"`
	Version         string        `json:"version,omitempty"`
	CurrentDatabase string        `json:"current_database,omitempty"`
	Databases       []string      `json:"databases,omitempty"`
	Primary         *TableListing `json:"primary,omitempty"`
	Secondary       *TableListing `json:"secondary,omitempty"`

	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// NewReport starts a report for a run against cfg
func NewReport(cfg storage.Config) *Report {
	return &Report{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Engine:    cfg.Engine(),
		Host:      cfg.Host,
		User:      cfg.Username,
		Port:      cfg.Port,
		Database:  cfg.Database,
		Stage:     StageStarted,
	}
}

// Reached reports whether the run completed stage s
func (r *Report) Reached(s Stage) bool {
	return r.Stage >= s
}

// Succeeded reports whether the run finished and released its connections
func (r *Report) Succeeded() bool {
	return r.Stage == StageClosed && r.Error == ""
}

func (r *Report) advance(s Stage) {
	r.Stage = s
}

func (r *Report) fail(err error) {
	if err == nil {
		return
	}
	r.Error = err.Error()
	r.Kind = KindOf(err).String()
}
