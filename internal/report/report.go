// Package report records what an expand or apply-patch run did.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jorge-barreto/planner/internal/fsutil"
)

// Report is the JSON record of one run.
type Report struct {
	RunID     string            `json:"run_id"`
	Command   string            `json:"command"`
	CreatedAt time.Time         `json:"created_at"`
	Input     string            `json:"input"`
	Output    string            `json:"output,omitempty"`
	Template  string            `json:"template,omitempty"`
	Mode      string            `json:"mode,omitempty"`
	Strict    *bool             `json:"reconcile_strict,omitempty"`
	Roots     []string          `json:"roots,omitempty"`
	Created   []string          `json:"created"`
	Reused    []string          `json:"reused"`
	Repaired  []string          `json:"repaired"`
	IDRemap   map[string]string `json:"id_remap,omitempty"`
	Notes     []string          `json:"notes,omitempty"`
}

// New starts a report for command with a fresh run id.
func New(command string) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Command:   command,
		CreatedAt: time.Now().UTC(),
		Created:   []string{},
		Reused:    []string{},
		Repaired:  []string{},
	}
}

// SetStrict records the reconcile scoping choice.
func (r *Report) SetStrict(strict bool) {
	r.Strict = &strict
}

// Save writes the report as indented JSON.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Load reads a report written by Save.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &r, nil
}
