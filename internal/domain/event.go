package domain

import "encoding/json"

// Event kinds emitted by the job pipeline. The enum is open: any other
// kind is passed through to viewers untouched.
const (
	EventStatus       = "status"
	EventProgress     = "progress"
	EventJobCompleted = "job_completed"
)

// defaultArtifactFilename is applied when a completion artifact carries no
// filename of its own.
const defaultArtifactFilename = "output.bin"

// Artifact describes one output produced by a completed job.
type Artifact struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

// Event is a single tenant-scoped job-status record. It is transient:
// parsed from the webhook body, normalized, broadcast, and discarded.
// Viewers receive the normalized form, never the raw request bytes.
type Event struct {
	Type   string `json:"type"`
	Tenant string `json:"tenant"`
	JobID  string `json:"job_id,omitempty"`

	// Progress fields.
	ProgressPercent *float64 `json:"progress_percent,omitempty"`
	CurrentStep     *int     `json:"current_step,omitempty"`
	TotalSteps      *int     `json:"total_steps,omitempty"`
	NodeID          string   `json:"node_id,omitempty"`

	// Batch status fields. Job summaries are opaque to the relay; any
	// job-id filtering is a consumer concern.
	Pending *int             `json:"pending,omitempty"`
	Running *int             `json:"running,omitempty"`
	Jobs    []map[string]any `json:"jobs,omitempty"`

	// Completion fields.
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// ParseEvent decodes a webhook body into an Event.
// Returns ErrMalformedEvent when the body is not valid JSON for this shape.
func ParseEvent(body []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, ErrMalformedEvent
	}
	return &evt, nil
}

// Validate checks the required fields.
func (e *Event) Validate() error {
	if e.Type == "" {
		return ErrMissingType
	}
	if e.Tenant == "" {
		return ErrMissingTenant
	}
	return nil
}

// Normalize fills defaults the producer may omit. Mirrors what the job
// pipeline's own clients expect: every artifact has a filename.
func (e *Event) Normalize() {
	for i := range e.Artifacts {
		if e.Artifacts[i].Filename == "" {
			e.Artifacts[i].Filename = defaultArtifactFilename
		}
	}
}

// Marshal serializes the event into its broadcast payload. Every viewer of
// the tenant receives this exact byte sequence.
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
