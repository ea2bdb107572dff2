package connect

import (
	"errors"

	"github.com/goccy/go-json"
)

// RunningState is the connector state literal that marks a connector as
// operational. The comparison is case-sensitive.
const RunningState = "RUNNING"

// ConnectorState is the runtime state of a connector or one of its tasks.
type ConnectorState struct {
	State    string `json:"state"`
	WorkerID string `json:"worker_id"`
	Trace    string `json:"trace,omitempty"`
}

// TaskState is the runtime state of one connector task.
type TaskState struct {
	ID       int    `json:"id"`
	State    string `json:"state"`
	WorkerID string `json:"worker_id"`
	Trace    string `json:"trace,omitempty"`
}

// ConnectorStatus is the read-only status value reported by the Connect API
// for one connector. Name and the connector state object are always present
// on a valid status; parsing fails otherwise.
type ConnectorStatus struct {
	Name      string          `json:"name"`
	Connector *ConnectorState `json:"connector"`
	Tasks     []TaskState     `json:"tasks"`
	Type      string          `json:"type"`
}

// IsRunning reports whether the connector state equals RunningState.
func (s *ConnectorStatus) IsRunning() bool {
	return s.Connector != nil && s.Connector.State == RunningState
}

// State returns the raw connector state string, or "" when the state object
// is absent.
func (s *ConnectorStatus) State() string {
	if s.Connector == nil {
		return ""
	}
	return s.Connector.State
}

// ParseConnectorStatus decodes a status document and rejects responses that
// are missing the connector name or the nested state object.
func ParseConnectorStatus(data []byte) (*ConnectorStatus, error) {
	var status ConnectorStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	if status.Name == "" {
		return nil, errors.New("connector status is missing a name")
	}
	if status.Connector == nil {
		return nil, errors.New("connector status is missing the connector state")
	}
	return &status, nil
}
