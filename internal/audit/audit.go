// Package audit emits structured compliance audit events. Regulated
// screening flows must leave a trail of what was checked, when and with
// what outcome; the trail is written through the structured log pipeline
// so downstream collectors can index it.
package audit

import (
	"time"

	"go.uber.org/zap"
)

// CheckType identifies which compliance check produced an event.
type CheckType string

const (
	CheckAML  CheckType = "aml"
	CheckKYC  CheckType = "kyc"
	CheckRisk CheckType = "risk"
)

// Event is one audit trail entry.
type Event struct {
	RequestID string
	Check     CheckType
	Action    string
	Result    map[string]interface{}
	Metadata  map[string]interface{}
}

// Recorder writes audit events.
type Recorder struct {
	logger *zap.Logger
}

// NewRecorder creates a recorder backed by the given logger.
func NewRecorder(logger *zap.Logger) *Recorder {
	return &Recorder{logger: logger.Named("audit")}
}

// Record writes one event to the audit trail.
func (r *Recorder) Record(ev Event) {
	r.logger.Info("audit event",
		zap.String("request_id", ev.RequestID),
		zap.String("check", string(ev.Check)),
		zap.String("action", ev.Action),
		zap.Time("timestamp", time.Now().UTC()),
		zap.Any("result", ev.Result),
		zap.Any("metadata", ev.Metadata),
	)
}
