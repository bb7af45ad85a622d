package domain

import "time"

type MonitorState string

const (
	MonitorIdle   MonitorState = "idle"
	MonitorActive MonitorState = "active"
)

type MonitoringSnapshot struct {
	State          MonitorState
	Source         string
	Records        []VendorRecord
	StartedAt      time.Time
	LastModifiedAt time.Time
}
