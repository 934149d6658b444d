package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// BackupInterval is how much time must pass between on-load backups of the
// same map file.
type BackupInterval int

const (
	BackupDaily BackupInterval = iota
	BackupEvery3Days
	BackupWeekly
	BackupEvery2Weeks
)

// Duration returns the interval as a duration.
func (b BackupInterval) Duration() time.Duration {
	const day = 24 * time.Hour
	switch b {
	case BackupEvery3Days:
		return 3 * day
	case BackupWeekly:
		return 7 * day
	case BackupEvery2Weeks:
		return 14 * day
	default:
		return day
	}
}

// Next returns the following interval, wrapping after two weeks.
func (b BackupInterval) Next() BackupInterval {
	switch b {
	case BackupDaily:
		return BackupEvery3Days
	case BackupEvery3Days:
		return BackupWeekly
	case BackupWeekly:
		return BackupEvery2Weeks
	default:
		return BackupDaily
	}
}

func (b BackupInterval) String() string {
	switch b {
	case BackupEvery3Days:
		return "3days"
	case BackupWeekly:
		return "weekly"
	case BackupEvery2Weeks:
		return "2weeks"
	default:
		return "daily"
	}
}

// Label returns the interval's settings-screen wording.
func (b BackupInterval) Label() string {
	switch b {
	case BackupEvery3Days:
		return "Every 3 days"
	case BackupWeekly:
		return "Weekly"
	case BackupEvery2Weeks:
		return "Every 2 weeks"
	default:
		return "Daily"
	}
}

// MarshalJSON encodes the interval as its name.
func (b BackupInterval) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON decodes an interval name, rejecting unknown names.
func (b *BackupInterval) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "daily":
		*b = BackupDaily
	case "3days":
		*b = BackupEvery3Days
	case "weekly":
		*b = BackupWeekly
	case "2weeks":
		*b = BackupEvery2Weeks
	default:
		return fmt.Errorf("unknown backup interval %q", name)
	}
	return nil
}

// SessionBackupInterval is how often an open session writes an additional
// backup while the user keeps working.
type SessionBackupInterval int

const (
	SessionBackup1h SessionBackupInterval = iota
	SessionBackup2h
	SessionBackup4h
	SessionBackup6h
	SessionBackup12h
)

// Duration returns the interval as a duration.
func (s SessionBackupInterval) Duration() time.Duration {
	switch s {
	case SessionBackup2h:
		return 2 * time.Hour
	case SessionBackup4h:
		return 4 * time.Hour
	case SessionBackup6h:
		return 6 * time.Hour
	case SessionBackup12h:
		return 12 * time.Hour
	default:
		return time.Hour
	}
}

// Next returns the following interval, wrapping after twelve hours.
func (s SessionBackupInterval) Next() SessionBackupInterval {
	switch s {
	case SessionBackup1h:
		return SessionBackup2h
	case SessionBackup2h:
		return SessionBackup4h
	case SessionBackup4h:
		return SessionBackup6h
	case SessionBackup6h:
		return SessionBackup12h
	default:
		return SessionBackup1h
	}
}

func (s SessionBackupInterval) String() string {
	switch s {
	case SessionBackup2h:
		return "2h"
	case SessionBackup4h:
		return "4h"
	case SessionBackup6h:
		return "6h"
	case SessionBackup12h:
		return "12h"
	default:
		return "1h"
	}
}

// Label returns the interval's settings-screen wording.
func (s SessionBackupInterval) Label() string {
	switch s {
	case SessionBackup2h:
		return "Every 2 hours"
	case SessionBackup4h:
		return "Every 4 hours"
	case SessionBackup6h:
		return "Every 6 hours"
	case SessionBackup12h:
		return "Every 12 hours"
	default:
		return "Every hour"
	}
}

// MarshalJSON encodes the interval as its name.
func (s SessionBackupInterval) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes an interval name, rejecting unknown names.
func (s *SessionBackupInterval) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "1h":
		*s = SessionBackup1h
	case "2h":
		*s = SessionBackup2h
	case "4h":
		*s = SessionBackup4h
	case "6h":
		*s = SessionBackup6h
	case "12h":
		*s = SessionBackup12h
	default:
		return fmt.Errorf("unknown session backup interval %q", name)
	}
	return nil
}
