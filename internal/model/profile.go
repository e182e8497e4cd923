package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Profile is the server-reported player state. Energy is nil when the server
// omitted it.
type Profile struct {
	Username          string     `json:"username"`
	Energy            *int       `json:"energy"`
	EnergyMax         int        `json:"energy_max"`
	EnergyLevel       int        `json:"energy_level"`
	TapPower          int        `json:"tap_power"`
	FullEnergy        FullEnergy `json:"fullEnergy"`
	LastEnergyTime    Timestamp  `json:"lastEnergyTime"`
	LastDataClaimTime Timestamp  `json:"lastDataClaimTime"`
}

type FullEnergy struct {
	LastUsed Timestamp `json:"lastUsed"`
}

// EnergyValue returns the energy reading, 0 when absent.
func (p *Profile) EnergyValue() int {
	if p == nil || p.Energy == nil {
		return 0
	}
	return *p.Energy
}

// Timestamp decodes either epoch milliseconds or an RFC 3339 string.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		v, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("timestamp %q: %w", s, err)
		}
		t.Time = v
		return nil
	}
	var ms float64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("timestamp %s: %w", b, err)
	}
	t.Time = time.UnixMilli(int64(ms))
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UnixMilli())
}

// Display formats the timestamp in local time, "-" when unset.
func (t Timestamp) Display() string {
	if t.IsZero() {
		return "-"
	}
	return t.Time.Local().Format("2006-01-02 15:04:05")
}
