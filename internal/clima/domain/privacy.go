package domain

import "time"

// Consent records the last explicit consent decision.
type Consent struct {
	Given     bool       `json:"given"`
	Version   string     `json:"version"`
	Timestamp *time.Time `json:"ts"`
	IP        *string    `json:"ip"`
}

// Privacy holds consent plus the independently toggled opt-in flags.
type Privacy struct {
	Consent   Consent `json:"consent"`
	Analytics bool    `json:"analytics"`
	Marketing bool    `json:"marketing"`
}

func (p Privacy) Clone() Privacy {
	out := p
	if p.Consent.Timestamp != nil {
		t := *p.Consent.Timestamp
		out.Consent.Timestamp = &t
	}
	if p.Consent.IP != nil {
		ip := *p.Consent.IP
		out.Consent.IP = &ip
	}
	return out
}

// DefaultPrivacy is the state of a freshly registered user.
func DefaultPrivacy(policyVersion string) Privacy {
	return Privacy{Consent: Consent{Given: false, Version: policyVersion}}
}

// ConsentKind names the optional processing a route may depend on.
type ConsentKind string

const (
	ConsentAnalytics ConsentKind = "analytics"
	ConsentMarketing ConsentKind = "marketing"
)

// Allows reports whether consent was given and the flag for kind is on.
func (p Privacy) Allows(kind ConsentKind) bool {
	if !p.Consent.Given {
		return false
	}
	switch kind {
	case ConsentAnalytics:
		return p.Analytics
	case ConsentMarketing:
		return p.Marketing
	default:
		return true
	}
}

// Policy is the public privacy policy summary.
type Policy struct {
	Version   string `json:"version"`
	UpdatedAt string `json:"updatedAt"`
	URL       string `json:"url"`
	Summary   string `json:"summary"`
}

// Export is the portable document returned to a user about themselves.
// AdditionalData entries that cannot be decrypted are exported as null.
type Export struct {
	Email          string             `json:"email"`
	Roles          []string           `json:"roles"`
	Privacy        Privacy            `json:"privacy"`
	AdditionalData map[string]*string `json:"additionalData"`
	CreatedAt      *time.Time         `json:"createdAt"`
	ExportedAt     time.Time          `json:"exportedAt"`
}
