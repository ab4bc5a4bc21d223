package domain

import "time"

// User is the stored record. EmailCiphertext and every AdditionalData value
// are field-cipher tokens; nothing in here is plaintext personal data. The
// JSON layout matches the users.json files written by earlier versions.
type User struct {
	ID              string            `json:"id,omitempty"`
	EmailCiphertext string            `json:"email"`
	EmailIndex      string            `json:"emailIndex,omitempty"` // blind index, absent on imported records
	PasswordHash    string            `json:"passwordHash"`         // argon2id PHC, or bcrypt on imported records
	AdditionalData  map[string]string `json:"additionalData"`
	Privacy         Privacy           `json:"privacy"`
	Roles           []string          `json:"roles,omitempty"`
	CreatedAt       *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time        `json:"updatedAt,omitempty"`
}

// Clone returns a deep copy so stores can hand out records without sharing
// maps or slices with their internal state.
func (u User) Clone() User {
	out := u
	if u.AdditionalData != nil {
		out.AdditionalData = make(map[string]string, len(u.AdditionalData))
		for k, v := range u.AdditionalData {
			out.AdditionalData[k] = v
		}
	}
	if u.Roles != nil {
		out.Roles = append([]string(nil), u.Roles...)
	}
	out.Privacy = u.Privacy.Clone()
	if u.CreatedAt != nil {
		t := *u.CreatedAt
		out.CreatedAt = &t
	}
	if u.UpdatedAt != nil {
		t := *u.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

// EffectiveRoles returns the stored roles, or RoleUser when none are set.
func (u User) EffectiveRoles() []string {
	if len(u.Roles) == 0 {
		return []string{RoleUser}
	}
	return append([]string(nil), u.Roles...)
}

// Well-known profile fields kept in AdditionalData.
const (
	FieldDisplayName = "displayName"
	FieldLocation    = "location"
)
