package domain

// Scope is a permission carried in a session token.
type Scope string

const (
	ScopeUser        Scope = "user"
	ScopeAdmin       Scope = "admin"
	ScopeWriteConfig Scope = "write:config"
)

// Roles stored on user records.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var roleScopes = map[string][]Scope{
	RoleUser:  {ScopeUser},
	RoleAdmin: {ScopeUser, ScopeAdmin, ScopeWriteConfig},
}

// ScopesForRoles expands roles into the de-duplicated scope list, in a stable
// order. Unknown roles grant nothing.
func ScopesForRoles(roles []string) []string {
	seen := make(map[Scope]struct{})
	var out []string
	for _, role := range roles {
		for _, s := range roleScopes[role] {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, string(s))
		}
	}
	return out
}

// ScopeStrings converts typed scopes for the wire.
func ScopeStrings(scopes ...Scope) []string {
	out := make([]string, len(scopes))
	for i, s := range scopes {
		out[i] = string(s)
	}
	return out
}
