package catalog

import "strings"

// PaperKey is the parsed form of a yearly-paper identity.
type PaperKey struct {
	Session string
	Year    string
	Code    string
}

// DeriveIdentity builds "{session}_{year}_{code}" with the session lowercased.
// It returns "" unless all three parts are present.
func DeriveIdentity(session, year, code string) string {
	session = strings.ToLower(strings.TrimSpace(session))
	year = strings.TrimSpace(year)
	code = strings.TrimSpace(code)
	if session == "" || year == "" || code == "" {
		return ""
	}
	return session + "_" + year + "_" + code
}

// ParseIdentity splits an identity into exactly three "_" separated parts.
// Parts may be empty; they then simply fail to match a filter.
func ParseIdentity(id string) (PaperKey, bool) {
	parts := strings.Split(id, "_")
	if len(parts) != 3 {
		return PaperKey{}, false
	}
	return PaperKey{Session: parts[0], Year: parts[1], Code: parts[2]}, true
}

func (k PaperKey) String() string {
	return k.Session + "_" + k.Year + "_" + k.Code
}
