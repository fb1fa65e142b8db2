package models

// Auth methods recorded on an Identity.
const (
	AuthMethodBearer = "bearer"
	AuthMethodAPIKey = "api_key"
	AuthMethodBasic  = "basic"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	SubjectID   string         `json:"subjectId"`
	DisplayName string         `json:"displayName,omitempty"`
	AuthMethod  string         `json:"authMethod"`
	Claims      map[string]any `json:"claims,omitempty"`
}
