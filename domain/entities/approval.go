package entities

import "slices"

// ApprovalSet records applications whose elevated-risk requests an operator has
// approved permanently.
type ApprovalSet struct {
	Applications []string `yaml:"applications,omitempty"`
}

// Approves reports whether application has a standing approval.
func (s *ApprovalSet) Approves(application string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.Applications, application)
}

// Add records a standing approval for application. Adding twice is a no-op.
func (s *ApprovalSet) Add(application string) {
	if application == "" || s.Approves(application) {
		return
	}
	s.Applications = append(s.Applications, application)
	slices.Sort(s.Applications)
}
