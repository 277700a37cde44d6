// Package models holds the closed domain enums shared by the feature
// packages: roles, units, activity kinds, weekdays and enrollment status.
// All of them are stored as their string value.
package models

// Role is the profile role used for every permission check.
type Role string

const (
	Aluno     Role = "aluno"
	Professor Role = "professor"
	Admin     Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case Aluno, Professor, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }
