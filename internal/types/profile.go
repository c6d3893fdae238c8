// Package types provides type definitions for structured data used throughout the rezoom system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Proficiency is the self-assessed level of a skill
type Proficiency string

// Proficiency levels, lowest first
const (
	ProficiencyBeginner     Proficiency = "Beginner"
	ProficiencyIntermediate Proficiency = "Intermediate"
	ProficiencyAdvanced     Proficiency = "Advanced"
	ProficiencyExpert       Proficiency = "Expert"
)

// Proficiencies lists the accepted proficiency values in ascending order
var Proficiencies = []Proficiency{
	ProficiencyBeginner,
	ProficiencyIntermediate,
	ProficiencyAdvanced,
	ProficiencyExpert,
}

// Valid reports whether p is one of the enumerated levels
func (p Proficiency) Valid() bool {
	return p.Rank() > 0
}

// Rank orders proficiencies; unknown values rank 0
func (p Proficiency) Rank() int {
	for i, v := range Proficiencies {
		if v == p {
			return i + 1
		}
	}
	return 0
}

// ParseProficiency matches a level case-insensitively
func ParseProficiency(s string) (Proficiency, bool) {
	s = strings.TrimSpace(s)
	for _, v := range Proficiencies {
		if strings.EqualFold(string(v), s) {
			return v, true
		}
	}
	return "", false
}

// User represents the owner of a profile
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Location     string    `json:"location,omitempty"`
	Headline     string    `json:"headline,omitempty"`
	LinkedIn     string    `json:"linkedin,omitempty"`
	GitHub       string    `json:"github,omitempty"`
	Website      string    `json:"website,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Experience is an employment history entry. A nil EndDate means the role is current.
type Experience struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	Company      string    `json:"company"`
	Role         string    `json:"role"`
	StartDate    Date      `json:"startDate"`
	EndDate      *Date     `json:"endDate"`
	Description  string    `json:"description"`
	Technologies []string  `json:"technologies"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validate checks required fields and date ordering
func (e *Experience) Validate() error {
	if strings.TrimSpace(e.Company) == "" {
		return &ValidationError{Field: "company", Message: "is required"}
	}
	if strings.TrimSpace(e.Role) == "" {
		return &ValidationError{Field: "role", Message: "is required"}
	}
	if e.StartDate.IsZero() {
		return &ValidationError{Field: "startDate", Message: "is required"}
	}
	if e.EndDate != nil && !e.EndDate.IsZero() && e.EndDate.Before(e.StartDate.Time) {
		return &ValidationError{Field: "endDate", Message: "must not be before startDate"}
	}
	return nil
}

// Education is a degree or course of study. A nil EndYear means ongoing.
type Education struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Degree      string    `json:"degree"`
	Institution string    `json:"institution"`
	StartYear   int       `json:"startYear"`
	EndYear     *int      `json:"endYear"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks required fields and year ordering
func (e *Education) Validate() error {
	if strings.TrimSpace(e.Degree) == "" {
		return &ValidationError{Field: "degree", Message: "is required"}
	}
	if strings.TrimSpace(e.Institution) == "" {
		return &ValidationError{Field: "institution", Message: "is required"}
	}
	if e.StartYear <= 0 {
		return &ValidationError{Field: "startYear", Message: "is required"}
	}
	if e.EndYear != nil && *e.EndYear < e.StartYear {
		return &ValidationError{Field: "endYear", Message: "must not be before startYear"}
	}
	return nil
}

// Skill is a named capability with a proficiency level
type Skill struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"userId"`
	Name        string      `json:"name"`
	Proficiency Proficiency `json:"proficiency"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Validate checks the name and proficiency enum
func (s *Skill) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if !s.Proficiency.Valid() {
		return &ValidationError{Field: "proficiency", Message: fmt.Sprintf("must be one of %s", proficiencyList())}
	}
	return nil
}

// Project is a portfolio entry
type Project struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TechStack   []string  `json:"techStack"`
	GithubURL   *string   `json:"githubUrl"`
	LiveURL     *string   `json:"liveUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks required fields
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	return nil
}

// Certification is a credential issued by a third party
type Certification struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	Title         string    `json:"title"`
	Issuer        string    `json:"issuer"`
	IssueDate     Date      `json:"issueDate"`
	ExpiryDate    *Date     `json:"expiryDate"`
	CredentialID  *string   `json:"credentialId"`
	CredentialURL *string   `json:"credentialUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Validate checks required fields and date ordering
func (c *Certification) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if strings.TrimSpace(c.Issuer) == "" {
		return &ValidationError{Field: "issuer", Message: "is required"}
	}
	if c.IssueDate.IsZero() {
		return &ValidationError{Field: "issueDate", Message: "is required"}
	}
	if c.ExpiryDate != nil && !c.ExpiryDate.IsZero() && c.ExpiryDate.Before(c.IssueDate.Time) {
		return &ValidationError{Field: "expiryDate", Message: "must not be before issueDate"}
	}
	return nil
}

// Profile is the fully loaded aggregate of a user's records
type Profile struct {
	User           User            `json:"user"`
	Experiences    []Experience    `json:"experiences"`
	Education      []Education     `json:"education"`
	Skills         []Skill         `json:"skills"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
}

// Resume is a generated resume document. Content is always a full rendering of a profile snapshot.
type Resume struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Template  string    `json:"template"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidationError reports a record that violates a field rule
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// JoinList stores a string list in its comma-joined column form
func JoinList(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return strings.Join(cleaned, ", ")
}

// SplitList parses a comma-joined column back into a list
func SplitList(joined string) []string {
	items := []string{}
	for _, part := range strings.Split(joined, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func proficiencyList() string {
	names := make([]string, len(Proficiencies))
	for i, p := range Proficiencies {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
