package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ExtractionResult is the untrusted, loosely typed output of resume extraction.
// It is produced once per upload and consumed once by the persister.
type ExtractionResult struct {
	Experiences    []ExperienceCandidate    `json:"experiences"`
	Education      []EducationCandidate     `json:"education"`
	Skills         []SkillCandidate         `json:"skills"`
	Projects       []ProjectCandidate       `json:"projects"`
	Certifications []CertificationCandidate `json:"certifications"`
}

// ExperienceCandidate mirrors Experience with free-text dates
type ExperienceCandidate struct {
	Company      LooseString `json:"company"`
	Role         LooseString `json:"role"`
	StartDate    LooseString `json:"startDate"`
	EndDate      LooseString `json:"endDate"`
	Description  LooseString `json:"description"`
	Technologies LooseList   `json:"technologies"`
}

// EducationCandidate mirrors Education with free-text years
type EducationCandidate struct {
	Degree      LooseString `json:"degree"`
	Institution LooseString `json:"institution"`
	StartYear   LooseString `json:"startYear"`
	EndYear     LooseString `json:"endYear"`
	Description LooseString `json:"description"`
}

// SkillCandidate mirrors Skill
type SkillCandidate struct {
	Name        LooseString `json:"name"`
	Proficiency LooseString `json:"proficiency"`
}

// ProjectCandidate mirrors Project
type ProjectCandidate struct {
	Title       LooseString `json:"title"`
	Description LooseString `json:"description"`
	TechStack   LooseList   `json:"techStack"`
	GithubURL   LooseString `json:"githubUrl"`
	LiveURL     LooseString `json:"liveUrl"`
}

// CertificationCandidate mirrors Certification with free-text dates
type CertificationCandidate struct {
	Title         LooseString `json:"title"`
	Issuer        LooseString `json:"issuer"`
	IssueDate     LooseString `json:"issueDate"`
	ExpiryDate    LooseString `json:"expiryDate"`
	CredentialID  LooseString `json:"credentialId"`
	CredentialURL LooseString `json:"credentialUrl"`
}

// ExtractionSummary counts the records accepted per category
type ExtractionSummary struct {
	Experiences    int `json:"experiences"`
	Educations     int `json:"educations"`
	Skills         int `json:"skills"`
	Projects       int `json:"projects"`
	Certifications int `json:"certifications"`
}

// Total sums all categories
func (s ExtractionSummary) Total() int {
	return s.Experiences + s.Educations + s.Skills + s.Projects + s.Certifications
}

// LooseString accepts a JSON string, number, boolean or null and keeps its text form
type LooseString string

// UnmarshalJSON implements json.Unmarshaler
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = LooseString(str)
	case '{', '[':
		*s = ""
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err == nil {
			*s = LooseString(num.String())
			return nil
		}
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*s = LooseString(strconv.FormatBool(b))
	}
	return nil
}

// String returns the trimmed text
func (s LooseString) String() string {
	return strings.TrimSpace(string(s))
}

// Ptr returns nil for blank values
func (s LooseString) Ptr() *string {
	v := s.String()
	if v == "" {
		return nil
	}
	return &v
}

// LooseList accepts a JSON array of scalars or a single comma-joined string
type LooseList []string

// UnmarshalJSON implements json.Unmarshaler
func (l *LooseList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []LooseString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if v := item.String(); v != "" {
				out = append(out, v)
			}
		}
		*l = out
		return nil
	}
	var single LooseString
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = SplitList(single.String())
	return nil
}
