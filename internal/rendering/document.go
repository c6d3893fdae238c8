package rendering

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jonathan/rezoom/internal/types"
)

// SoftSkills are listed on every resume next to the technical skills
var SoftSkills = []string{"Communication", "Teamwork", "Problem Solving"}

// document is the format-neutral content of a resume. All fields hold raw user text.
type document struct {
	Name            string
	Contact         []string
	Objective       string
	Education       []educationEntry
	TechnicalSkills []string
	SoftSkills      []string
	Experience      []experienceEntry
	Projects        []projectEntry
	Certifications  []certificationEntry
}

type experienceEntry struct {
	Role         string
	Company      string
	Dates        string
	Description  string
	Technologies string
}

type educationEntry struct {
	Degree      string
	Institution string
	Years       string
	Description string
}

type projectEntry struct {
	Title       string
	Description string
	TechStack   string
	Links       []string
}

type certificationEntry struct {
	Title      string
	Issuer     string
	Dates      string
	Credential string
}

func newDocument(profile *types.Profile) document {
	doc := document{
		Name:       strings.TrimSpace(profile.User.Name),
		Contact:    contactLine(&profile.User),
		Objective:  Objective(profile),
		SoftSkills: slices.Clone(SoftSkills),
	}

	experiences := slices.Clone(profile.Experiences)
	slices.SortStableFunc(experiences, func(a, b types.Experience) int {
		return b.StartDate.Compare(a.StartDate.Time)
	})
	for _, e := range experiences {
		doc.Experience = append(doc.Experience, experienceEntry{
			Role:         e.Role,
			Company:      e.Company,
			Dates:        dateRange(e.StartDate, e.EndDate, "Present"),
			Description:  strings.TrimSpace(e.Description),
			Technologies: strings.Join(e.Technologies, ", "),
		})
	}

	education := slices.Clone(profile.Education)
	slices.SortStableFunc(education, func(a, b types.Education) int {
		return b.StartYear - a.StartYear
	})
	for _, e := range education {
		doc.Education = append(doc.Education, educationEntry{
			Degree:      e.Degree,
			Institution: e.Institution,
			Years:       yearRange(e.StartYear, e.EndYear),
			Description: strings.TrimSpace(e.Description),
		})
	}

	for _, s := range rankedSkills(profile.Skills) {
		if isTechnical(s.Proficiency) {
			doc.TechnicalSkills = append(doc.TechnicalSkills, s.Name)
		}
	}

	for _, p := range profile.Projects {
		entry := projectEntry{
			Title:       p.Title,
			Description: strings.TrimSpace(p.Description),
			TechStack:   strings.Join(p.TechStack, ", "),
		}
		if p.GithubURL != nil && *p.GithubURL != "" {
			entry.Links = append(entry.Links, *p.GithubURL)
		}
		if p.LiveURL != nil && *p.LiveURL != "" {
			entry.Links = append(entry.Links, *p.LiveURL)
		}
		doc.Projects = append(doc.Projects, entry)
	}

	certifications := slices.Clone(profile.Certifications)
	slices.SortStableFunc(certifications, func(a, b types.Certification) int {
		return b.IssueDate.Compare(a.IssueDate.Time)
	})
	for _, c := range certifications {
		entry := certificationEntry{
			Title:  c.Title,
			Issuer: c.Issuer,
			Dates:  formatMonth(c.IssueDate),
		}
		if c.ExpiryDate != nil && !c.ExpiryDate.IsZero() {
			entry.Dates += " - " + formatMonth(*c.ExpiryDate)
		}
		var credential []string
		if c.CredentialID != nil && *c.CredentialID != "" {
			credential = append(credential, "ID: "+*c.CredentialID)
		}
		if c.CredentialURL != nil && *c.CredentialURL != "" {
			credential = append(credential, *c.CredentialURL)
		}
		entry.Credential = strings.Join(credential, " | ")
		doc.Certifications = append(doc.Certifications, entry)
	}

	return doc
}

// Objective synthesizes the summary line from the experience count and the two
// highest-ranked skills. It never depends on anything but the profile.
func Objective(profile *types.Profile) string {
	var top []string
	for _, s := range rankedSkills(profile.Skills) {
		if len(top) == 2 {
			break
		}
		top = append(top, s.Name)
	}

	n := len(profile.Experiences)
	var b strings.Builder
	joiner := " and"
	switch n {
	case 0:
		b.WriteString("Motivated professional")
		joiner = " with"
	case 1:
		b.WriteString("Professional with 1 role of experience")
	default:
		fmt.Fprintf(&b, "Professional with %d roles of experience", n)
	}
	switch len(top) {
	case 1:
		fmt.Fprintf(&b, "%s strengths in %s", joiner, top[0])
	case 2:
		fmt.Fprintf(&b, "%s strengths in %s and %s", joiner, top[0], top[1])
	}
	b.WriteString(", seeking to contribute to a team that values quality work.")
	return b.String()
}

// rankedSkills orders skills by proficiency, highest first, keeping stored order for ties
func rankedSkills(skills []types.Skill) []types.Skill {
	ranked := make([]types.Skill, 0, len(skills))
	for _, s := range skills {
		if strings.TrimSpace(s.Name) != "" {
			ranked = append(ranked, s)
		}
	}
	slices.SortStableFunc(ranked, func(a, b types.Skill) int {
		return b.Proficiency.Rank() - a.Proficiency.Rank()
	})
	return ranked
}

func isTechnical(p types.Proficiency) bool {
	switch p {
	case types.ProficiencyExpert, types.ProficiencyAdvanced, types.ProficiencyIntermediate:
		return true
	}
	return false
}

func contactLine(u *types.User) []string {
	var out []string
	for _, v := range []string{u.Email, u.Phone, u.Location, u.LinkedIn, u.GitHub, u.Website} {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func formatMonth(d types.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("Jan 2006")
}

func dateRange(start types.Date, end *types.Date, open string) string {
	if end == nil || end.IsZero() {
		return formatMonth(start) + " - " + open
	}
	return formatMonth(start) + " - " + formatMonth(*end)
}

func yearRange(start int, end *int) string {
	if end == nil {
		return strconv.Itoa(start) + " - Present"
	}
	return strconv.Itoa(start) + " - " + strconv.Itoa(*end)
}
