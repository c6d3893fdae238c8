package agent

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/rezoom/internal/db"
	"github.com/jonathan/rezoom/internal/types"
)

type idArgs struct {
	ID string `json:"id" validate:"required,uuid"`
}

func (a *idArgs) parsedID() uuid.UUID {
	return uuid.MustParse(a.ID)
}

func idParams(resource string) map[string]any {
	return object(map[string]any{"id": recordID(resource)}, "id")
}

func deleted(resource string, id uuid.UUID) map[string]any {
	return map[string]any{"deleted": resource, "id": id.String()}
}

func listProfileTool(store db.Store) *Tool {
	return newTool("list_profile",
		"Returns the user's contact details and every experience, education, skill, project and certification with their ids.",
		object(map[string]any{}),
		func(ctx context.Context, s *Session, _ *struct{}, _ map[string]any) (any, error) {
			profile, err := store.LoadProfile(ctx, s.UserID)
			if err != nil {
				return nil, storeFailure("profile", "", err)
			}
			return profile, nil
		})
}

// Experience

type experienceArgs struct {
	Company      string   `json:"company" validate:"required,max=200"`
	Role         string   `json:"role" validate:"required,max=200"`
	StartDate    string   `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate      *string  `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Description  string   `json:"description" validate:"max=5000"`
	Technologies []string `json:"technologies" validate:"max=50,dive,max=100"`
}

type experiencePatch struct {
	idArgs
	Company      *string  `json:"company" validate:"omitempty,min=1,max=200"`
	Role         *string  `json:"role" validate:"omitempty,min=1,max=200"`
	StartDate    *string  `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate      *string  `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Description  *string  `json:"description" validate:"omitempty,max=5000"`
	Technologies []string `json:"technologies" validate:"max=50,dive,max=100"`
}

func experienceProps(withID bool) map[string]any {
	props := map[string]any{
		"company":      requiredStr("Employer name", 200),
		"role":         requiredStr("Job title", 200),
		"startDate":    date("First day in the role"),
		"endDate":      nullableDate("Last day in the role; null or omitted while current"),
		"description":  str("What the user did and achieved", 5000),
		"technologies": stringList("Technologies used"),
	}
	if withID {
		props["id"] = recordID("experience")
	}
	return props
}

func experienceTools(store db.Store) []*Tool {
	create := newTool("create_experience", "Adds a work experience to the profile.",
		object(experienceProps(false), "company", "role", "startDate"),
		func(ctx context.Context, s *Session, args *experienceArgs, _ map[string]any) (any, error) {
			start, err := parseDate(args.StartDate)
			if err != nil {
				return nil, rejectRecord("create_experience", err)
			}
			end, err := parseOptionalDate(args.EndDate)
			if err != nil {
				return nil, rejectRecord("create_experience", err)
			}
			exp := &types.Experience{
				UserID:       s.UserID,
				Company:      strings.TrimSpace(args.Company),
				Role:         strings.TrimSpace(args.Role),
				StartDate:    start,
				EndDate:      end,
				Description:  strings.TrimSpace(args.Description),
				Technologies: args.Technologies,
			}
			if err := exp.Validate(); err != nil {
				return nil, rejectRecord("create_experience", err)
			}
			if err := store.CreateExperience(ctx, exp); err != nil {
				return nil, storeFailure("experience", "", err)
			}
			s.setStep(types.StepSaving)
			return exp, nil
		})

	update := newTool("update_experience", "Changes fields of an existing experience. Omitted fields stay as they are.",
		object(experienceProps(true), "id"),
		func(ctx context.Context, s *Session, args *experiencePatch, raw map[string]any) (any, error) {
			exp, err := store.GetExperience(ctx, s.UserID, args.parsedID())
			if err != nil {
				return nil, storeFailure("experience", args.ID, err)
			}
			if args.Company != nil {
				exp.Company = strings.TrimSpace(*args.Company)
			}
			if args.Role != nil {
				exp.Role = strings.TrimSpace(*args.Role)
			}
			if args.StartDate != nil {
				if exp.StartDate, err = parseDate(*args.StartDate); err != nil {
					return nil, rejectRecord("update_experience", err)
				}
			}
			if has(raw, "endDate") {
				if exp.EndDate, err = parseOptionalDate(args.EndDate); err != nil {
					return nil, rejectRecord("update_experience", err)
				}
			}
			if args.Description != nil {
				exp.Description = strings.TrimSpace(*args.Description)
			}
			if has(raw, "technologies") {
				exp.Technologies = args.Technologies
			}
			if err := exp.Validate(); err != nil {
				return nil, rejectRecord("update_experience", err)
			}
			if err := store.UpdateExperience(ctx, exp); err != nil {
				return nil, storeFailure("experience", args.ID, err)
			}
			s.setStep(types.StepSaving)
			return exp, nil
		})

	remove := newTool("delete_experience", "Removes an experience from the profile.",
		idParams("experience"),
		func(ctx context.Context, s *Session, args *idArgs, _ map[string]any) (any, error) {
			if err := store.DeleteExperience(ctx, s.UserID, args.parsedID()); err != nil {
				return nil, storeFailure("experience", args.ID, err)
			}
			s.setStep(types.StepSaving)
			return deleted("experience", args.parsedID()), nil
		})

	return []*Tool{create, update, remove}
}

// Education

type educationArgs struct {
	Degree      string `json:"degree" validate:"required,max=200"`
	Institution string `json:"institution" validate:"required,max=200"`
	StartYear   int    `json:"startYear" validate:"required,min=1900,max=2100"`
	EndYear     *int   `json:"endYear" validate:"omitempty,min=1900,max=2100"`
	Description string `json:"description" validate:"max=5000"`
}

type educationPatch struct {
	idArgs
	Degree      *string `json:"degree" validate:"omitempty,min=1,max=200"`
	Institution *string `json:"institution" validate:"omitempty,min=1,max=200"`
	StartYear   *int    `json:"startYear" validate:"omitempty,min=1900,max=2100"`
	EndYear     *int    `json:"endYear" validate:"omitempty,min=1900,max=2100"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
}

func educationProps(withID bool) map[string]any {
	props := map[string]any{
		"degree":      requiredStr("Degree or course name", 200),
		"institution": requiredStr("School or university", 200),
		"startYear":   year("Year studies began"),
		"endYear":     nullableYear("Year studies ended; null or omitted if ongoing"),
		"description": str("Honours, focus areas or notes", 5000),
	}
	if withID {
		props["id"] = recordID("education")
	}
	return props
}

func educationTools(store db.Store) []*Tool {
	create := newTool("create_education", "Adds an education entry to the profile.",
		object(educationProps(false), "degree", "institution", "startYear"),
		func(ctx context.Context, s *Session, args *educationArgs, _ map[string]any) (any, error) {
			edu := &types.Education{
				UserID:      s.UserID,
				Degree:      strings.TrimSpace(args.Degree),
				Institution: strings.TrimSpace(args.Institution),
				StartYear:   args.StartYear,
				EndYear:     args.EndYear,
				Description: strings.TrimSpace(args.Description),
			}
			if err := edu.Validate(); err != nil {
				return nil, rejectRecord("create_education", err)
			}
			if err := store.CreateEducation(ctx, edu); err != nil {
				return nil, storeFailure("education", "", err)
			}
			s.setStep(types.StepSaving)
			return edu, nil
		})

	update := newTool("update_education", "Changes fields of an existing education entry. Omitted fields stay as they are.",
		object(educationProps(true), "id"),
		func(ctx context.Context, s *Session, args *educationPatch, raw map[string]any) (any, error) {
			edu, err := store.GetEducation(ctx, s.UserID, args.parsedID())
			if err != nil {
				return nil, storeFailure("education", args.ID, err)
			}
			if args.Degree != nil {
				edu.Degree = strings.TrimSpace(*args.Degree)
			}
			if args.Institution != nil {
				edu.Institution = strings.TrimSpace(*args.Institution)
			}
			if args.StartYear != nil {
				edu.StartYear = *args.StartYear
			}
			if has(raw, "endYear") {
				edu.EndYear = args.EndYear
			}
			if args.Description != nil {
				edu.Description = strings.TrimSpace(*args.Description)
			}
			if err := edu.Validate(); err != nil {
				return nil, rejectRecord("update_education", err)
			}
			if err := store.UpdateEducation(ctx, edu); err != nil {
				return nil, storeFailure("education", args.ID, err)
			}
			s.setStep(types.StepSaving)
			return edu, nil
		})

	remove := newTool("delete_education", "Removes an education entry from the profile.",
		idParams("education"),
		func(ctx context.Context, s *Session, args *idArgs, _ map[string]any) (any, error) {
			if err := store.DeleteEducation(ctx, s.UserID, args.parsedID()); err != nil {
				return nil, storeFailure("education", args.ID, err)
			}
			s.setStep(types.StepSaving)
			return deleted("education", args.parsedID()), nil
		})

	return []*Tool{create, update, remove}
}

// Skills

var proficiencyValues = []string{
	string(types.ProficiencyBeginner),
	string(types.ProficiencyIntermediate),
	string(types.ProficiencyAdvanced),
	string(types.ProficiencyExpert),
}

type skillArgs struct {
	Name        string `json:"name" validate:"required,max=100"`
	Proficiency string `json:"proficiency" validate:"required,oneof=Beginner Intermediate Advanced Expert"`
}

type skillPatch struct {
	idArgs
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Proficiency *string `json:"proficiency" validate:"omitempty,oneof=Beginner Intermediate Advanced Expert"`
}

func skillProps(withID bool) map[string]any {
	props := map[string]any{
		"name":        requiredStr("Skill name, e.g. Go or Public speaking", 100),
		"proficiency": enum("Self-assessed level", proficiencyValues...),
	}
	if withID {
		props["id"] = recordID("skill")
	}
	return props
}

func skillTools(store db.Store) []*Tool {
	create := newTool("create_skill", "Adds a skill with a proficiency level to the profile.",
		object(skillProps(false), "name", "proficiency"),
		func(ctx context.Context, s *Session, args *skillArgs, _ map[string]any) (any, error) {
			skill := &types.Skill{
				UserID:      s.UserID,
				Name:        strings.TrimSpace(args.Name),
				Proficiency: types.Proficiency(args.Proficiency),
			}
			if err := skill.Validate(); err != nil {
				return nil, rejectRecord("create_skill", err)
			}
			if err := store.CreateSkill(ctx, skill); err != nil {
				return nil, storeFailure("skill", "", err)
			}
			s.setStep(types.StepSaving)
			return skill, nil
		})

	update := newTool("update_skill", "Renames a skill or changes its proficiency.",
		object(skillProps(true), "id"),
		func(ctx context.Context, s *Session, args *skillPatch, _ map[string]any) (any, error) {
			skill, err := store.GetSkill(ctx, s.UserID, args.parsedID())
			if err != nil {
				return nil, storeFailure("skill", args.ID, err)
			}
			if args.Name != nil {
				skill.Name = strings.TrimSpace(*args.Name)
			}
			if args.Proficiency != nil {
				skill.Proficiency = types.Proficiency(*args.Proficiency)
			}
			if err := skill.Validate(); err != nil {
				return nil, rejectRecord("update_skill", err)
			}
			if err := store.UpdateSkill(ctx, skill); err != nil {
				return nil, storeFailure("skill", args.ID, err)
			}
			s.setStep(types.StepSaving)
			return skill, nil
		})

	remove := newTool("delete_skill", "Removes a skill from the profile.",
		idParams("skill"),
		func(ctx context.Context, s *Session, args *idArgs, _ map[string]any) (any, error) {
			if err := store.DeleteSkill(ctx, s.UserID, args.parsedID()); err != nil {
				return nil, storeFailure("skill", args.ID, err)
			}
			s.setStep(types.StepSaving)
			return deleted("skill", args.parsedID()), nil
		})

	return []*Tool{create, update, remove}
}

// Projects

type projectArgs struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	TechStack   []string `json:"techStack" validate:"max=50,dive,max=100"`
	GithubURL   *string  `json:"githubUrl" validate:"omitempty,http_url,max=500"`
	LiveURL     *string  `json:"liveUrl" validate:"omitempty,http_url,max=500"`
}

type projectPatch struct {
	idArgs
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	TechStack   []string `json:"techStack" validate:"max=50,dive,max=100"`
	GithubURL   *string  `json:"githubUrl" validate:"omitempty,http_url,max=500"`
	LiveURL     *string  `json:"liveUrl" validate:"omitempty,http_url,max=500"`
}

func projectProps(withID bool) map[string]any {
	props := map[string]any{
		"title":       requiredStr("Project name", 200),
		"description": str("What the project does and the user's part in it", 5000),
		"techStack":   stringList("Technologies used"),
		"githubUrl":   nullableStr("Source repository URL", 500),
		"liveUrl":     nullableStr("Deployed site URL", 500),
	}
	if withID {
		props["id"] = recordID("project")
	}
	return props
}

func projectTools(store db.Store) []*Tool {
	create := newTool("create_project", "Adds a portfolio project to the profile.",
		object(projectProps(false), "title"),
		func(ctx context.Context, s *Session, args *projectArgs, _ map[string]any) (any, error) {
			project := &types.Project{
				UserID:      s.UserID,
				Title:       strings.TrimSpace(args.Title),
				Description: strings.TrimSpace(args.Description),
				TechStack:   args.TechStack,
				GithubURL:   optionalString(args.GithubURL),
				LiveURL:     optionalString(args.LiveURL),
			}
			if err := project.Validate(); err != nil {
				return nil, rejectRecord("create_project", err)
			}
			if err := store.CreateProject(ctx, project); err != nil {
				return nil, storeFailure("project", "", err)
			}
			s.setStep(types.StepSaving)
			return project, nil
		})

	update := newTool("update_project", "Changes fields of an existing project. Omitted fields stay as they are.",
		object(projectProps(true), "id"),
		func(ctx context.Context, s *Session, args *projectPatch, raw map[string]any) (any, error) {
			project, err := store.GetProject(ctx, s.UserID, args.parsedID())
			if err != nil {
				return nil, storeFailure("project", args.ID, err)
			}
			if args.Title != nil {
				project.Title = strings.TrimSpace(*args.Title)
			}
			if args.Description != nil {
				project.Description = strings.TrimSpace(*args.Description)
			}
			if has(raw, "techStack") {
				project.TechStack = args.TechStack
			}
			if has(raw, "githubUrl") {
				project.GithubURL = optionalString(args.GithubURL)
			}
			if has(raw, "liveUrl") {
				project.LiveURL = optionalString(args.LiveURL)
			}
			if err := project.Validate(); err != nil {
				return nil, rejectRecord("update_project", err)
			}
			if err := store.UpdateProject(ctx, project); err != nil {
				return nil, storeFailure("project", args.ID, err)
			}
			s.setStep(types.StepSaving)
			return project, nil
		})

	remove := newTool("delete_project", "Removes a project from the profile.",
		idParams("project"),
		func(ctx context.Context, s *Session, args *idArgs, _ map[string]any) (any, error) {
			if err := store.DeleteProject(ctx, s.UserID, args.parsedID()); err != nil {
				return nil, storeFailure("project", args.ID, err)
			}
			s.setStep(types.StepSaving)
			return deleted("project", args.parsedID()), nil
		})

	return []*Tool{create, update, remove}
}

// Certifications

type certificationArgs struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Issuer        string  `json:"issuer" validate:"required,max=200"`
	IssueDate     string  `json:"issueDate" validate:"required,datetime=2006-01-02"`
	ExpiryDate    *string `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
	CredentialID  *string `json:"credentialId" validate:"omitempty,max=200"`
	CredentialURL *string `json:"credentialUrl" validate:"omitempty,http_url,max=500"`
}

type certificationPatch struct {
	idArgs
	Title         *string `json:"title" validate:"omitempty,min=1,max=200"`
	Issuer        *string `json:"issuer" validate:"omitempty,min=1,max=200"`
	IssueDate     *string `json:"issueDate" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate    *string `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
	CredentialID  *string `json:"credentialId" validate:"omitempty,max=200"`
	CredentialURL *string `json:"credentialUrl" validate:"omitempty,http_url,max=500"`
}

func certificationProps(withID bool) map[string]any {
	props := map[string]any{
		"title":         requiredStr("Certification name", 200),
		"issuer":        requiredStr("Issuing organisation", 200),
		"issueDate":     date("Date issued"),
		"expiryDate":    nullableDate("Expiry date; null or omitted if it does not expire"),
		"credentialId":  nullableStr("Credential identifier", 200),
		"credentialUrl": nullableStr("Verification URL", 500),
	}
	if withID {
		props["id"] = recordID("certification")
	}
	return props
}

func certificationTools(store db.Store) []*Tool {
	create := newTool("create_certification", "Adds a certification to the profile.",
		object(certificationProps(false), "title", "issuer", "issueDate"),
		func(ctx context.Context, s *Session, args *certificationArgs, _ map[string]any) (any, error) {
			issued, err := parseDate(args.IssueDate)
			if err != nil {
				return nil, rejectRecord("create_certification", err)
			}
			expiry, err := parseOptionalDate(args.ExpiryDate)
			if err != nil {
				return nil, rejectRecord("create_certification", err)
			}
			cert := &types.Certification{
				UserID:        s.UserID,
				Title:         strings.TrimSpace(args.Title),
				Issuer:        strings.TrimSpace(args.Issuer),
				IssueDate:     issued,
				ExpiryDate:    expiry,
				CredentialID:  optionalString(args.CredentialID),
				CredentialURL: optionalString(args.CredentialURL),
			}
			if err := cert.Validate(); err != nil {
				return nil, rejectRecord("create_certification", err)
			}
			if err := store.CreateCertification(ctx, cert); err != nil {
				return nil, storeFailure("certification", "", err)
			}
			s.setStep(types.StepSaving)
			return cert, nil
		})

	update := newTool("update_certification", "Changes fields of an existing certification. Omitted fields stay as they are.",
		object(certificationProps(true), "id"),
		func(ctx context.Context, s *Session, args *certificationPatch, raw map[string]any) (any, error) {
			cert, err := store.GetCertification(ctx, s.UserID, args.parsedID())
			if err != nil {
				return nil, storeFailure("certification", args.ID, err)
			}
			if args.Title != nil {
				cert.Title = strings.TrimSpace(*args.Title)
			}
			if args.Issuer != nil {
				cert.Issuer = strings.TrimSpace(*args.Issuer)
			}
			if args.IssueDate != nil {
				if cert.IssueDate, err = parseDate(*args.IssueDate); err != nil {
					return nil, rejectRecord("update_certification", err)
				}
			}
			if has(raw, "expiryDate") {
				if cert.ExpiryDate, err = parseOptionalDate(args.ExpiryDate); err != nil {
					return nil, rejectRecord("update_certification", err)
				}
			}
			if has(raw, "credentialId") {
				cert.CredentialID = optionalString(args.CredentialID)
			}
			if has(raw, "credentialUrl") {
				cert.CredentialURL = optionalString(args.CredentialURL)
			}
			if err := cert.Validate(); err != nil {
				return nil, rejectRecord("update_certification", err)
			}
			if err := store.UpdateCertification(ctx, cert); err != nil {
				return nil, storeFailure("certification", args.ID, err)
			}
			s.setStep(types.StepSaving)
			return cert, nil
		})

	remove := newTool("delete_certification", "Removes a certification from the profile.",
		idParams("certification"),
		func(ctx context.Context, s *Session, args *idArgs, _ map[string]any) (any, error) {
			if err := store.DeleteCertification(ctx, s.UserID, args.parsedID()); err != nil {
				return nil, storeFailure("certification", args.ID, err)
			}
			s.setStep(types.StepSaving)
			return deleted("certification", args.parsedID()), nil
		})

	return []*Tool{create, update, remove}
}

// User profile

type userPatch struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	Location *string `json:"location" validate:"omitempty,max=200"`
	Headline *string `json:"headline" validate:"omitempty,max=300"`
	LinkedIn *string `json:"linkedin" validate:"omitempty,max=300"`
	GitHub   *string `json:"github" validate:"omitempty,max=300"`
	Website  *string `json:"website" validate:"omitempty,max=300"`
}

func updateUserProfileTool(store db.Store) *Tool {
	params := object(map[string]any{
		"name":     requiredStr("Full name", 200),
		"phone":    str("Phone number", 50),
		"location": str("City and country", 200),
		"headline": str("One-line professional headline", 300),
		"linkedin": str("LinkedIn profile", 300),
		"github":   str("GitHub profile", 300),
		"website":  str("Personal website", 300),
	})
	params["minProperties"] = 1

	return newTool("update_user_profile", "Changes the user's contact details shown at the top of every resume. The email address cannot be changed here.",
		params,
		func(ctx context.Context, s *Session, args *userPatch, _ map[string]any) (any, error) {
			user, err := store.GetUser(ctx, s.UserID)
			if err != nil {
				return nil, storeFailure("user", "", err)
			}
			if user == nil {
				return nil, &NotFoundError{Resource: "user"}
			}
			set := func(dst *string, v *string) {
				if v != nil {
					*dst = strings.TrimSpace(*v)
				}
			}
			set(&user.Name, args.Name)
			set(&user.Phone, args.Phone)
			set(&user.Location, args.Location)
			set(&user.Headline, args.Headline)
			set(&user.LinkedIn, args.LinkedIn)
			set(&user.GitHub, args.GitHub)
			set(&user.Website, args.Website)
			if user.Name == "" {
				return nil, &ValidationError{Tool: "update_user_profile", Message: "name must not be blank"}
			}
			if err := store.UpdateUser(ctx, user); err != nil {
				return nil, storeFailure("user", "", err)
			}
			s.setStep(types.StepSaving)
			return user, nil
		})
}
