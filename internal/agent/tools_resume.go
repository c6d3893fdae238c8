package agent

import (
	"context"
	"strings"

	"github.com/jonathan/rezoom/internal/db"
	"github.com/jonathan/rezoom/internal/rendering"
	"github.com/jonathan/rezoom/internal/types"
)

type resumeArgs struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=200"`
	Template *string `json:"template" validate:"omitempty,oneof=classic compact"`
}

func resumeParams() map[string]any {
	return object(map[string]any{
		"title":    requiredStr("Document title shown in the resume list", 200),
		"template": enum("Layout to use; classic when omitted", rendering.TemplateClassic, rendering.TemplateCompact),
	})
}

// resumeSummary is what the model sees of a resume; the LaTeX body stays out of the transcript
func resumeSummary(r *types.Resume) map[string]any {
	return map[string]any{
		"id":        r.ID.String(),
		"title":     r.Title,
		"template":  r.Template,
		"updatedAt": r.UpdatedAt,
		"length":    len(r.Content),
	}
}

func defaultResumeTitle(profile *types.Profile) string {
	if name := strings.TrimSpace(profile.User.Name); name != "" {
		return name + " Resume"
	}
	return "Resume"
}

func createResumeTool(store db.Store) *Tool {
	return newTool("create_resume",
		"Generates a new resume document from the current profile and saves it.",
		resumeParams(),
		func(ctx context.Context, s *Session, args *resumeArgs, _ map[string]any) (any, error) {
			profile, err := store.LoadProfile(ctx, s.UserID)
			if err != nil {
				return nil, storeFailure("profile", "", err)
			}
			templateID := ""
			if args.Template != nil {
				templateID = *args.Template
			}
			templateID, err = rendering.ResolveTemplate(templateID)
			if err != nil {
				return nil, &ValidationError{Tool: "create_resume", Message: "unknown template", Cause: err}
			}
			content, err := rendering.RenderResume(profile, templateID)
			if err != nil {
				return nil, &StoreError{Message: "failed to render resume", Cause: err}
			}

			resume := &types.Resume{
				UserID:   s.UserID,
				Title:    titleOr(args.Title, defaultResumeTitle(profile)),
				Content:  content,
				Template: templateID,
			}
			if err := store.CreateResume(ctx, resume); err != nil {
				return nil, storeFailure("resume", "", err)
			}
			s.setResume(resume.ID)
			s.setStep(types.StepGenerating)
			return resumeSummary(resume), nil
		})
}

func regenerateResumeTool(store db.Store) *Tool {
	return newTool("regenerate_resume",
		"Re-renders the resume being edited in this conversation from the current profile. Use after changing the profile for that resume.",
		resumeParams(),
		func(ctx context.Context, s *Session, args *resumeArgs, _ map[string]any) (any, error) {
			id := s.ResumeID()
			if id == nil {
				return nil, &NotFoundError{Resource: "resume being edited"}
			}
			resume, err := store.GetResume(ctx, s.UserID, *id)
			if err != nil {
				return nil, storeFailure("resume", id.String(), err)
			}
			profile, err := store.LoadProfile(ctx, s.UserID)
			if err != nil {
				return nil, storeFailure("profile", "", err)
			}

			templateID := resume.Template
			if args.Template != nil {
				templateID = *args.Template
			}
			templateID, err = rendering.ResolveTemplate(templateID)
			if err != nil {
				return nil, &ValidationError{Tool: "regenerate_resume", Message: "unknown template", Cause: err}
			}
			content, err := rendering.RenderResume(profile, templateID)
			if err != nil {
				return nil, &StoreError{Message: "failed to render resume", Cause: err}
			}

			resume.Content = content
			resume.Template = templateID
			resume.Title = titleOr(args.Title, resume.Title)
			if err := store.UpdateResume(ctx, resume); err != nil {
				return nil, storeFailure("resume", id.String(), err)
			}
			s.setResume(resume.ID)
			s.setStep(types.StepGenerating)
			return resumeSummary(resume), nil
		})
}

// titleOr returns the trimmed title, or fallback when it is absent or blank
func titleOr(title *string, fallback string) string {
	if title == nil {
		return fallback
	}
	if t := strings.TrimSpace(*title); t != "" {
		return t
	}
	return fallback
}
