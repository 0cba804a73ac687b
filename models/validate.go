package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the longest project title accepted, in characters.
const MaxTitleLength = 100

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

// FieldError is one violated rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors is every rule a record violates, in field order.
type FieldErrors []FieldError

func (fe FieldErrors) Messages() []string {
	messages := make([]string, 0, len(fe))
	for _, e := range fe {
		messages = append(messages, e.Message)
	}
	return messages
}

// Has reports whether field is among the violations.
func (fe FieldErrors) Has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}

// ValidateProject normalizes p in place (trimming text, dropping blank list
// entries) and returns every rule it breaks. Create and update both call it.
func ValidateProject(p *Project) FieldErrors {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.ProjectLink = strings.TrimSpace(p.ProjectLink)
	p.LiveDemo = strings.TrimSpace(p.LiveDemo)
	p.SourceCode = strings.TrimSpace(p.SourceCode)
	p.Images = compact(p.Images)
	p.Videos = compact(p.Videos)
	p.Technologies = compact(p.Technologies)
	p.Categories = compact(p.Categories)

	var errs FieldErrors
	if p.Title == "" {
		errs = append(errs, FieldError{"title", "Title is required"})
	} else if utf8.RuneCountInString(p.Title) > MaxTitleLength {
		errs = append(errs, FieldError{"title", "Title cannot be more than 100 characters"})
	}
	if p.Description == "" {
		errs = append(errs, FieldError{"description", "Description is required"})
	}
	if p.ProjectLink == "" {
		errs = append(errs, FieldError{"projectLink", "Project link is required"})
	}
	if len(p.Images) == 0 {
		errs = append(errs, FieldError{"images", "At least one image URL is required"})
	}
	if len(p.Technologies) == 0 {
		errs = append(errs, FieldError{"technologies", "At least one technology is required"})
	}
	if p.Date.IsZero() {
		errs = append(errs, FieldError{"date", "Project date is required"})
	}
	if len(p.Categories) == 0 {
		errs = append(errs, FieldError{"categories", "At least one category is required"})
	}
	return errs
}

// ValidateSkill is the Skill counterpart of ValidateProject.
func ValidateSkill(s *Skill) FieldErrors {
	s.Category = strings.TrimSpace(s.Category)
	s.Icon = strings.TrimSpace(s.Icon)
	s.Items = compact(s.Items)

	var errs FieldErrors
	if s.Category == "" {
		errs = append(errs, FieldError{"category", "Category is required"})
	}
	if s.Icon == "" {
		errs = append(errs, FieldError{"icon", "Icon name is required"})
	}
	if len(s.Items) == 0 {
		errs = append(errs, FieldError{"items", "At least one skill item is required"})
	}
	return errs
}

// ValidateCredentials checks a username/password pair before any store access.
func ValidateCredentials(username, password string) FieldErrors {
	var errs FieldErrors
	if strings.TrimSpace(username) == "" {
		errs = append(errs, FieldError{"username", "Username is required"})
	}
	if password == "" {
		errs = append(errs, FieldError{"password", "Password is required"})
	} else if len(password) > MaxPasswordBytes {
		errs = append(errs, FieldError{"password", fmt.Sprintf("Password cannot be more than %d bytes", MaxPasswordBytes)})
	}
	return errs
}

// compact trims every entry and drops the blank ones. The result is never nil.
func compact[S ~[]string](in S) S {
	out := make(S, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
