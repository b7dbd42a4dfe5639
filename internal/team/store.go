// Package team manages team-member profiles for the agency's about page.
// Profiles are keyed by lowercased email, so saving the same address twice
// updates the existing profile instead of duplicating it.
package team

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/impactorbit/impactorbit-backend/internal/docstore"
)

// ErrInvalid marks caller-supplied profile data that failed validation.
var ErrInvalid = errors.New("invalid team member")

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
var phoneRe = regexp.MustCompile(`^[\d+\s-]{7,20}$`)

// Member is a team-member profile document.
type Member struct {
	Email          string            `json:"email"`
	Name           string            `json:"name"`
	Phone          string            `json:"phone,omitempty"`
	Designation    string            `json:"designation"`
	Description    string            `json:"description,omitempty"`
	Skills         []string          `json:"skills,omitempty"`
	WorkingSince   time.Time         `json:"workingSince"`
	Status         string            `json:"status"`
	EmploymentType string            `json:"employmentType"`
	Location       string            `json:"location,omitempty"`
	Socials        map[string]string `json:"socials,omitempty"`
	AvatarURL      string            `json:"avatarUrl,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Input is what the manage-team form submits. Skills is comma-separated
// and WorkingSince a yyyy-mm-dd date, both exactly as typed.
type Input struct {
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	Designation    string            `json:"designation"`
	Description    string            `json:"description"`
	Skills         string            `json:"skills"`
	WorkingSince   string            `json:"workingSince"`
	Status         string            `json:"status"`
	EmploymentType string            `json:"employmentType"`
	Location       string            `json:"location"`
	Socials        map[string]string `json:"socials"`
}

type Store struct {
	store docstore.Store
}

func NewStore(store docstore.Store) *Store {
	return &Store{store: store}
}

// sanitizePhone keeps digits, +, spaces and hyphens.
func sanitizePhone(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' || r == '+' || r == ' ' || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func parseSkills(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Upsert saves the profile at its email id and returns that id. The first
// save sets createdAt; later saves merge fields over the existing document
// so an avatar set out of band survives a profile edit.
func (s *Store) Upsert(ctx context.Context, in Input) (string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", fmt.Errorf("name is required: %w", ErrInvalid)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !emailRe.MatchString(email) {
		return "", fmt.Errorf("valid email is required: %w", ErrInvalid)
	}
	if strings.TrimSpace(in.Designation) == "" {
		return "", fmt.Errorf("designation is required: %w", ErrInvalid)
	}
	phone := sanitizePhone(in.Phone)
	if phone != "" && !phoneRe.MatchString(phone) {
		return "", fmt.Errorf("phone looks invalid: %w", ErrInvalid)
	}
	since, err := time.Parse("2006-01-02", strings.TrimSpace(in.WorkingSince))
	if err != nil {
		return "", fmt.Errorf("working-since date is required (yyyy-mm-dd): %w", ErrInvalid)
	}
	status := in.Status
	if status == "" {
		status = "active"
	}
	employment := in.EmploymentType
	if employment == "" {
		employment = "full_time"
	}

	doc := docstore.Document{
		"name":           strings.TrimSpace(in.Name),
		"email":          email,
		"phone":          phone,
		"designation":    strings.TrimSpace(in.Designation),
		"description":    strings.TrimSpace(in.Description),
		"skills":         parseSkills(in.Skills),
		"workingSince":   since,
		"status":         status,
		"employmentType": employment,
		"location":       strings.TrimSpace(in.Location),
		"updatedAt":      s.store.Now(),
	}
	if in.Socials != nil {
		socials := map[string]string{}
		for k, v := range in.Socials {
			socials[k] = strings.TrimSpace(v)
		}
		doc["socials"] = socials
	}
	if _, err := s.store.Get(ctx, docstore.TeamPath, email); errors.Is(err, docstore.ErrNotFound) {
		doc["createdAt"] = s.store.Now()
	}

	op := docstore.Op{Kind: docstore.OpMerge, Path: docstore.TeamPath, ID: email, Data: doc}
	if err := s.store.BatchWrite(ctx, []docstore.Op{op}); err != nil {
		return "", err
	}
	return email, nil
}

// List returns every profile ordered by email for a stable listing.
func (s *Store) List(ctx context.Context) ([]Member, error) {
	docs, err := s.store.Query(ctx, docstore.TeamPath, nil, &docstore.OrderBy{Field: "_id"}, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Member, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDocument(d))
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, email string) (*Member, error) {
	doc, err := s.store.Get(ctx, docstore.TeamPath, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	m := fromDocument(doc)
	return &m, nil
}

func (s *Store) Delete(ctx context.Context, email string) error {
	op := docstore.Op{Kind: docstore.OpDelete, Path: docstore.TeamPath, ID: strings.ToLower(strings.TrimSpace(email))}
	return s.store.BatchWrite(ctx, []docstore.Op{op})
}

// SetAvatarURL records the uploaded avatar's URL on an existing profile.
// Fails with the store's not-found error when the profile is absent.
func (s *Store) SetAvatarURL(ctx context.Context, email, url string) error {
	op := docstore.Op{
		Kind: docstore.OpUpdate,
		Path: docstore.TeamPath,
		ID:   strings.ToLower(strings.TrimSpace(email)),
		Data: docstore.Document{"avatarUrl": url, "updatedAt": s.store.Now()},
	}
	return s.store.BatchWrite(ctx, []docstore.Op{op})
}

func fromDocument(d docstore.Document) Member {
	m := Member{
		Email:          str(d["email"]),
		Name:           str(d["name"]),
		Phone:          str(d["phone"]),
		Designation:    str(d["designation"]),
		Description:    str(d["description"]),
		WorkingSince:   ts(d["workingSince"]),
		Status:         str(d["status"]),
		EmploymentType: str(d["employmentType"]),
		Location:       str(d["location"]),
		AvatarURL:      str(d["avatarUrl"]),
		CreatedAt:      ts(d["createdAt"]),
		UpdatedAt:      ts(d["updatedAt"]),
	}
	if m.Email == "" {
		m.Email = str(d["_id"])
	}
	switch sk := d["skills"].(type) {
	case []string:
		m.Skills = sk
	case []interface{}:
		for _, v := range sk {
			if s, ok := v.(string); ok {
				m.Skills = append(m.Skills, s)
			}
		}
	}
	switch so := d["socials"].(type) {
	case map[string]string:
		m.Socials = so
	case map[string]interface{}:
		m.Socials = map[string]string{}
		for k, v := range so {
			if s, ok := v.(string); ok {
				m.Socials[k] = s
			}
		}
	}
	return m
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func ts(v interface{}) time.Time {
	t, _ := v.(time.Time)
	return t
}
