package team

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/impactorbit/impactorbit-backend/internal/docstore"
)

func testStore(t *testing.T) (*Store, *docstore.MemoryStore) {
	t.Helper()
	mem := docstore.NewMemoryStore()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	mem.SetClock(func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	})
	return NewStore(mem), mem
}

func validInput() Input {
	return Input{
		Name:         "Aisha Sharma",
		Email:        "Aisha@Example.COM",
		Phone:        "+91 98765 43210",
		Designation:  "Lead Designer",
		Skills:       "figma, branding , ",
		WorkingSince: "2021-06-15",
		Socials:      map[string]string{"linkedin": " https://linkedin.com/in/aisha "},
	}
}

func TestUpsert_NewMember(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	id, err := s.Upsert(ctx, validInput())
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if id != "aisha@example.com" {
		t.Fatalf("id = %q, want lowercased email", id)
	}

	m, err := s.Get(ctx, "AISHA@example.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m.Name != "Aisha Sharma" || m.Designation != "Lead Designer" {
		t.Fatalf("unexpected member %+v", m)
	}
	if len(m.Skills) != 2 || m.Skills[0] != "figma" || m.Skills[1] != "branding" {
		t.Fatalf("skills = %v, want comma-parsed and trimmed", m.Skills)
	}
	if m.Status != "active" || m.EmploymentType != "full_time" {
		t.Fatalf("defaults not applied: status=%q employment=%q", m.Status, m.EmploymentType)
	}
	if m.Socials["linkedin"] != "https://linkedin.com/in/aisha" {
		t.Fatalf("socials not trimmed: %v", m.Socials)
	}
	if m.WorkingSince != time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("workingSince = %v", m.WorkingSince)
	}
	if m.CreatedAt.IsZero() || m.UpdatedAt.IsZero() {
		t.Fatalf("timestamps missing: %+v", m)
	}
}

func TestUpsert_UpdateKeepsCreatedAtAndAvatar(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	id, err := s.Upsert(ctx, validInput())
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	first, _ := s.Get(ctx, id)

	if err := s.SetAvatarURL(ctx, id, "https://cdn/x/aisha.jpg"); err != nil {
		t.Fatalf("SetAvatarURL: %v", err)
	}

	in := validInput()
	in.Designation = "Design Director"
	if _, err := s.Upsert(ctx, in); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	m, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m.Designation != "Design Director" {
		t.Fatalf("designation not updated: %q", m.Designation)
	}
	if !m.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("createdAt changed on update: %v -> %v", first.CreatedAt, m.CreatedAt)
	}
	if !m.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("updatedAt not refreshed")
	}
	if m.AvatarURL != "https://cdn/x/aisha.jpg" {
		t.Fatalf("avatar lost on profile edit: %q", m.AvatarURL)
	}
}

func TestUpsert_Validation(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*Input)
	}{
		{"empty name", func(in *Input) { in.Name = "  " }},
		{"bad email", func(in *Input) { in.Email = "not-an-email" }},
		{"empty designation", func(in *Input) { in.Designation = "" }},
		{"bad phone", func(in *Input) { in.Phone = "123" }},
		{"missing working since", func(in *Input) { in.WorkingSince = "" }},
		{"bad working since", func(in *Input) { in.WorkingSince = "June 2021" }},
	}
	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)
		if _, err := s.Upsert(ctx, in); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: err = %v, want ErrInvalid", tc.name, err)
		}
	}
}

func TestListOrderedByEmail(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	for _, email := range []string{"zara@x.com", "amit@x.com", "lena@x.com"} {
		in := validInput()
		in.Email = email
		if _, err := s.Upsert(ctx, in); err != nil {
			t.Fatalf("Upsert(%s): %v", email, err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d", len(list))
	}
	want := []string{"amit@x.com", "lena@x.com", "zara@x.com"}
	for i, m := range list {
		if m.Email != want[i] {
			t.Fatalf("order[%d] = %q, want %q", i, m.Email, want[i])
		}
	}
}

func TestSetAvatarURL_MissingMember(t *testing.T) {
	s, _ := testStore(t)
	err := s.SetAvatarURL(context.Background(), "nobody@x.com", "https://cdn/a.png")
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("err = %v, want docstore.ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	id, err := s.Upsert(ctx, validInput())
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("Get after delete = %v, want not found", err)
	}
	// deleting again stays a no-op
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}
