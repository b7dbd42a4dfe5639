// Package comments is a thin CRUD layer over the comment collection. The
// only mutation beyond create/delete is flipping the moderation flag on a
// single document, so there is no cross-record invariant to protect here.
package comments

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/impactorbit/impactorbit-backend/internal/docstore"
)

type Comment struct {
	ID        string    `json:"id"`
	BlogID    string    `json:"blogId"`
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Comment   string    `json:"comment"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	store docstore.Store
}

func NewStore(store docstore.Store) *Store {
	return &Store{store: store}
}

// Add stores a visitor comment for a blog. New comments start unapproved.
func (s *Store) Add(ctx context.Context, blogID, name, email, text string) (string, error) {
	if blogID == "" {
		return "", fmt.Errorf("blog id is empty")
	}
	id := newCommentID()
	doc := docstore.Document{
		"blogId":    blogID,
		"path":      fmt.Sprintf("%s/%s/comments/%s", docstore.BlogsPath, blogID, id),
		"name":      name,
		"email":     email,
		"comment":   text,
		"approved":  false,
		"createdAt": s.store.Now(),
	}
	op := docstore.Op{Kind: docstore.OpSet, Path: docstore.CommentsPath, ID: id, Data: doc}
	if err := s.store.BatchWrite(ctx, []docstore.Op{op}); err != nil {
		return "", err
	}
	return id, nil
}

// List returns every comment, newest first, for the moderation screen.
func (s *Store) List(ctx context.Context) ([]Comment, error) {
	docs, err := s.store.Query(ctx, docstore.CommentsPath, nil,
		&docstore.OrderBy{Field: "createdAt", Desc: true}, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Comment, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDocument(d))
	}
	return out, nil
}

// ListApprovedForBlog returns the approved comments shown on a public post
// page.
func (s *Store) ListApprovedForBlog(ctx context.Context, blogID string) ([]Comment, error) {
	docs, err := s.store.Query(ctx, docstore.CommentsPath,
		[]docstore.Filter{
			{Field: "blogId", Op: "==", Value: blogID},
			{Field: "approved", Op: "==", Value: true},
		},
		&docstore.OrderBy{Field: "createdAt", Desc: true}, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Comment, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDocument(d))
	}
	return out, nil
}

// SetApproval flips the moderation flag on a single comment document.
func (s *Store) SetApproval(ctx context.Context, id string, approved bool) error {
	op := docstore.Op{
		Kind: docstore.OpUpdate,
		Path: docstore.CommentsPath,
		ID:   id,
		Data: docstore.Document{"approved": approved},
	}
	return s.store.BatchWrite(ctx, []docstore.Op{op})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	op := docstore.Op{Kind: docstore.OpDelete, Path: docstore.CommentsPath, ID: id}
	return s.store.BatchWrite(ctx, []docstore.Op{op})
}

func fromDocument(d docstore.Document) Comment {
	c := Comment{
		ID:       str(d["_id"]),
		BlogID:   str(d["blogId"]),
		Path:     str(d["path"]),
		Name:     str(d["name"]),
		Email:    str(d["email"]),
		Comment:  str(d["comment"]),
		Approved: approvedValue(d["approved"]),
	}
	if t, ok := d["createdAt"].(time.Time); ok {
		c.CreatedAt = t
	}
	return c
}

// approvedValue tolerates the legacy documents where the flag was stored as
// the string "true"/"false" instead of a boolean.
func approvedValue(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	default:
		return false
	}
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func newCommentID() string {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
