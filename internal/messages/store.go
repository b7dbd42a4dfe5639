// Package messages backs the contact-form inbox. Plain single-document
// CRUD, except ClearAll which deletes the whole collection in one batch so
// a half-cleared inbox can't be observed.
package messages

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/impactorbit/impactorbit-backend/internal/docstore"
)

type Message struct {
	ID        string                 `json:"id"`
	Text      string                 `json:"text"`
	Author    string                 `json:"author"`
	Type      string                 `json:"type"`
	Name      string                 `json:"name,omitempty"`
	Email     string                 `json:"email,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	Source    string                 `json:"source"`
	Meta      map[string]interface{} `json:"meta,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt,omitempty"`
}

// Input is what the contact form posts. Zero-value fields get the same
// defaults the old frontend applied.
type Input struct {
	Text   string                 `json:"text"`
	Author string                 `json:"author"`
	Type   string                 `json:"type"`
	Name   string                 `json:"name"`
	Email  string                 `json:"email"`
	Phone  string                 `json:"phone"`
	Source string                 `json:"source"`
	Meta   map[string]interface{} `json:"meta"`
}

type Store struct {
	store docstore.Store
}

func NewStore(store docstore.Store) *Store {
	return &Store{store: store}
}

func (s *Store) Add(ctx context.Context, in Input) (string, error) {
	if in.Author == "" {
		in.Author = "user"
	}
	if in.Type == "" {
		in.Type = "contact"
	}
	if in.Source == "" {
		in.Source = "api"
	}
	id := newMessageID()
	doc := docstore.Document{
		"text":      in.Text,
		"author":    in.Author,
		"type":      in.Type,
		"name":      in.Name,
		"email":     in.Email,
		"phone":     in.Phone,
		"source":    in.Source,
		"createdAt": s.store.Now(),
	}
	if in.Meta != nil {
		doc["meta"] = in.Meta
	}
	op := docstore.Op{Kind: docstore.OpSet, Path: docstore.MessagesPath, ID: id, Data: doc}
	if err := s.store.BatchWrite(ctx, []docstore.Op{op}); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) List(ctx context.Context) ([]Message, error) {
	docs, err := s.store.Query(ctx, docstore.MessagesPath, nil,
		&docstore.OrderBy{Field: "createdAt", Desc: true}, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Message, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDocument(d))
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, id string, patch docstore.Document) error {
	data := patch.Clone()
	if data == nil {
		data = docstore.Document{}
	}
	delete(data, "_id")
	delete(data, "createdAt")
	data["updatedAt"] = s.store.Now()
	op := docstore.Op{Kind: docstore.OpUpdate, Path: docstore.MessagesPath, ID: id, Data: data}
	return s.store.BatchWrite(ctx, []docstore.Op{op})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	op := docstore.Op{Kind: docstore.OpDelete, Path: docstore.MessagesPath, ID: id}
	return s.store.BatchWrite(ctx, []docstore.Op{op})
}

// ClearAll deletes every message in one batch.
func (s *Store) ClearAll(ctx context.Context) error {
	docs, err := s.store.Query(ctx, docstore.MessagesPath, nil, nil, 0)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	ops := make([]docstore.Op, 0, len(docs))
	for _, d := range docs {
		id, _ := d["_id"].(string)
		ops = append(ops, docstore.Op{Kind: docstore.OpDelete, Path: docstore.MessagesPath, ID: id})
	}
	return s.store.BatchWrite(ctx, ops)
}

func fromDocument(d docstore.Document) Message {
	m := Message{
		ID:     str(d["_id"]),
		Text:   str(d["text"]),
		Author: str(d["author"]),
		Type:   str(d["type"]),
		Name:   str(d["name"]),
		Email:  str(d["email"]),
		Phone:  str(d["phone"]),
		Source: str(d["source"]),
	}
	switch meta := d["meta"].(type) {
	case docstore.Document:
		m.Meta = meta
	case map[string]interface{}:
		m.Meta = meta
	}
	if t, ok := d["createdAt"].(time.Time); ok {
		m.CreatedAt = t
	}
	if t, ok := d["updatedAt"].(time.Time); ok {
		m.UpdatedAt = t
	}
	return m
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func newMessageID() string {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
