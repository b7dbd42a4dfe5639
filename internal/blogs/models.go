package blogs

import (
	"time"

	"github.com/impactorbit/impactorbit-backend/internal/docstore"
)

// Category is a keyed collection entry referenced by blog records. The id is
// the slugified name and doubles as the foreign key stored on blogs.
type Category struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	SEOTitle       string    `json:"seoTitle,omitempty"`
	SEODescription string    `json:"seoDescription,omitempty"`
	SEOKeywords    string    `json:"seoKeywords,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Blog is the canonical record shape. The same shape is mirrored under the
// owning category's blog subcollection; the mirror is derived data and never
// read as the source of truth for mutation.
type Blog struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Content        string                 `json:"content"`
	Author         string                 `json:"author"`
	Category       string                 `json:"category"`
	Date           string                 `json:"date,omitempty"`
	ImageBase64    string                 `json:"imageBase64,omitempty"`
	ImageLink      string                 `json:"imageLink,omitempty"`
	URLSlug        string                 `json:"urlSlug,omitempty"`
	SEOTitle       string                 `json:"seoTitle,omitempty"`
	SEODescription string                 `json:"seoDescription,omitempty"`
	SEOKeywords    string                 `json:"seoKeywords,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
	Extra          map[string]interface{} `json:"extra,omitempty"`
}

// BlogInput is the field bag accepted by AddBlog. Required-field validation
// happens at the UI boundary; the coordinator stores what it is given.
// Extra carries any optional SEO/media fields the admin form sends.
type BlogInput struct {
	Title          string                 `json:"title"`
	Content        string                 `json:"content"`
	Author         string                 `json:"author"`
	Date           string                 `json:"date"`
	ImageBase64    string                 `json:"imageBase64,omitempty"`
	ImageLink      string                 `json:"imageLink,omitempty"`
	URLSlug        string                 `json:"urlSlug,omitempty"`
	SEOTitle       string                 `json:"seoTitle,omitempty"`
	SEODescription string                 `json:"seoDescription,omitempty"`
	SEOKeywords    string                 `json:"seoKeywords,omitempty"`
	Extra          map[string]interface{} `json:"extra,omitempty"`
}

var blogFieldKeys = map[string]bool{
	"title": true, "content": true, "author": true, "category": true,
	"date": true, "imageBase64": true, "imageLink": true, "urlSlug": true,
	"seoTitle": true, "seoDescription": true, "seoKeywords": true,
	"createdAt": true, "updatedAt": true, "_id": true,
}

func (in BlogInput) document() docstore.Document {
	d := docstore.Document{
		"title":   in.Title,
		"content": in.Content,
		"author":  in.Author,
		"date":    in.Date,
	}
	setIf := func(k, v string) {
		if v != "" {
			d[k] = v
		}
	}
	setIf("imageBase64", in.ImageBase64)
	setIf("imageLink", in.ImageLink)
	setIf("urlSlug", in.URLSlug)
	setIf("seoTitle", in.SEOTitle)
	setIf("seoDescription", in.SEODescription)
	setIf("seoKeywords", in.SEOKeywords)
	for k, v := range in.Extra {
		if !blogFieldKeys[k] {
			d[k] = v
		}
	}
	return d
}

func blogFromDocument(doc docstore.Document) Blog {
	b := Blog{
		ID:             str(doc["_id"]),
		Title:          str(doc["title"]),
		Content:        str(doc["content"]),
		Author:         str(doc["author"]),
		Category:       str(doc["category"]),
		Date:           str(doc["date"]),
		ImageBase64:    str(doc["imageBase64"]),
		ImageLink:      str(doc["imageLink"]),
		URLSlug:        str(doc["urlSlug"]),
		SEOTitle:       str(doc["seoTitle"]),
		SEODescription: str(doc["seoDescription"]),
		SEOKeywords:    str(doc["seoKeywords"]),
		CreatedAt:      ts(doc["createdAt"]),
		UpdatedAt:      ts(doc["updatedAt"]),
	}
	for k, v := range doc {
		if blogFieldKeys[k] {
			continue
		}
		if b.Extra == nil {
			b.Extra = map[string]interface{}{}
		}
		b.Extra[k] = v
	}
	return b
}

func categoryFromDocument(doc docstore.Document) Category {
	return Category{
		ID:             str(doc["_id"]),
		Name:           str(doc["name"]),
		SEOTitle:       str(doc["seoTitle"]),
		SEODescription: str(doc["seoDescription"]),
		SEOKeywords:    str(doc["seoKeywords"]),
		CreatedAt:      ts(doc["createdAt"]),
		UpdatedAt:      ts(doc["updatedAt"]),
	}
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func ts(v interface{}) time.Time {
	t, _ := v.(time.Time)
	return t
}
