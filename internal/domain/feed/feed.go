// Package feed implements the company social feed.
package feed

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"workflowpro/internal/domain/collection"
	"workflowpro/internal/domain/directory"
	"workflowpro/internal/platform/recordstore"
)

const (
	TypeAnnouncement = "Announcement"
	TypeCelebration  = "Celebration"
	TypeGeneral      = "General"

	justNow = "Just now"
)

var (
	ErrEmptyPost    = errors.New("post is empty")
	ErrInvalidPost  = errors.New("post type is not recognised")
	ErrPostNotFound = errors.New("post not found")
)

var mentionPattern = regexp.MustCompile(`@\w+`)

type Post struct {
	ID           string `json:"id"`
	AuthorID     string `json:"authorId"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar"`
	Content      string `json:"content"`
	Type         string `json:"type"`
	Timestamp    string `json:"timestamp"`
	Likes        int    `json:"likes"`
	Comments     int    `json:"comments"`
}

// Mention is an @token in post content and the employee it names, if any.
type Mention struct {
	Token      string `json:"token"`
	EmployeeID string `json:"employeeId,omitempty"`
	Name       string `json:"name,omitempty"`
}

type Directory interface {
	ByName(ctx context.Context) (map[string]directory.Employee, error)
}

type Service struct {
	posts     *collection.Collection[Post]
	directory Directory
}

func NewService(store collection.Store, dir Directory) *Service {
	posts := collection.New(store, recordstore.KeyPosts,
		func(p Post) string { return p.ID },
		func(p *Post, id string) { p.ID = id },
	).WithPrepare(func(p *Post) {
		p.Timestamp = justNow
		p.Likes = 0
		p.Comments = 0
		if p.Type == "" {
			p.Type = TypeGeneral
		}
	})
	return &Service{posts: posts, directory: dir}
}

func (s *Service) List(ctx context.Context) ([]Post, error) {
	return s.posts.GetAll(ctx)
}

func (s *Service) Publish(ctx context.Context, p Post) (Post, error) {
	if strings.TrimSpace(p.Content) == "" {
		return Post{}, ErrEmptyPost
	}
	switch p.Type {
	case "", TypeAnnouncement, TypeCelebration, TypeGeneral:
	default:
		return Post{}, fmt.Errorf("%w: %q", ErrInvalidPost, p.Type)
	}
	return s.posts.Add(ctx, p)
}

// Like increments the like counter and returns the updated post.
func (s *Service) Like(ctx context.Context, id string) (Post, error) {
	var liked Post
	ok, err := s.posts.Mutate(ctx, id, func(p *Post) error {
		p.Likes++
		liked = *p
		return nil
	})
	if err != nil {
		return Post{}, err
	}
	if !ok {
		return Post{}, ErrPostNotFound
	}
	return liked, nil
}

// Mentions lists the @tokens of content in order of appearance.
func Mentions(content string) []string {
	return mentionPattern.FindAllString(content, -1)
}

// ResolveMentions matches each @token against employee names with spaces
// removed, ignoring case. Unmatched tokens are returned without an employee.
func (s *Service) ResolveMentions(ctx context.Context, content string) ([]Mention, error) {
	tokens := Mentions(content)
	out := make([]Mention, 0, len(tokens))
	if len(tokens) == 0 {
		return out, nil
	}
	byName, err := s.directory.ByName(ctx)
	if err != nil {
		return nil, err
	}
	for _, token := range tokens {
		m := Mention{Token: token}
		if e, ok := byName[strings.ToLower(strings.TrimPrefix(token, "@"))]; ok {
			m.EmployeeID, m.Name = e.ID, e.Name
		}
		out = append(out, m)
	}
	return out, nil
}
