// Package postservice implements the post mutation gate: it validates raw
// form input and dispatches create/update/delete intents against the store.
package postservice

import (
	"context"
	"fmt"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/poststore"
)

// NewPostSlug is the reserved editor address that means "no record yet,
// create mode". It never reaches the store as a lookup key.
const NewPostSlug = "new"

// Intent identifies the mutation requested by an admin form submission.
type Intent string

const (
	IntentCreate Intent = "create"
	IntentUpdate Intent = "update"
	IntentDelete Intent = "delete"
)

// ParseIntent maps a raw form value to an Intent. The form surface only
// ever submits the three fixed values, so anything else indicates a
// broken caller rather than user input.
func ParseIntent(s string) (Intent, error) {
	switch in := Intent(s); in {
	case IntentCreate, IntentUpdate, IntentDelete:
		return in, nil
	default:
		return "", fmt.Errorf("postservice: unknown intent %q", s)
	}
}

// EditorState tags the outcome of loading the editor for an address.
type EditorState int

const (
	// EditorCreating means the reserved "new" address was requested;
	// there is no record and the store was not consulted.
	EditorCreating EditorState = iota
	// EditorFound means an existing post was loaded.
	EditorFound
	// EditorNotFound means the address names no post, which is distinct
	// from create mode.
	EditorNotFound
)

// EditorLoad is the tagged result of an editor read.
// Post is non-nil only when State is EditorFound.
type EditorLoad struct {
	State EditorState
	Post  *models.Post
}

// SaveOutcome is the result of dispatching a mutation. FieldErrors is
// non-nil exactly when validation rejected the input, in which case no
// store mutation happened. Otherwise the mutation ran and Post holds the
// persisted record (nil for delete).
type SaveOutcome struct {
	Post        *models.Post
	FieldErrors map[string]string
}

// Service coordinates validation, dispatch, and store operations.
type Service struct {
	store  poststore.Store
	notify func(kind, slug string)
}

// NewService creates a post service. notify, if non-nil, is invoked after
// every successful mutation with kind "created", "updated", or "deleted".
func NewService(store poststore.Store, notify func(kind, slug string)) *Service {
	return &Service{store: store, notify: notify}
}

// ListSummaries returns the slug/title projection for listing pages.
func (s *Service) ListSummaries(ctx context.Context) ([]models.PostSummary, error) {
	return s.store.ListSummaries(ctx)
}

// ListPosts returns full post records.
func (s *Service) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.store.ListAll(ctx)
}

// GetPost returns the post for slug, or apperr.ErrNotFound when absent.
func (s *Service) GetPost(ctx context.Context, slug string) (*models.Post, error) {
	p, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ErrNotFound
	}
	return p, nil
}

// EditorPost loads the editor view for an address. The reserved "new"
// address yields create mode without a store call; any other address is
// looked up and reported as found or not found.
func (s *Service) EditorPost(ctx context.Context, addr string) (EditorLoad, error) {
	if addr == NewPostSlug {
		return EditorLoad{State: EditorCreating}, nil
	}
	p, err := s.store.GetBySlug(ctx, addr)
	if err != nil {
		return EditorLoad{}, err
	}
	if p == nil {
		return EditorLoad{State: EditorNotFound}, nil
	}
	return EditorLoad{State: EditorFound, Post: p}, nil
}

// SavePost dispatches one mutating request. Delete runs against the
// addressing slug without looking at field content; create and update
// validate the form first and perform no mutation when it fails. Store
// failures (not found, duplicate slug, backend errors) propagate as
// errors for the boundary layer to translate.
func (s *Service) SavePost(ctx context.Context, addr string, intent Intent, form PostForm) (*SaveOutcome, error) {
	switch intent {
	case IntentDelete:
		if err := s.store.Delete(ctx, addr); err != nil {
			return nil, err
		}
		s.publish("deleted", addr)
		return &SaveOutcome{}, nil
	case IntentCreate, IntentUpdate:
		// validated below
	default:
		return nil, fmt.Errorf("postservice: unknown intent %q", intent)
	}

	if err := form.Validate(); err != nil {
		if fe := FieldErrors(err); fe != nil {
			return &SaveOutcome{FieldErrors: fe}, nil
		}
		return nil, err
	}

	post := models.Post{Slug: form.Slug, Title: form.Title, Markdown: form.Markdown}
	if intent == IntentCreate {
		created, err := s.store.Create(ctx, post)
		if err != nil {
			return nil, err
		}
		s.publish("created", created.Slug)
		return &SaveOutcome{Post: created}, nil
	}

	updated, err := s.store.Update(ctx, addr, post)
	if err != nil {
		return nil, err
	}
	s.publish("updated", updated.Slug)
	return &SaveOutcome{Post: updated}, nil
}

func (s *Service) publish(kind, slug string) {
	if s.notify != nil {
		s.notify(kind, slug)
	}
}
