// Package service implements the owner-scoped operations of every LifeMirror
// resource on top of the document store.
package service

import (
	"context"

	"github.com/lifemirror/lifemirror/internal/apperr"
	"github.com/lifemirror/lifemirror/internal/models"
	"github.com/lifemirror/lifemirror/internal/store"
)

// Change actions reported to a Notifier.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Notifier receives successful mutations, e.g. to feed a change stream.
type Notifier interface {
	Notify(owner, resource, action, id string)
}

// Resource is the List/Get/Delete part of the uniform contract shared by
// every resource service. Ownership mismatches surface as apperr.ErrNotFound.
type Resource[T any, PT interface {
	*T
	models.Record
}] struct {
	name   string
	coll   *store.Collection[T, PT]
	notify Notifier
}

func newResource[T any, PT interface {
	*T
	models.Record
}](name string, coll *store.Collection[T, PT], n Notifier) Resource[T, PT] {
	return Resource[T, PT]{name: name, coll: coll, notify: n}
}

// List returns all of owner's records in the resource's natural order.
func (r *Resource[T, PT]) List(ctx context.Context, owner string) ([]T, error) {
	return r.coll.List(ctx, owner)
}

// Get returns one of owner's records.
func (r *Resource[T, PT]) Get(ctx context.Context, owner, id string) (T, error) {
	return r.coll.Get(ctx, owner, id)
}

// Delete removes one of owner's records.
func (r *Resource[T, PT]) Delete(ctx context.Context, owner, id string) error {
	if err := r.coll.Delete(ctx, owner, id); err != nil {
		return err
	}
	r.emit(owner, ActionDeleted, id)
	return nil
}

func (r *Resource[T, PT]) create(ctx context.Context, owner string, doc T) (T, error) {
	if err := r.coll.Insert(ctx, owner, PT(&doc)); err != nil {
		var zero T
		return zero, err
	}
	r.emit(owner, ActionCreated, PT(&doc).Base().ID)
	return doc, nil
}

func (r *Resource[T, PT]) modify(ctx context.Context, owner, id string, fn func(PT) error) (T, error) {
	doc, err := r.coll.Modify(ctx, owner, id, fn)
	if err != nil {
		return doc, err
	}
	r.emit(owner, ActionUpdated, id)
	return doc, nil
}

func (r *Resource[T, PT]) emit(owner, action, id string) {
	if r.notify != nil {
		r.notify.Notify(owner, r.name, action, id)
	}
}

type validatable interface {
	Validate() error
}

func validate(v validatable) error {
	return apperr.Invalid(v.Validate())
}
