package domain

import (
	"errors"
	"time"
)

var ErrListNotFound = errors.New("list not found")
var ErrListExists = errors.New("list already exists")
var ErrListConflict = errors.New("list was modified concurrently")
var ErrInvalidItem = errors.New("invalid item")
var ErrForbidden = errors.New("access forbidden")

// defaultItemNames seed every new list, in display order.
var defaultItemNames = []string{
	"Welcome to your todolist",
	"Hit the + button to add a new item",
	"<-- Hit this to delete an item.",
}

// DefaultItemNames returns a copy of the starter item labels.
func DefaultItemNames() []string {
	out := make([]string, len(defaultItemNames))
	copy(out, defaultItemNames)
	return out
}

// Item is a single checklist entry.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// List is the ordered checklist owned by the user whose username equals Name.
// Version increases by one on every successful save.
type List struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Items     []Item    `json:"items"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDefaultList builds the starter list for username. newID is called once
// per default item.
func NewDefaultList(username string, newID func() string, now time.Time) *List {
	items := make([]Item, 0, len(defaultItemNames))
	for _, name := range defaultItemNames {
		items = append(items, Item{ID: newID(), Name: name})
	}
	return &List{
		Name:      username,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OwnedBy reports whether username owns the list.
func (l *List) OwnedBy(username string) bool {
	return l.Name == username
}

// Append adds item at the end of the list.
func (l *List) Append(item Item) {
	l.Items = append(l.Items, item)
}

// Remove deletes the item with the given id and reports whether one was found.
// The relative order of the remaining items is kept.
func (l *List) Remove(id string) bool {
	for i, item := range l.Items {
		if item.ID == id {
			l.Items = append(l.Items[:i:i], l.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether an item with the given id exists.
func (l *List) Has(id string) bool {
	for _, item := range l.Items {
		if item.ID == id {
			return true
		}
	}
	return false
}
