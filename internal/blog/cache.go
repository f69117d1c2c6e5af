package blog

import (
	"fmt"

	"blogctl/internal/model"
)

// PostCache is the client-side view of the remote post collection plus the
// current selection. ReplaceAll is the only mutator of the mapping: the
// cache is resynchronized wholesale after every mutation, never patched.
//
// The cache is not safe for concurrent use on its own; the controller's
// lock covers all access.
type PostCache struct {
	byID     map[int64]*model.Post
	order    []int64 // ids in original fetch order
	selected int64   // 0 means no selection
}

// NewPostCache creates an empty cache.
func NewPostCache() *PostCache {
	return &PostCache{byID: make(map[int64]*model.Post)}
}

// ReplaceAll swaps the entire collection for the given posts, preserving
// their order. Duplicate IDs are rejected and leave the cache unchanged.
// A selection pointing at an ID absent from the new collection is cleared.
func (c *PostCache) ReplaceAll(posts []model.Post) error {
	byID := make(map[int64]*model.Post, len(posts))
	order := make([]int64, 0, len(posts))
	for i := range posts {
		p := posts[i]
		if _, dup := byID[p.ID]; dup {
			return fmt.Errorf("duplicate post id %d", p.ID)
		}
		byID[p.ID] = &p
		order = append(order, p.ID)
	}

	c.byID = byID
	c.order = order
	if c.selected != 0 {
		if _, ok := c.byID[c.selected]; !ok {
			c.selected = 0
		}
	}
	return nil
}

// Get returns the cached post with the given ID, or nil.
func (c *PostCache) Get(id int64) *model.Post {
	return c.byID[id]
}

// All returns the collection in original fetch order.
func (c *PostCache) All() []model.Post {
	posts := make([]model.Post, 0, len(c.order))
	for _, id := range c.order {
		posts = append(posts, *c.byID[id])
	}
	return posts
}

// Len returns the number of cached posts.
func (c *PostCache) Len() int { return len(c.order) }

// Select marks the post with the given ID as selected. The selection is a
// reference to the cache entry, never a forked copy.
func (c *PostCache) Select(id int64) error {
	if _, ok := c.byID[id]; !ok {
		return NewError(KindNotFound, fmt.Sprintf("post %d not found", id))
	}
	c.selected = id
	return nil
}

// ClearSelection drops the selection. Safe to call when nothing is selected.
func (c *PostCache) ClearSelection() { c.selected = 0 }

// Selected returns the currently selected post, or nil.
func (c *PostCache) Selected() *model.Post {
	if c.selected == 0 {
		return nil
	}
	return c.byID[c.selected]
}
