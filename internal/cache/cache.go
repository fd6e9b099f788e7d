// Package cache keeps recently rendered answers so switching back and
// forth between questions does not re-run the markdown renderer.
package cache

import (
	"container/list"
	"fmt"
)

type RenderCache struct {
	capacity  int
	evictList *list.List
	items     map[string]*list.Element
}

type entry struct {
	key      string
	rendered string
}

func New(capacity int) *RenderCache {
	return &RenderCache{
		capacity:  capacity,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}
}

// Key identifies one rendering of an answer. Width is part of the key
// because a resize invalidates the wrapped output.
func Key(answerID string, width int) string {
	return fmt.Sprintf("%s@%d", answerID, width)
}

func (c *RenderCache) Get(key string) (string, bool) {
	if ele, hit := c.items[key]; hit {
		c.evictList.MoveToFront(ele)
		return ele.Value.(*entry).rendered, true
	}
	return "", false
}

func (c *RenderCache) Put(key, rendered string) {
	if ele, hit := c.items[key]; hit {
		c.evictList.MoveToFront(ele)
		ele.Value.(*entry).rendered = rendered
		return
	}

	ele := c.evictList.PushFront(&entry{key, rendered})
	c.items[key] = ele

	if c.evictList.Len() > c.capacity {
		c.removeOldest()
	}
}

// InvalidateAnswer drops every cached rendering of an answer, at any
// width. Called after the answer text is committed.
func (c *RenderCache) InvalidateAnswer(answerID string) {
	prefix := answerID + "@"
	for key, ele := range c.items {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			c.removeElement(ele)
		}
	}
}

func (c *RenderCache) Len() int {
	return c.evictList.Len()
}

func (c *RenderCache) removeOldest() {
	ele := c.evictList.Back()
	if ele != nil {
		c.removeElement(ele)
	}
}

func (c *RenderCache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry)
	delete(c.items, kv.key)
}
