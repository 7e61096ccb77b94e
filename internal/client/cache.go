package client

import (
	"sort"
	"sync"

	model "project-board.com/project-board/internal/models"
)

// Cache holds the last server-confirmed copy of each task, keyed by id. It is only
// written from successful responses, and an entry never moves back to an older version.
type Cache struct {
	mu    sync.RWMutex
	tasks map[string]*model.Task
}

func NewCache() *Cache {
	return &Cache{tasks: make(map[string]*model.Task)}
}

// Put stores task unless the cache already holds a newer version of it.
func (c *Cache) Put(task *model.Task) {
	if task == nil || task.ID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.tasks[task.ID]; ok && cur.Version > task.Version {
		return
	}
	c.tasks[task.ID] = task.Clone()
}

// ReplaceAll installs a confirmed full listing. Tasks missing from it are dropped.
func (c *Cache) ReplaceAll(tasks []model.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make(map[string]*model.Task, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if cur, ok := c.tasks[t.ID]; ok && cur.Version > t.Version {
			next[t.ID] = cur
			continue
		}
		next[t.ID] = t.Clone()
	}
	c.tasks = next
}

func (c *Cache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tasks, id)
}

func (c *Cache) Get(id string) (*model.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tasks[id]
	return t.Clone(), ok
}

// All returns the cached tasks newest first.
func (c *Cache) All() []model.Task {
	c.mu.RLock()
	out := make([]model.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		out = append(out, *t.Clone())
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}
