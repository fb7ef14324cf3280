package memory

import (
	"time"

	"ai-uigen-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// UserCache is a bounded in-process cache for user lookups on the hot auth
// path. Entries expire on their own; the cache never grows unbounded.
type UserCache struct {
	byId    *cache.Cache
	byEmail *cache.Cache
}

func NewUserCache(userTTL, emailTTL time.Duration) *UserCache {
	return &UserCache{
		byId:    cache.New(userTTL, 10*time.Minute),
		byEmail: cache.New(emailTTL, 10*time.Minute),
	}
}

func (c *UserCache) GetById(id uuid.UUID) (*entity.User, bool) {
	if x, found := c.byId.Get(id.String()); found {
		return x.(*entity.User), true
	}
	return nil, false
}

func (c *UserCache) SetById(user *entity.User) {
	c.byId.Set(user.Id.String(), user, cache.DefaultExpiration)
}

func (c *UserCache) GetByEmail(email string) (*entity.User, bool) {
	if x, found := c.byEmail.Get(email); found {
		return x.(*entity.User), true
	}
	return nil, false
}

func (c *UserCache) SetByEmail(user *entity.User) {
	c.byEmail.Set(user.Email, user, cache.DefaultExpiration)
}

func (c *UserCache) Invalidate(user *entity.User) {
	c.byId.Delete(user.Id.String())
	c.byEmail.Delete(user.Email)
}
