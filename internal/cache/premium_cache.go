package cache

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const defaultPremiumTTL = 45 * time.Second

// PremiumCache stores the premium flag of recently seen accounts so the quota
// path does not hit the users table on every request.
type PremiumCache interface {
	GetPremium(userID snowflake.ID) (bool, bool)
	SetPremium(userID snowflake.ID, premium bool)
	Invalidate(userID snowflake.ID)
}

type premiumCache struct {
	flags Cache[snowflake.ID, bool]
	ttl   time.Duration
}

// NewPremiumCache returns an in-memory premium flag cache.
func NewPremiumCache() PremiumCache {
	return &premiumCache{
		flags: NewTTLCache[snowflake.ID, bool](),
		ttl:   defaultPremiumTTL,
	}
}

func (c *premiumCache) GetPremium(userID snowflake.ID) (bool, bool) {
	return c.flags.Get(userID)
}

func (c *premiumCache) SetPremium(userID snowflake.ID, premium bool) {
	c.flags.Set(userID, premium, c.ttl)
}

func (c *premiumCache) Invalidate(userID snowflake.ID) {
	c.flags.Delete(userID)
}
