package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/identikit/identity-server/internal/core/domain"
	"github.com/identikit/identity-server/internal/core/ports"
)

const roleCacheTTL = 5 * time.Minute

// CachedRoleRepository decorates a role repository with a read-through cache
// of resolved role names per user. The cache is best effort: any Redis
// failure falls back to the inner repository and is only logged.
//
// Assignment invalidates the affected user's entry. Role renames and
// deletions are served stale for at most roleCacheTTL; per-user entries are
// the only keys, so a role-wide flush is not attempted.
type CachedRoleRepository struct {
	inner  ports.RoleRepository
	client *redis.Client
	log    zerolog.Logger
}

func NewCachedRoleRepository(inner ports.RoleRepository, client *redis.Client, log zerolog.Logger) *CachedRoleRepository {
	return &CachedRoleRepository{inner: inner, client: client, log: log}
}

func roleKey(userID int) string {
	return fmt.Sprintf("roles:user:%d", userID)
}

func (c *CachedRoleRepository) GetUserRoles(ctx context.Context, userID int) ([]string, error) {
	key := roleKey(userID)

	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err == nil {
			return names, nil
		}
	}

	names, err := c.inner.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(names); err == nil {
		if err := c.client.Set(ctx, key, encoded, roleCacheTTL).Err(); err != nil {
			c.log.Warn().Err(err).Int("user_id", userID).Msg("role cache write failed")
		}
	}
	return names, nil
}

func (c *CachedRoleRepository) AddUserToRole(ctx context.Context, userID, roleID int) (bool, error) {
	ok, err := c.inner.AddUserToRole(ctx, userID, roleID)
	if err == nil && ok {
		if err := c.client.Del(ctx, roleKey(userID)).Err(); err != nil {
			c.log.Warn().Err(err).Int("user_id", userID).Msg("role cache invalidation failed")
		}
	}
	return ok, err
}

func (c *CachedRoleRepository) GetRoles(ctx context.Context) ([]*domain.Role, error) {
	return c.inner.GetRoles(ctx)
}

func (c *CachedRoleRepository) CreateRole(ctx context.Context, name, description string) (bool, error) {
	return c.inner.CreateRole(ctx, name, description)
}

func (c *CachedRoleRepository) FindRoleByID(ctx context.Context, roleID int) (*domain.Role, error) {
	return c.inner.FindRoleByID(ctx, roleID)
}

func (c *CachedRoleRepository) UpdateRole(ctx context.Context, id int, name, description string) (bool, error) {
	return c.inner.UpdateRole(ctx, id, name, description)
}

func (c *CachedRoleRepository) DeleteRole(ctx context.Context, id int) (bool, error) {
	return c.inner.DeleteRole(ctx, id)
}
