package refreshtokens

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

const (
	userKeyPrefix  = "refresh:user:"
	tokenKeyPrefix = "refresh:token:"
)

// replaceScript deletes the user's previous token and writes the new pair of
// keys in one server-side step, so two racing logins leave exactly one
// survivor. KEYS[1] is the user key, ARGV = token, user id, TTL millis,
// token key prefix.
var replaceScript = redis.NewScript(`
local old = redis.call('GET', KEYS[1])
if old then
  redis.call('DEL', ARGV[4] .. old)
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
redis.call('SET', ARGV[4] .. ARGV[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// deleteScript removes both keys of the user's current token, if any.
var deleteScript = redis.NewScript(`
local tok = redis.call('GET', KEYS[1])
if tok then
  redis.call('DEL', ARGV[1] .. tok)
  redis.call('DEL', KEYS[1])
end
return 1
`)

// RedisRepository is an alternative refresh token store. Keys carry the
// token TTL, so expired tokens vanish on their own: a lookup after expiry
// reports not-found, which is exactly the cleanup the refresh flow performs
// explicitly on the SQL backend.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository constructs a store over the given client.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) CreateOrReplace(ctx context.Context, userID int64, token string, validity time.Duration) (*models.RefreshToken, error) {
	userKey := userKeyPrefix + strconv.FormatInt(userID, 10)
	err := replaceScript.Run(ctx, r.client, []string{userKey},
		token, userID, validity.Milliseconds(), tokenKeyPrefix).Err()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	now := time.Now()
	return &models.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(validity),
		CreatedAt: now,
	}, nil
}

func (r *RedisRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	pipe := r.client.Pipeline()
	get := pipe.Get(ctx, tokenKeyPrefix+token)
	ttl := pipe.PTTL(ctx, tokenKeyPrefix+token)
	if _, err := pipe.Exec(ctx); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	userID, err := strconv.ParseInt(get.Val(), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt refresh token value: %w", err)
	}

	return &models.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl.Val()),
	}, nil
}

func (r *RedisRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	userKey := userKeyPrefix + strconv.FormatInt(userID, 10)
	if err := deleteScript.Run(ctx, r.client, []string{userKey}, tokenKeyPrefix).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
