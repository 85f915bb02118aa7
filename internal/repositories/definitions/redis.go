package definitions

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"slices"

	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/passives"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
	"github.com/redis/go-redis/v9"
)

const (
	// Key patterns
	statusKeyPrefix  = "status:"
	passiveKeyPrefix = "passive:"
	statusIndexKey   = "statuses"
	passiveIndexKey  = "passives"
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed definition repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepository{client: cfg.Client}
}

// NewRedis creates a new Redis-backed definition repository with default configuration
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

func (r *redisRepository) SaveStatus(ctx context.Context, def *statuses.Definition) error {
	if def == nil || recordID(def.ID) == "" {
		return dnderr.InvalidArgumentf("status definition requires an id")
	}
	return r.save(ctx, statusKeyPrefix, statusIndexKey, recordID(def.ID), def)
}

func (r *redisRepository) GetStatus(ctx context.Context, id string) (*statuses.Definition, error) {
	def := &statuses.Definition{}
	if err := r.get(ctx, statusKeyPrefix+recordID(id), def); err != nil {
		if dnderr.IsNotFound(err) {
			return nil, dnderr.NotFoundf("status %s not found", id)
		}
		return nil, err
	}
	return def, nil
}

func (r *redisRepository) ListStatuses(ctx context.Context) ([]*statuses.Definition, error) {
	raw, err := r.list(ctx, statusKeyPrefix, statusIndexKey)
	if err != nil {
		return nil, err
	}

	out := make([]*statuses.Definition, 0, len(raw))
	for _, data := range raw {
		def := &statuses.Definition{}
		if err := json.Unmarshal([]byte(data), def); err != nil {
			return nil, dnderr.Wrap(err, "failed to decode status definition")
		}
		out = append(out, def)
	}
	slices.SortFunc(out, func(a, b *statuses.Definition) int { return cmp.Compare(recordID(a.ID), recordID(b.ID)) })
	return out, nil
}

func (r *redisRepository) DeleteStatus(ctx context.Context, id string) error {
	if err := r.delete(ctx, statusKeyPrefix, statusIndexKey, recordID(id)); err != nil {
		if dnderr.IsNotFound(err) {
			return dnderr.NotFoundf("status %s not found", id)
		}
		return err
	}
	return nil
}

func (r *redisRepository) SavePassive(ctx context.Context, def *passives.Definition) error {
	if def == nil || recordID(def.ID) == "" {
		return dnderr.InvalidArgumentf("passive definition requires an id")
	}
	return r.save(ctx, passiveKeyPrefix, passiveIndexKey, recordID(def.ID), def)
}

func (r *redisRepository) GetPassive(ctx context.Context, id string) (*passives.Definition, error) {
	def := &passives.Definition{}
	if err := r.get(ctx, passiveKeyPrefix+recordID(id), def); err != nil {
		if dnderr.IsNotFound(err) {
			return nil, dnderr.NotFoundf("passive %s not found", id)
		}
		return nil, err
	}
	return def, nil
}

func (r *redisRepository) ListPassives(ctx context.Context) ([]*passives.Definition, error) {
	raw, err := r.list(ctx, passiveKeyPrefix, passiveIndexKey)
	if err != nil {
		return nil, err
	}

	out := make([]*passives.Definition, 0, len(raw))
	for _, data := range raw {
		def := &passives.Definition{}
		if err := json.Unmarshal([]byte(data), def); err != nil {
			return nil, dnderr.Wrap(err, "failed to decode passive definition")
		}
		out = append(out, def)
	}
	slices.SortFunc(out, func(a, b *passives.Definition) int { return cmp.Compare(recordID(a.ID), recordID(b.ID)) })
	return out, nil
}

func (r *redisRepository) DeletePassive(ctx context.Context, id string) error {
	if err := r.delete(ctx, passiveKeyPrefix, passiveIndexKey, recordID(id)); err != nil {
		if dnderr.IsNotFound(err) {
			return dnderr.NotFoundf("passive %s not found", id)
		}
		return err
	}
	return nil
}

func (r *redisRepository) save(ctx context.Context, prefix, index, id string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return dnderr.Wrapf(err, "failed to encode definition %s", id)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, prefix+id, string(data), 0)
	pipe.SAdd(ctx, index, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrapf(err, "failed to save definition %s", id)
	}
	return nil
}

func (r *redisRepository) get(ctx context.Context, key string, into any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return dnderr.NotFoundf("%s not found", key)
	}
	if err != nil {
		return dnderr.Wrapf(err, "failed to get %s", key)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return dnderr.Wrapf(err, "failed to decode %s", key)
	}
	return nil
}

// list reads every indexed record. Index entries whose record has gone are skipped.
func (r *redisRepository) list(ctx context.Context, prefix, index string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, index).Result()
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to read index %s", index)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	slices.Sort(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = prefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to read %s", index)
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *redisRepository) delete(ctx context.Context, prefix, index, id string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, prefix+id)
	pipe.SRem(ctx, index, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrapf(err, "failed to delete definition %s", id)
	}
	if del.Val() == 0 {
		return dnderr.NotFoundf("%s not found", id)
	}
	return nil
}
