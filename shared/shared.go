package shared

import (
	"context"
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"

	"inap/shared/cache"
	"inap/shared/constant"
	"inap/shared/dto"
	"inap/shared/timezone"

	"github.com/rs/zerolog/log"
)

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the non-zero db-tagged fields of a struct into an update map
// stamped with the modification metadata.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		if field.Kind() == reflect.Pointer {
			updatedFields[fieldName] = field.Elem().Interface()

			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// Actor returns the caller recorded on the request context, or the guest actor.
func Actor(ctx context.Context) string {
	if user, ok := ctx.Value(constant.ContextKeyUserID).(string); ok && user != "" {
		return user
	}

	return constant.ContextGuest
}

// cacheGenerationPrefix keeps generation counters outside every namespace pattern, so
// InvalidateCaches never resets them.
const cacheGenerationPrefix = "generation"

// BuildCacheKey joins a cache prefix and its parts with ":".
func BuildCacheKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}

	return prefix + ":" + strings.Join(parts, ":")
}

// BuildCacheKeyWithQuery derives a stable key for a paginated, filtered query.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var builder strings.Builder

	fmt.Fprintf(&builder, "%d|%d|%s|%s|%s", params.Page, params.Limit, params.SortBy, params.SortDir, where)

	for _, key := range keys {
		fmt.Fprintf(&builder, "|%s=%v", key, args[key])
	}

	sum := sha1.Sum([]byte(builder.String())) //nolint:gosec

	return BuildCacheKey(prefix, hex.EncodeToString(sum[:]))
}

// InvalidateCaches removes every key stored under prefix.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// VersionedCacheKey builds a key under the current generation of namespace. ok is false
// when the generation cannot be read, and the caller should then bypass the cache.
// The generation must be read before the data it will key.
func VersionedCacheKey(ctx context.Context, redisCache cache.RedisCache, namespace string, parts ...string) (key string, ok bool) {
	var generation int64

	err := redisCache.Get(ctx, BuildCacheKey(cacheGenerationPrefix, namespace), &generation)
	if err != nil && !errors.Is(err, cache.Nil) {
		log.Warn().Err(err).Str("namespace", namespace).Msg("failed to read cache generation")

		return constant.Empty, false
	}

	return BuildCacheKey(namespace, append([]string{"v" + strconv.FormatInt(generation, 10)}, parts...)...), true
}

// BumpCacheGeneration retires every key built by VersionedCacheKey for namespace, including
// saves that are still in flight. Retired keys age out with their TTL. The namespace is
// cleared when the bump fails.
func BumpCacheGeneration(ctx context.Context, redisCache cache.RedisCache, namespace string) {
	if _, err := redisCache.Bump(ctx, BuildCacheKey(cacheGenerationPrefix, namespace)); err != nil {
		log.Error().Err(err).Str("namespace", namespace).Msg("failed to bump cache generation")

		InvalidateCaches(ctx, redisCache, namespace)
	}
}

// CacheInBackground stores value under key without holding up the caller. Failures are only logged.
func CacheInBackground(ctx context.Context, redisCache cache.RedisCache, key string, value any, ttl int) {
	go func() {
		if err := redisCache.Save(context.WithoutCancel(ctx), key, value, ttl); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to save to cache")
		}
	}()
}

// SanitizeSort drops a requested sort column unless it is one of allowed.
func SanitizeSort(params *dto.QueryParams, defaultSortBy, defaultSortDir string, allowed ...string) {
	if !slices.Contains(allowed, params.SortBy) {
		params.SortBy = defaultSortBy
	}

	if params.SortDir == constant.Empty {
		params.SortDir = defaultSortDir
	}
}
