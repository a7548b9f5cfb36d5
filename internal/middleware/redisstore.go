package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisKeyPrefix = "rh:session:"
	redisTTL       = time.Hour
	redisOpTimeout = 2 * time.Second
)

// RedisStore keeps session data server side; the cookie only carries the
// opaque session id. Used when more than one replica serves the journey.
type RedisStore struct {
	client *redis.Client
	secure bool
	log    *zap.Logger
}

// NewRedisStore connects from a redis URL (redis://host:port/db).
func NewRedisStore(redisURL string, secure bool, log *zap.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisStore{client: redis.NewClient(opts), secure: secure, log: log}, nil
}

func (rs *RedisStore) Load(r *http.Request) (*SessionData, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return &SessionData{}, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), redisOpTimeout)
	defer cancel()
	raw, err := rs.client.Get(ctx, redisKeyPrefix+c.Value).Bytes()
	if err != nil {
		if err != redis.Nil {
			rs.log.Warn("session load failed", zap.Error(err))
		}
		return &SessionData{}, false
	}
	var sd SessionData
	if err := json.Unmarshal(raw, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

func (rs *RedisStore) Save(w http.ResponseWriter, r *http.Request, sd *SessionData) {
	b, _ := json.Marshal(sd)
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := rs.client.Set(ctx, redisKeyPrefix+sd.ID, b, redisTTL).Err(); err != nil {
		rs.log.Error("session save failed", zap.Error(err))
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sd.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   rs.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(redisTTL),
	})
}
