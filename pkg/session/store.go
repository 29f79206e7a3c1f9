// Package session provides a gorilla sessions.Store that keeps session data
// in Redis. Only an encrypted session id travels in the cookie.
//
// Session keys should be 32 or 64 bytes for HMAC authentication and 16, 24
// or 32 bytes for AES encryption. Generate production keys with:
//
//	openssl rand -base64 32
package session

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "session:"

	// DefaultMaxAge is how long an idle session survives.
	DefaultMaxAge = 86400
)

// RedisStore is a sessions.Store backed by Redis.
//
// Redis keys are "session:<id>" with a TTL equal to the session MaxAge.
// Values are gob-encoded; register custom types with gob.Register before use.
type RedisStore struct {
	client  *redis.Client
	codecs  []securecookie.Codec
	options *sessions.Options
}

// Option adjusts the cookie options of a RedisStore.
type Option func(*sessions.Options)

// WithMaxAge sets the cookie and Redis TTL in seconds.
func WithMaxAge(seconds int) Option {
	return func(o *sessions.Options) { o.MaxAge = seconds }
}

// WithPath restricts the cookie to path.
func WithPath(path string) Option {
	return func(o *sessions.Options) { o.Path = path }
}

// NewRedisStore returns a RedisStore. secureCookie should be true whenever
// the site is served over HTTPS.
//
//	store := session.NewRedisStore(
//	    app.Redis.Client(),
//	    []byte(cfg.SessionAuthKey),
//	    []byte(cfg.SessionEncryptionKey),
//	    cfg.IsProduction(),
//	)
func NewRedisStore(client *redis.Client, authKey, encryptionKey []byte, secureCookie bool, opts ...Option) *RedisStore {
	options := &sessions.Options{
		Path:     "/",
		MaxAge:   DefaultMaxAge,
		HttpOnly: true,
		Secure:   secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(options)
	}
	return &RedisStore{
		client:  client,
		codecs:  securecookie.CodecsFromPairs(authKey, encryptionKey),
		options: options,
	}
}

// Get returns the session for name, cached per request by the gorilla registry.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named in the request cookie. A missing, tampered or
// expired cookie, or a missing Redis key, yields a fresh session and no error.
// A Redis failure yields a fresh session and the error.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	found, err := s.load(r.Context(), id, session)
	if err != nil {
		return session, err
	}
	if found {
		session.ID = id
		session.IsNew = false
	}
	return session, nil
}

// Save persists the session to Redis and writes the encrypted id cookie.
// A negative MaxAge deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.client.Del(r.Context(), keyPrefix+session.ID).Err(); err != nil {
				return fmt.Errorf("delete session from redis: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)),
			"=",
		)
	}

	if err := s.save(r.Context(), session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) save(ctx context.Context, session *sessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.client.Set(ctx, keyPrefix+session.ID, buf.Bytes(), ttl).Err(); err != nil {
		return fmt.Errorf("set session in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, id string, session *sessions.Session) (bool, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get session from redis: %w", err)
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&session.Values); err != nil {
		// unreadable payload: start over
		session.Values = make(map[any]any)
		return false, nil
	}
	return true, nil
}
