package redis

import (
	"context"
	"errors"
	"time"

	"quiz-client/internal/domain"
	"github.com/redis/go-redis/v9"
)

// CredentialStore keeps each client's credentials in a Redis hash:
//
//	HSET quiz:client:{clientID}:credentials username {u} session_token {t}
//
// The key expires after ttl so abandoned browsers do not pile up.
type CredentialStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCredentialStore(client *redis.Client, ttl time.Duration) *CredentialStore {
	return &CredentialStore{client: client, ttl: ttl}
}

func (s *CredentialStore) Load(ctx context.Context, clientID string) (domain.Credentials, error) {
	fields, err := s.client.HGetAll(ctx, s.key(clientID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Credentials{}, domain.ErrNoCredentials
		}
		return domain.Credentials{}, err
	}
	if fields["username"] == "" || fields["session_token"] == "" {
		return domain.Credentials{}, domain.ErrNoCredentials
	}
	return domain.Credentials{
		Username:     fields["username"],
		SessionToken: fields["session_token"],
	}, nil
}

func (s *CredentialStore) Save(ctx context.Context, clientID string, creds domain.Credentials) error {
	key := s.key(clientID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, "username", creds.Username, "session_token", creds.SessionToken)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *CredentialStore) Clear(ctx context.Context, clientID string) error {
	return s.client.Del(ctx, s.key(clientID)).Err()
}

func (s *CredentialStore) key(clientID string) string {
	return "quiz:client:" + clientID + ":credentials"
}
