package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	setErr   error
	key      string
	value    []byte
	ttl      time.Duration
	channel  string
	message  []byte
	publishs int
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if f.setErr != nil {
		cmd.SetErr(f.setErr)
		return cmd
	}
	f.key, f.ttl = key, expiration
	f.value, _ = value.([]byte)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	f.publishs++
	f.channel = channel
	f.message, _ = message.([]byte)
	cmd.SetVal(1)
	return cmd
}

func TestRedisSinkStoresAndPublishes(t *testing.T) {
	fake := &fakeRedis{}
	sink := &RedisSink{client: fake, keyPrefix: "recommendations:", channel: "recommendations", ttl: 24 * time.Hour}

	if err := sink.Write(context.Background(), "abc", sampleDocument(t)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if fake.key != "recommendations:abc" || fake.ttl != 24*time.Hour {
		t.Fatalf("key/ttl = %s/%v", fake.key, fake.ttl)
	}
	if !strings.HasPrefix(string(fake.value), `{"recommendations":[{"title":"Skinny Love"`) {
		t.Fatalf("stored value should be compact JSON, got %.60s", fake.value)
	}
	if fake.channel != "recommendations" || string(fake.message) != string(fake.value) {
		t.Fatalf("published %q on %q", fake.message, fake.channel)
	}
}

func TestRedisSinkWithoutChannelSkipsPublish(t *testing.T) {
	fake := &fakeRedis{}
	sink := &RedisSink{client: fake, keyPrefix: "r:"}
	if err := sink.Write(context.Background(), "abc", sampleDocument(t)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if fake.publishs != 0 {
		t.Fatalf("publish calls = %d, want 0", fake.publishs)
	}
}

func TestRedisSinkSetError(t *testing.T) {
	fake := &fakeRedis{setErr: errors.New("READONLY")}
	sink := &RedisSink{client: fake, keyPrefix: "r:", channel: "c"}
	err := sink.Write(context.Background(), "abc", sampleDocument(t))
	if err == nil || !strings.Contains(err.Error(), "READONLY") {
		t.Fatalf("err = %v", err)
	}
	if fake.publishs != 0 {
		t.Fatal("publish should not run after a failed set")
	}
}
