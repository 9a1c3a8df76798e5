package infra

import (
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"
)

// RedSync guards refresh runs across replicas sharing the same redis.
func RedSync(client *goredislib.Client) *redsync.Redsync {
	return redsync.New(goredis.NewPool(client))
}
