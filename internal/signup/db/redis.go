// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package db

import (
	"context"

	"github.com/innovationmech/signup/internal/signup/config"
	"github.com/innovationmech/signup/pkg/lifecycle"
	"github.com/redis/go-redis/v9"
)

// RedisTarget names Redis in connect logs and as a shutdown resource.
const RedisTarget = "Redis"

// OpenRedis connects to cfg.Redis.Addr with the same retry policy as the
// database. Each attempt builds a fresh client and pings it.
func OpenRedis(ctx context.Context, cfg *config.SignupConfig, opts ...lifecycle.ConnectOption) (*redis.Client, error) {
	options := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	return lifecycle.Connect(ctx, RedisTarget, cfg.Database.Connect, func(ctx context.Context) (*redis.Client, error) {
		client := redis.NewClient(options)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, err
		}
		return client, nil
	}, opts...)
}

// RedisResource returns the shutdown resource that closes the client.
func RedisResource(client *redis.Client) lifecycle.Resource {
	return lifecycle.CloserResource(RedisTarget, client)
}
