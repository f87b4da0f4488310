package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimit limits requests per client IP using Redis counters with
// per-second and per-minute windows. Counter failures never block the
// request; the limiter degrades to a pass-through.
func RateLimit(rdb *redis.Client, perSecond, perMinute int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		ctx := context.Background()
		now := time.Now()

		keySecond := fmt.Sprintf("rl:ip:%s:second:%d", ip, now.Unix())
		keyMinute := fmt.Sprintf("rl:ip:%s:minute:%s", ip, now.Format("2006-01-02T15:04"))

		if perSecond > 0 {
			countSecond, err := rdb.Incr(ctx, keySecond).Result()
			if err == nil {
				rdb.Expire(ctx, keySecond, 2*time.Second)

				if countSecond > int64(perSecond) {
					c.Set("X-RateLimit-Limit-Second", strconv.Itoa(perSecond))
					c.Set("X-RateLimit-Remaining-Second", "0")
					c.Set("Retry-After", "1")

					return c.Status(429).JSON(fiber.Map{
						"error":       "rate_limit_exceeded",
						"message":     "Too many requests per second",
						"limit_type":  "per_second",
						"limit":       perSecond,
						"retry_after": 1,
					})
				}
			}
		}

		if perMinute > 0 {
			countMinute, err := rdb.Incr(ctx, keyMinute).Result()
			if err == nil {
				rdb.Expire(ctx, keyMinute, 70*time.Second)

				if countMinute > int64(perMinute) {
					retryAfter := 60 - now.Second()

					c.Set("X-RateLimit-Limit-Minute", strconv.Itoa(perMinute))
					c.Set("X-RateLimit-Remaining-Minute", "0")
					c.Set("Retry-After", strconv.Itoa(retryAfter))

					return c.Status(429).JSON(fiber.Map{
						"error":       "rate_limit_exceeded",
						"message":     "Too many requests per minute",
						"limit_type":  "per_minute",
						"limit":       perMinute,
						"retry_after": retryAfter,
					})
				}

				c.Set("X-RateLimit-Remaining-Minute", strconv.FormatInt(int64(perMinute)-countMinute, 10))
			}
		}

		c.Set("X-RateLimit-Limit-Second", strconv.Itoa(perSecond))
		c.Set("X-RateLimit-Limit-Minute", strconv.Itoa(perMinute))

		return c.Next()
	}
}
