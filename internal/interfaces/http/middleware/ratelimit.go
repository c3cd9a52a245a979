package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit allows up to max requests per client IP within the given
// window, answering 429 beyond that. Idle clients are forgotten after
// the window elapses.
func RateLimit(window time.Duration, max int) gin.HandlerFunc {
	visitors := make(map[string]*visitor)
	lock := &sync.Mutex{}
	limit := rate.Every(window / time.Duration(max))

	go func() {
		for range time.Tick(window) {
			lock.Lock()
			for ip, v := range visitors {
				if time.Since(v.lastSeen) > window {
					delete(visitors, ip)
				}
			}
			lock.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		lock.Lock()
		v, ok := visitors[ip]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(limit, max)}
			visitors[ip] = v
		}
		v.lastSeen = time.Now()
		lock.Unlock()

		if !v.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, retry later",
			})
			return
		}
		c.Next()
	}
}
