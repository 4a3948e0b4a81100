package api

import (
	"sync"

	"github.com/gin-gonic/gin"
)

const hooksKey = "api.completionHooks"

type hookList struct {
	mu  sync.Mutex
	fns []func()
}

func (hl *hookList) add(fn func()) {
	hl.mu.Lock()
	hl.fns = append(hl.fns, fn)
	hl.mu.Unlock()
}

// Completion fires hooks registered via OnComplete after the handler
// chain has written the response. Temp-file cleanup hangs off this so
// its retention clock starts once the client could begin downloading.
func Completion() gin.HandlerFunc {
	return func(c *gin.Context) {
		hl := &hookList{}
		c.Set(hooksKey, hl)
		c.Next()
		c.Writer.Flush()
		hl.mu.Lock()
		fns := hl.fns
		hl.fns = nil
		hl.mu.Unlock()
		for _, fn := range fns {
			fn()
		}
	}
}

// OnComplete defers fn until the current response has been sent. With
// no Completion middleware installed fn runs immediately.
func OnComplete(c *gin.Context, fn func()) {
	v, ok := c.Get(hooksKey)
	if !ok {
		fn()
		return
	}
	v.(*hookList).add(fn)
}
