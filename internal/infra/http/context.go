package http

import (
	"github.com/gin-gonic/gin"

	"tessera/internal/domain"
)

// identityKey addresses the per-request caller identity on the gin
// context. The identity lives exactly as long as the request; nothing
// here is shared across requests.
const identityKey = "tessera.caller_identity"

func setCallerIdentity(c *gin.Context, ident domain.Identity) {
	c.Set(identityKey, ident)
}

// CallerIdentity returns the identity resolved for this request. The zero
// value means the caller is anonymous.
func CallerIdentity(c *gin.Context) domain.Identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}
	}
	ident, ok := value.(domain.Identity)
	if !ok {
		return domain.Identity{}
	}
	return ident
}
