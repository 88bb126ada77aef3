package handlers

import "github.com/gin-gonic/gin"

// The storefront expects every JSON body to carry a success flag and,
// on failure, a human-readable message.
func ok(extra gin.H) gin.H {
	h := gin.H{"success": true}
	for k, v := range extra {
		h[k] = v
	}
	return h
}

func fail(message string) gin.H {
	return gin.H{"success": false, "message": message}
}
