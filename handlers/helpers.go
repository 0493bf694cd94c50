package handlers

import (
	"net/url"

	"wheelstrust/database/repository"
	"wheelstrust/middleware"
	"wheelstrust/services/access"
	"wheelstrust/utils"

	"github.com/gin-gonic/gin"
)

func actor(c *gin.Context) access.Actor {
	return middleware.ActorFrom(c)
}

// bindJSON binds the body into obj and records any failure for the error handler.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(err)
		return false
	}
	return true
}

// listQuery parses the request's list parameters against allowed.
func listQuery(c *gin.Context, allowed utils.Filterable) (repository.ListQuery, bool) {
	q, err := utils.ParseListQuery(c.Request.URL.Query(), allowed)
	if err != nil {
		_ = c.Error(err)
		return q, false
	}
	return q, true
}

// aliasParam copies query parameter from to to, keeping operator suffixes such as [gte].
func aliasParam(values url.Values, from, to string) url.Values {
	out := url.Values{}
	for key, vals := range values {
		switch {
		case key == from:
			out[to] = vals
		case len(key) > len(from) && key[:len(from)] == from && key[len(from)] == '[':
			out[to+key[len(from):]] = vals
		default:
			out[key] = vals
		}
	}
	return out
}
