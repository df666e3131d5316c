package httputil

import (
	"errors"
	"io"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// BindData binds the data from the request to the struct passed in the interface.
func BindData[T any](c *gin.Context) (T, error) {
	var parsed T

	err := c.ShouldBindJSON(&parsed)
	if err != nil {
		if errors.Is(io.EOF, err) {
			return parsed, ErrRequestBodyEmpty
		}

		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return parsed, ErrInvalidBody
	}

	return parsed, nil
}
