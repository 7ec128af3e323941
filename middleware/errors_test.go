package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/glowhub/apperror"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperror.NotFound("order", "1"), http.StatusNotFound},
		{apperror.InvalidArgument("bad"), http.StatusBadRequest},
		{apperror.ConstraintViolation("product", "unique", nil), http.StatusConflict},
		{apperror.EmptyCart(1), http.StatusUnprocessableEntity},
		{apperror.BelowMinimum("FREESHIP5", "too small"), http.StatusUnprocessableEntity},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestFailHidesUntypedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body["error"])
	assert.Len(t, c.Errors, 1)
}

func TestUintParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for raw, ok := range map[string]bool{"12": true, "0": false, "-3": false, "abc": false} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: raw}}
		id, err := UintParam(c, "id")
		if ok {
			require.NoError(t, err)
			assert.Equal(t, uint(12), id)
		} else {
			assert.ErrorIs(t, err, apperror.ErrInvalidArgument, raw)
		}
	}
}
