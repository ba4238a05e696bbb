package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/logic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForCode(t *testing.T) {
	tests := map[escrow.Code]int{
		escrow.CodeProjectDoesntExist: http.StatusNotFound,
		escrow.CodeAlreadyVoted:       http.StatusConflict,
		escrow.CodeSelfDonation:       http.StatusForbidden,
		escrow.CodeInvalidCaller:      http.StatusUnauthorized,
		escrow.CodeNameTooLong:        http.StatusBadRequest,
		escrow.CodeTransferFailed:     http.StatusBadGateway,
		escrow.CodeInvalidDeposit:     http.StatusBadRequest,
		escrow.CodeDepositUsed:        http.StatusConflict,
		escrow.CodeInternal:           http.StatusInternalServerError,
		escrow.CodeVotingWindowClosed: http.StatusUnprocessableEntity,
		escrow.CodeResultUnknown:      http.StatusUnprocessableEntity,
	}
	for code, status := range tests {
		assert.Equal(t, status, StatusForCode(code), string(code))
	}
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"escrow error", escrow.ErrAlreadyClaimed, http.StatusConflict},
		{"records unavailable", logic.ErrRecordsUnavailable, http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
		})
	}
}

func TestCallContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CallContext(func() int64 { return 42 }))

	var got escrow.Call
	r.GET("/", func(c *gin.Context) { got = callFrom(c) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CallerHeader, "alice")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "alice", got.Caller)
	assert.Equal(t, int64(42), got.Timestamp)
}

func TestAmountPattern(t *testing.T) {
	for _, s := range []string{"0", "1", "123456789012345678901234567890"} {
		assert.True(t, amountPattern.MatchString(s), s)
	}
	for _, s := range []string{"", "-1", "1.0", "1e3", " 1"} {
		assert.False(t, amountPattern.MatchString(s), s)
	}
}
