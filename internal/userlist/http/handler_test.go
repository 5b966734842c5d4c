package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nekogravitycat/signup-site/internal/userlist"
)

func TestMapError(t *testing.T) {
	assert.Nil(t, MapError(nil))
	assert.Nil(t, MapError(userlist.ErrStale), "a superseded fetch is not a failure")

	assert.Equal(t, http.StatusConflict, MapError(userlist.ErrNoMorePages).Code)
	assert.Equal(t, http.StatusConflict, MapError(fmt.Errorf("wrapped: %w", userlist.ErrFetchInFlight)).Code)

	appErr := MapError(errors.New("dial tcp: refused"))
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
	assert.Equal(t, userlist.MsgLoadFailed, appErr.Message)
}

func TestNewListResponseNeverNull(t *testing.T) {
	res := NewListResponse(userlist.View{Loaded: true, Empty: true})
	assert.NotNil(t, res.Items)
	assert.False(t, res.HasMore)
	assert.True(t, res.Empty)
}
