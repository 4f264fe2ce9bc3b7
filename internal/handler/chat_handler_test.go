package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"polisure/internal/domain"
	"polisure/internal/handler"
	"polisure/internal/service"
	"polisure/mocks"
)

func chatRouter(chatService service.ChatService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/chat", handler.NewChatHandler(chatService).Ask)
	return r
}

func TestChatHandler_Ask(t *testing.T) {
	chatService := new(mocks.MockChatService)
	chatService.On("Ask", mock.Anything, service.ChatInput{Question: "is flood damage covered?"}).
		Return(&domain.ChatAnswer{
			Answer:   "Flood damage is covered under home_shield.",
			Policies: []string{"home_shield"},
		}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat",
		strings.NewReader(`{"question":"is flood damage covered?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	chatRouter(chatService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestChatHandler_Ask_MissingQuestion(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	chatRouter(new(mocks.MockChatService)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandler_Ask_Offline(t *testing.T) {
	chatService := new(mocks.MockChatService)
	chatService.On("Ask", mock.Anything, mock.Anything).Return(nil, domain.ErrVerifierOffline)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat",
		strings.NewReader(`{"question":"anything?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	chatRouter(chatService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
