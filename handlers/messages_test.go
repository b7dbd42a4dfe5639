package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/impactorbit/impactorbit-backend/internal/docstore"
	"github.com/impactorbit/impactorbit-backend/internal/messages"
)

func newMessageRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewMessageHandler(messages.NewStore(docstore.NewMemoryStore()))
	g := gin.New()
	api := g.Group("/api")
	h.RegisterPublic(api)
	h.RegisterAdmin(api)
	return g
}

func TestMessageInboxFlow(t *testing.T) {
	g := newMessageRouter(t)

	rw := doJSON(t, g, http.MethodPost, "/api/messages", gin.H{
		"text": "Need a quote", "name": "Client", "email": "c@example.com",
	})
	require.Equal(t, http.StatusCreated, rw.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &created))
	id := created["id"]

	rw = doJSON(t, g, http.MethodGet, "/api/messages", nil)
	require.Equal(t, http.StatusOK, rw.Code)
	var list []messages.Message
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "contact", list[0].Type)
	require.Equal(t, "user", list[0].Author)

	rw = doJSON(t, g, http.MethodPatch, "/api/messages/"+id, gin.H{"text": "Need a quote ASAP"})
	require.Equal(t, http.StatusNoContent, rw.Code)

	rw = doJSON(t, g, http.MethodDelete, "/api/messages/"+id, nil)
	require.Equal(t, http.StatusNoContent, rw.Code)
}

func TestMessageClearAll(t *testing.T) {
	g := newMessageRouter(t)

	for i := 0; i < 3; i++ {
		rw := doJSON(t, g, http.MethodPost, "/api/messages", gin.H{"text": "hello"})
		require.Equal(t, http.StatusCreated, rw.Code)
	}

	rw := doJSON(t, g, http.MethodDelete, "/api/messages", nil)
	require.Equal(t, http.StatusNoContent, rw.Code)

	rw = doJSON(t, g, http.MethodGet, "/api/messages", nil)
	var list []messages.Message
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &list))
	require.Empty(t, list)
}

func TestMessageErrors(t *testing.T) {
	g := newMessageRouter(t)

	rw := doJSON(t, g, http.MethodPost, "/api/messages", gin.H{"name": "no text"})
	require.Equal(t, http.StatusBadRequest, rw.Code)

	rw = doJSON(t, g, http.MethodPatch, "/api/messages/missing", gin.H{"text": "x"})
	require.Equal(t, http.StatusNotFound, rw.Code)
}
