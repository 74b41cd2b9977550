package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darwinian-be/internal/dto"
	"darwinian-be/internal/pkg/logger"
	"darwinian-be/internal/pkg/serverutils"
	sessionmemory "darwinian-be/internal/repository/memory"
	"darwinian-be/internal/service"
	"darwinian-be/pkg/agent"
	"darwinian-be/pkg/llm/llmtest"
	"darwinian-be/pkg/memory"
)

func newTestApp(t *testing.T, rules ...llmtest.Rule) *fiber.App {
	t.Helper()
	log := logger.NewNopLogger()

	chat := service.NewChatService(
		llmtest.New(rules...),
		memory.NewFileStore(filepath.Join(t.TempDir(), "mem.json"), log),
		sessionmemory.NewSessionRepository(time.Hour),
		nil,
		service.ChatOptions{
			Defaults:      agent.Settings{OrchestratorModel: "r", CoderModel: "c", AuditorModel: "a", RepairModel: "p"},
			MemoryBackend: "file",
		},
		log,
	)

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler(StatusFor)})
	api := app.Group("/api")
	NewChatController(chat, nil).RegisterRoutes(api)
	NewMemoryController(chat, nil).RegisterRoutes(api)
	NewHealthController("file").RegisterRoutes(api)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, serverutils.BaseResponse[json.RawMessage]) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	var out serverutils.BaseResponse[json.RawMessage]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func createSession(t *testing.T, app *fiber.App) uuid.UUID {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/chat/v1/sessions", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var s dto.SessionResponse
	require.NoError(t, json.Unmarshal(body.Data, &s))
	return s.Id
}

func TestChatController_CodeTurnFlow(t *testing.T) {
	app := newTestApp(t,
		llmtest.Rule{Marker: "Chief Architect", Reply: `{"next_agent":"coder","reasoning":"code"}`},
		llmtest.Rule{Marker: "Elite Software Engineer", Reply: "```go\nfunc main() {}\n```"},
		llmtest.Rule{Marker: "Senior QA Engineer", Reply: "fine"},
	)
	id := createSession(t, app)
	base := "/api/chat/v1/sessions/" + id.String()

	resp, body := doJSON(t, app, "POST", base+"/messages", dto.SendMessageRequest{Message: "write main"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var turn dto.TurnResponse
	require.NoError(t, json.Unmarshal(body.Data, &turn))
	assert.True(t, turn.CodeGenerated)
	assert.Contains(t, turn.Actions, dto.ActionVerify)

	resp, body = doJSON(t, app, "POST", base+"/verify", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var report dto.VerifyResponse
	require.NoError(t, json.Unmarshal(body.Data, &report))
	assert.Equal(t, "fine", report.Report)

	resp, _ = doJSON(t, app, "POST", base+"/approve", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, "GET", "/api/memory/v1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var mems dto.ListMemoriesResponse
	require.NoError(t, json.Unmarshal(body.Data, &mems))
	assert.Equal(t, 1, mems.Total)
}

func TestChatController_Errors(t *testing.T) {
	app := newTestApp(t)

	t.Run("bad id", func(t *testing.T) {
		resp, body := doJSON(t, app, "GET", "/api/chat/v1/sessions/not-a-uuid", nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.False(t, body.Success)
	})

	t.Run("unknown session", func(t *testing.T) {
		resp, _ := doJSON(t, app, "GET", "/api/chat/v1/sessions/"+uuid.NewString(), nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("approve before any turn", func(t *testing.T) {
		id := createSession(t, app)
		resp, _ := doJSON(t, app, "POST", "/api/chat/v1/sessions/"+id.String()+"/approve", nil)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("reject needs feedback", func(t *testing.T) {
		id := createSession(t, app)
		resp, _ := doJSON(t, app, "POST", "/api/chat/v1/sessions/"+id.String()+"/reject", dto.RejectRequest{})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp, body := doJSON(t, app, "GET", "/api/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, body.Success)
}
