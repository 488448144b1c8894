package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"stickerboard/internal/handlers"
	"stickerboard/internal/models"
	"stickerboard/internal/repositories"
	"stickerboard/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter int64

// setupApp sets up a Fiber app for testing with a fresh in-memory SQLite
// database and all handlers/services wired (no RabbitMQ).
func setupApp() (*fiber.App, error) {
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Board{}, &models.BoardMember{}, &models.Sticker{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	boardRepo := repositories.NewGORMBoardRepository(db)
	stickerRepo := repositories.NewGORMStickerRepository(db)

	authService := services.NewAuthService(userRepo, "test_jwt_secret")
	boardService := services.NewBoardService(boardRepo, userRepo, nil) // nil for RabbitMQ client
	stickerService := services.NewStickerService(stickerRepo, boardRepo, userRepo)

	app := fiber.New()
	handlers.NewAuthHandler(authService).RegisterRoutes(app)
	handlers.NewBoardHandler(boardService, stickerService).RegisterRoutes(app)
	handlers.NewStickerHandler(stickerService).RegisterRoutes(app)

	return app, nil
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

// request performs a JSON request against the test app, optionally acting as
// the given user (via the identity header).
func request(t *testing.T, app *fiber.App, method, path, asUser string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if asUser != "" {
		req.Header.Set("X-User-Id", asUser)
	}
	resp, err := app.Test(req, -1) // -1 for no timeout
	assert.NoError(t, err)
	return resp
}

func decodeMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	return out
}

func decodeList(t *testing.T, resp *http.Response) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	return out
}

// registerUser creates a user and returns its id.
func registerUser(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp := request(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"password": password,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, username, body["username"])
	assert.NotEmpty(t, body["token"])
	return body["id"].(string)
}

// createBoard creates a board owned by the user and returns its id.
func createBoard(t *testing.T, app *fiber.App, userID, title string) string {
	t.Helper()
	resp := request(t, app, http.MethodPost, "/boards", userID, map[string]string{"title": title})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeMap(t, resp)["id"].(string)
}

func TestAuthRegisterLoginProfile(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	aliceID := registerUser(t, app, "alice", "pw1")

	// Duplicate registration fails with Conflict
	resp := request(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "alice",
		"password": "other",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// The first user's credential is unaffected: login still works
	resp = request(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice",
		"password": "pw1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeMap(t, resp)
	assert.Equal(t, aliceID, login["id"])
	assert.NotEmpty(t, login["token"])

	// Bad credentials: unknown username and wrong password look the same
	resp = request(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
	resp = request(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "nobody",
		"password": "pw1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Missing fields
	resp = request(t, app, http.MethodPost, "/auth/login", "", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Profile via the identity header
	resp = request(t, app, http.MethodGet, "/user/profile", aliceID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decodeMap(t, resp)
	assert.Equal(t, "alice", profile["username"])
	assert.Equal(t, "alice", profile["name"])

	// Missing identity is unauthorized; unknown identity is not found
	resp = request(t, app, http.MethodGet, "/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
	resp = request(t, app, http.MethodGet, "/user/profile", "00000000-0000-0000-0000-000000000001", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Logout is acknowledged
	resp = request(t, app, http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestBoardSharingLifecycle(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	aliceID := registerUser(t, app, "alice", "pw1")
	bobID := registerUser(t, app, "bob", "pw2")

	// Create board: description defaults to empty
	resp := request(t, app, http.MethodPost, "/boards", aliceID, map[string]string{"title": "Plan"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	board := decodeMap(t, resp)
	boardID := board["id"].(string)
	assert.Equal(t, "Plan", board["title"])
	assert.Equal(t, "", board["description"])

	// Alice sees it as her own board
	resp = request(t, app, http.MethodGet, "/boards", aliceID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	aliceBoards := decodeList(t, resp)
	assert.Len(t, aliceBoards, 1)
	assert.Equal(t, aliceID, aliceBoards[0]["ownerId"])
	assert.Equal(t, false, aliceBoards[0]["shared"])

	// Bob has no access yet
	resp = request(t, app, http.MethodGet, "/boards/"+boardID, bobID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Share with bob
	resp = request(t, app, http.MethodPost, "/boards/"+boardID+"/share", aliceID, map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Bob now sees the board as shared, with no owner id reported
	resp = request(t, app, http.MethodGet, "/boards", bobID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	bobBoards := decodeList(t, resp)
	assert.Len(t, bobBoards, 1)
	assert.Nil(t, bobBoards[0]["ownerId"])
	assert.Equal(t, true, bobBoards[0]["shared"])

	// Sharing twice with the same target is rejected with Conflict
	resp = request(t, app, http.MethodPost, "/boards/"+boardID+"/share", aliceID, map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Owner is stable no matter how many members join: alice still owns it
	resp = request(t, app, http.MethodGet, "/boards/"+boardID, aliceID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	view := decodeMap(t, resp)
	assert.Equal(t, aliceID, view["ownerId"])
	assert.Equal(t, false, view["shared"])

	// A member who is not the owner cannot delete
	resp = request(t, app, http.MethodDelete, "/boards/"+boardID, bobID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Deleting without identity is a bad request
	resp = request(t, app, http.MethodDelete, "/boards/"+boardID, "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Put a sticker on the board, then let the owner delete everything
	resp = request(t, app, http.MethodPost, "/boards/"+boardID+"/stickers", aliceID, map[string]interface{}{
		"content": "Hi", "color": "#FF00AA", "width": 50, "height": 50,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = request(t, app, http.MethodDelete, "/boards/"+boardID, aliceID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Cascade: board and its stickers are gone
	resp = request(t, app, http.MethodGet, "/boards/"+boardID, aliceID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
	resp = request(t, app, http.MethodGet, "/boards/"+boardID+"/stickers", aliceID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
	resp = request(t, app, http.MethodGet, "/boards", aliceID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 0)
}

func TestBoardValidation(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	aliceID := registerUser(t, app, "alice", "pw1")

	// Missing title
	resp := request(t, app, http.MethodPost, "/boards", aliceID, map[string]string{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Missing identity
	resp = request(t, app, http.MethodPost, "/boards", "", map[string]string{"title": "Plan"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Unknown acting user
	resp = request(t, app, http.MethodGet, "/boards", "00000000-0000-0000-0000-000000000001", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Malformed board id
	resp = request(t, app, http.MethodGet, "/boards/not-a-uuid", aliceID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Unknown board id
	resp = request(t, app, http.MethodGet, "/boards/00000000-0000-0000-0000-000000000002", aliceID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// The legacy creation path works too
	resp = request(t, app, http.MethodPost, "/boards/new", aliceID, map[string]string{"title": "Legacy"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestStickerLifecycle(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	aliceID := registerUser(t, app, "alice", "pw1")
	boardID := createBoard(t, app, aliceID, "Plan")

	// Creation applies defaults for unsupplied fields
	resp := request(t, app, http.MethodPost, "/boards/"+boardID+"/stickers", aliceID, map[string]interface{}{
		"content": "Hi", "color": "#FF00AA", "width": 50, "height": 50,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	sticker := decodeMap(t, resp)
	stickerID := sticker["id"].(string)
	assert.Equal(t, "Hi", sticker["content"])
	assert.Equal(t, "#FF00AA", sticker["color"])
	assert.Equal(t, float64(50), sticker["width"])
	assert.Equal(t, float64(0), sticker["x"])
	assert.Equal(t, float64(0), sticker["y"])
	assert.Equal(t, float64(0), sticker["z_index"])

	// Invalid color on update is rejected...
	resp = request(t, app, http.MethodPatch, "/stickers/"+stickerID, aliceID, map[string]string{"color": "bad"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// ...and the sticker is unchanged
	resp = request(t, app, http.MethodGet, "/boards/"+boardID+"/stickers", aliceID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	stickers := decodeList(t, resp)
	assert.Len(t, stickers, 1)
	assert.Equal(t, "#FF00AA", stickers[0]["color"])
	assert.Equal(t, "Hi", stickers[0]["content"])

	// Partial update preserves unspecified fields
	resp = request(t, app, http.MethodPatch, "/stickers/"+stickerID, aliceID, map[string]interface{}{"width": 70})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeMap(t, resp)
	assert.Equal(t, float64(70), updated["width"])
	assert.Equal(t, float64(50), updated["height"])
	assert.Equal(t, "Hi", updated["content"])

	// Non-positive dimensions are rejected on update as on create
	resp = request(t, app, http.MethodPatch, "/stickers/"+stickerID, aliceID, map[string]interface{}{"height": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Content over 100 characters is rejected on create
	long := bytes.Repeat([]byte("a"), 101)
	resp = request(t, app, http.MethodPost, "/boards/"+boardID+"/stickers", aliceID, map[string]interface{}{
		"content": string(long),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// A non-member cannot touch the board's stickers
	bobID := registerUser(t, app, "bob", "pw2")
	resp = request(t, app, http.MethodGet, "/boards/"+boardID+"/stickers", bobID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Deletion: success, then the sticker is gone
	resp = request(t, app, http.MethodDelete, "/stickers/"+stickerID, aliceID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	resp = request(t, app, http.MethodDelete, "/stickers/"+stickerID, aliceID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestBoardAutosave(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	aliceID := registerUser(t, app, "alice", "pw1")
	boardID := createBoard(t, app, aliceID, "Plan")

	// Seed one sticker, then autosave a different set of two
	resp := request(t, app, http.MethodPost, "/boards/"+boardID+"/stickers", aliceID, map[string]interface{}{
		"content": "old",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Missing board state
	resp = request(t, app, http.MethodPost, "/boards/"+boardID+"/autosave", aliceID, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = request(t, app, http.MethodPost, "/boards/"+boardID+"/autosave", aliceID, map[string]interface{}{
		"boardState": map[string]interface{}{
			"stickers": []map[string]interface{}{
				{"content": "one", "x": 10, "y": 20},
				{"content": "two", "color": "#112233"},
			},
		},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The autosaved set fully replaces the previous stickers
	resp = request(t, app, http.MethodGet, "/boards/"+boardID+"/stickers", aliceID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	stickers := decodeList(t, resp)
	assert.Len(t, stickers, 2)

	// A non-member cannot autosave
	bobID := registerUser(t, app, "bob", "pw2")
	resp = request(t, app, http.MethodPost, "/boards/"+boardID+"/autosave", bobID, map[string]interface{}{
		"boardState": map[string]interface{}{"stickers": []map[string]interface{}{}},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}
