package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(srv.Close)

	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func TestPing(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestBestMove(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name      string
		body      string
		wantCell  int
		wantMark  string
		wantBoard string
	}{
		{
			name:      "Completes a row",
			body:      `{"board":"XX.OO...."}`,
			wantCell:  2,
			wantMark:  "X",
			wantBoard: "XXXOO....",
		},
		{
			name:      "Answers a corner with the center",
			body:      `{"board":"X........"}`,
			wantCell:  4,
			wantMark:  "O",
			wantBoard: "X...O....",
		},
		{
			name:      "Opens in the first corner",
			body:      `{"board":"---------"}`,
			wantCell:  0,
			wantMark:  "X",
			wantBoard: "X........",
		},
		{
			name:      "Explicit marker wins over counts",
			body:      `{"board":".........","marker":"o"}`,
			wantCell:  0,
			wantMark:  "O",
			wantBoard: "O........",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When: the position is posted
			resp := post(t, srv, "/v1/best-move", tt.body)

			// Then: the engine's move comes back applied to the board
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var got bestMoveResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.wantCell, got.Cell)
			assert.Equal(t, tt.wantMark, got.Marker)
			assert.Equal(t, tt.wantBoard, got.Board)
		})
	}
}

func TestBestMove_Rejected(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "Not JSON", body: `board`, wantStatus: http.StatusBadRequest},
		{name: "Short board", body: `{"board":"XX"}`, wantStatus: http.StatusBadRequest},
		{name: "Unknown symbol", body: `{"board":"XZ......."}`, wantStatus: http.StatusBadRequest},
		{name: "Impossible counts", body: `{"board":"XX......."}`, wantStatus: http.StatusBadRequest},
		{name: "Unknown marker", body: `{"board":".........","marker":"Z"}`, wantStatus: http.StatusBadRequest},
		{name: "Already won", body: `{"board":"XXXOO...."}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "Full board", body: `{"board":"XOXXOOOXX"}`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, "/v1/best-move", tt.body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var got errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.NotEmpty(t, got.Error)
		})
	}
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t)

	// Given: X has taken a corner
	resp := post(t, srv, "/v1/analyze", `{"board":"X........"}`)

	// Then: every empty cell is scored and only the center holds the draw
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got analyzeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Equal(t, "O", got.Marker)
	assert.Equal(t, 4, got.Best)
	require.Len(t, got.Moves, 8)

	for _, move := range got.Moves {
		if move.Index == 4 {
			assert.Equal(t, minimax.DrawScore, move.Score)
			continue
		}
		assert.Equal(t, minimax.LossScore, move.Score, "cell %d", move.Index)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/best-move")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
