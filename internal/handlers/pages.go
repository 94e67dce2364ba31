package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spordle/internal/middleware"
)

const indexPage = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Spordle</title></head>
<body>
<h1>Spordle</h1>
<p>Guess the song from your own Spotify listening history.</p>
<p><a href="/login">Log in with Spotify</a></p>
</body>
</html>
`

const gamePage = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Spordle</title></head>
<body>
<h1>Spordle</h1>
<p id="artists"></p>
<button id="next">Next track</button>
<button id="play" disabled>Play snippet</button>
<form id="guess-form">
  <input id="guess" autocomplete="off" placeholder="Song title">
  <button type="submit">Guess</button>
</form>
<p id="result"></p>
<p><a href="/logout">Log out</a></p>
<script>
let track = null;
const result = document.getElementById("result");

async function api(path, body) {
  const opts = body ? {method: "POST", headers: {"Content-Type": "application/json"}, body: JSON.stringify(body)} : {};
  const resp = await fetch(path, opts);
  const data = await resp.json();
  if (data.needs_auth) { window.location = "/login"; }
  return data;
}

document.getElementById("next").onclick = async () => {
  const data = await api("/api/seed-track");
  if (data.error) { result.textContent = data.error; return; }
  track = data;
  document.getElementById("artists").textContent = data.artists.join(", ");
  document.getElementById("play").disabled = false;
  result.textContent = "";
};

document.getElementById("play").onclick = async () => {
  const data = await api("/api/play-snippet", {uri: track.uri, duration: 5});
  if (data.error) { result.textContent = data.error; }
};

document.getElementById("guess-form").onsubmit = async (e) => {
  e.preventDefault();
  const data = await api("/api/check-guess", {guess: document.getElementById("guess").value});
  if (data.error) { result.textContent = data.error; return; }
  result.textContent = data.accepted ? "Correct: " + data.raw_answer_title : "Not quite (" + data.ratio + ")";
};
</script>
</body>
</html>
`

// Index отдает стартовую страницу
func (h *Handlers) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

// Game отдает страницу игры или отправляет на стартовую без авторизации
func (h *Handlers) Game(c *gin.Context) {
	ok, err := h.sessions.IsAuthenticated(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.logger.Warn("Failed to check authentication", zap.Error(err))
	}
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(gamePage))
}
