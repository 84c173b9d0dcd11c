package api

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tipline/tipline/internal/pkg/models"
	"github.com/tipline/tipline/internal/pkg/storage"
)

// predictionDTO flattens a ScoringRow for the API.
type predictionDTO struct {
	models.Prediction
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	GameDate string `json:"game_date"`
	GameTime string `json:"game_time,omitempty"`
}

func toDTOs(rows []storage.ScoringRow) []predictionDTO {
	out := make([]predictionDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, predictionDTO{
			Prediction: r.Prediction,
			HomeTeam:   r.HomeTeamName,
			AwayTeam:   r.AwayTeamName,
			GameDate:   r.GameDate,
			GameTime:   r.GameTime,
		})
	}
	return out
}

func (s *Server) handleHealth(c *gin.Context) {
	status := http.StatusOK
	db, kv := "ok", "ok"
	if err := s.store.Ping(c.Request.Context()); err != nil {
		db, status = "down", http.StatusServiceUnavailable
	}
	if err := s.kv.Ping(c.Request.Context()); err != nil {
		kv, status = "down", http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"postgres": db, "redis": kv})
}

func (s *Server) handleStats(c *gin.Context) {
	ctx := c.Request.Context()
	out := gin.H{}
	for _, dim := range []string{"sport", "source", "pick_type"} {
		totals, err := s.store.GetPredictionTotals(ctx, dim)
		if err != nil {
			s.fail(c, err)
			return
		}
		out["by_"+dim] = totals
	}
	s.respond(c, out)
}

func (s *Server) handleMatches(c *gin.Context) {
	summaries, err := s.store.ListMatchSummaries(c.Request.Context(),
		c.Query("sport"), c.Query("date"), c.Query("source"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, summaries)
}

func (s *Server) handleTopPicks(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	picks, etag, err := s.engine.TopPicks(c.Request.Context(), c.Query("sport"), c.Query("date"), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respondWithETag(c, picks, etag)
}

func (s *Server) handleBestMultis(c *gin.Context) {
	groups, etag, err := s.engine.BestMultis(c.Request.Context(), c.Query("sport"), c.Query("date"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respondWithETag(c, groups, etag)
}

func (s *Server) handleAccuracy(c *gin.Context) {
	buckets, err := s.store.GetAccuracyStats(c.Request.Context(), c.Query("sport"), c.Query("pickType"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, buckets)
}

func (s *Server) handleAccuracyHistory(c *gin.Context) {
	days := 30
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	history, err := s.store.GetAccuracyHistory(c.Request.Context(), days)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, history)
}

func (s *Server) handlePredictions(c *gin.Context) {
	rows, err := s.store.ListPredictions(c.Request.Context(),
		c.Query("sport"), c.Query("date"), c.Query("source"), 0)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, toDTOs(rows))
}

func (s *Server) handleMatchPredictions(c *gin.Context) {
	matchID, err := strconv.ParseInt(c.Param("matchId"), 10, 64)
	if err != nil {
		// Contract: malformed filters yield empty data, not client errors.
		s.respond(c, []predictionDTO{})
		return
	}
	rows, err := s.store.ListPredictions(c.Request.Context(), "", "", "", matchID)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, toDTOs(rows))
}

// respond writes {"data": ...} with an md5 ETag and public caching headers,
// honoring If-None-Match with a 304.
func (s *Server) respond(c *gin.Context, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		s.fail(c, err)
		return
	}
	sum := md5.Sum(body)
	s.respondWithETag(c, data, hex.EncodeToString(sum[:]))
}

func (s *Server) respondWithETag(c *gin.Context, data any, etag string) {
	quoted := `"` + etag + `"`
	c.Header("ETag", quoted)
	c.Header("Cache-Control", "public, max-age=300")
	if c.GetHeader("If-None-Match") == quoted {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (s *Server) fail(c *gin.Context, err error) {
	s.logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
