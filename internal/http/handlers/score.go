package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/nexuslearn-backend/internal/http/response"
	"github.com/yungbote/nexuslearn-backend/internal/services"
)

type ScoreHandler struct {
	scoreService services.ScoreService
}

func NewScoreHandler(scoreService services.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

// GET /api/scores returns one record when subject and paper are given,
// otherwise every record of the user.
func (sh *ScoreHandler) Get(c *gin.Context) {
	username, subject, paper := c.Query("username"), c.Query("subject"), c.Query("paper")
	if subject != "" || paper != "" {
		rec, err := sh.scoreService.Get(c.Request.Context(), username, subject, paper)
		if err != nil {
			response.RespondServiceError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"score": rec})
		return
	}
	recs, err := sh.scoreService.List(c.Request.Context(), username)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scores": recs})
}

// POST /api/scores
func (sh *ScoreHandler) Submit(c *gin.Context) {
	var in services.ScoreInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rec, err := sh.scoreService.Submit(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"score": rec})
}

// GET /api/scores/progress
func (sh *ScoreHandler) Progress(c *gin.Context) {
	var q services.ProgressQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	series, err := sh.scoreService.Progress(c.Request.Context(), q)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, series)
}
