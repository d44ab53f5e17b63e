package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/carbontrack/internal/common"
	"github.com/dmitrijs2005/carbontrack/internal/server/models"
	"github.com/gin-gonic/gin"
)

type seriesFunc func(ctx context.Context, userID string) ([]models.SeriesPoint, error)

// handleCalculateAndSubmit
// POST /carbonTrack/calculateAndSubmit
func (s *Server) handleCalculateAndSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	tokenUser, _ := UserIDFromContext(c.Request.Context())
	if req.UserID == "" {
		req.UserID = tokenUser
	} else if req.UserID != tokenUser {
		s.writeError(c, common.ErrForbidden)
		return
	}

	sub, err := req.toSubmission()
	if err != nil {
		s.writeError(c, err)
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	record, err := s.carbon.CalculateAndSubmit(ctx, sub)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submitResponse{
		Message:             "Calculation successful",
		TotalCarbonEmission: record.CarbonFootprint,
	})
}

// handleSeries serves one per-user time series under key.
// GET /carbonTrack/user/:userId/{dashboard,electricity,wastage,transportation}
func (s *Server) handleSeries(key string, fn seriesFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := s.requestContext(c)
		defer cancel()

		points, err := fn(ctx, c.Param("userId"))
		if err != nil {
			s.writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, seriesToResponse(key, points))
	}
}

// handleLeaderBoard
// GET /carbonTrack/leaderBoard/:city
func (s *Server) handleLeaderBoard(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	entries, err := s.carbon.LeaderBoard(ctx, c.Param("city"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, leaderboardToResponse(entries))
}

// handleProjection
// GET /carbonTrack/leaderBoard/:city/projection
func (s *Server) handleProjection(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	entries, err := s.carbon.Projection(ctx, c.Param("city"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, leaderboardToResponse(entries))
}

// handleAllRecords
// GET /carbonTrack/allcarbondetails
func (s *Server) handleAllRecords(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	recs, err := s.carbon.AllRecords(ctx)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, recordsToResponse(recs))
}

func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
}

// writeError maps service errors onto status codes. Unclassified errors are
// logged and reported with a generic message.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		abortWithMessage(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrTokenExpired):
		abortWithMessage(c, http.StatusUnauthorized, "token expired")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		abortWithMessage(c, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, common.ErrForbidden):
		abortWithMessage(c, http.StatusForbidden, "userId does not match the authenticated user")
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
		abortWithMessage(c, http.StatusInternalServerError, "internal error")
	}
}

func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
