package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/storage"
)

// RecommendRequest is the body of POST /api/v1/recommend.
type RecommendRequest struct {
	UserID      string            `json:"userId"`
	TaskTitle   string            `json:"taskTitle"`
	TaskType    core.TaskType     `json:"taskType"`
	Description string            `json:"description"`
	LikedTags   []string          `json:"likedTags"`
	ExcludeIDs  []core.ResourceID `json:"excludeIds"`
	Limit       int               `json:"limit"`
}

// PrioritizeRequest is the body of POST /api/v1/prioritize.
type PrioritizeRequest struct {
	Tasks []core.Task `json:"tasks"`
}

// DecomposeRequest is the body of POST /api/v1/decompose.
type DecomposeRequest struct {
	UserID      string `json:"userId"`
	TaskTitle   string `json:"taskTitle"`
	Description string `json:"description"`
}

// InteractionRequest is the body of POST /api/v1/interactions and /api/v1/feedback.
type InteractionRequest struct {
	UserID     string          `json:"userId"`
	ResourceID core.ResourceID `json:"resourceId"`
	Action     core.Action     `json:"action"`
	Tags       []string        `json:"tags"`
}

// InteractionResponse reports the outcome of a recorded interaction.
type InteractionResponse struct {
	Success bool        `json:"success"`
	Action  core.Action `json:"action"`
	Change  string      `json:"change"`
	Active  bool        `json:"active"`
}

// FeedbackListResponse is the body of GET /api/v1/feedback.
type FeedbackListResponse struct {
	Success   bool                   `json:"success"`
	Count     int                    `json:"count"`
	Feedbacks []*core.FeedbackRecord `json:"feedbacks"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	CatalogLoaded bool   `json:"catalogLoaded"`
	Offline       bool   `json:"offline"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:        "ok",
		CatalogLoaded: s.engine.Catalog().Loaded(),
		Offline:       s.engine.Offline(),
	})
}

func (s *Server) handleRecommend(c echo.Context) error {
	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	rec, err := s.engine.Recommend(c.Request().Context(), req.UserID, &core.Query{
		Title:       req.TaskTitle,
		Description: req.Description,
		TaskType:    req.TaskType,
		LikedTags:   req.LikedTags,
		ExcludeIDs:  req.ExcludeIDs,
		Limit:       req.Limit,
	})
	if err != nil {
		return err
	}
	if rec.QuotaExceeded {
		return c.JSON(http.StatusTooManyRequests, rec)
	}
	return c.JSON(http.StatusOK, rec)
}

func (s *Server) handlePrioritize(c echo.Context) error {
	var req PrioritizeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	result, err := s.engine.Prioritize(c.Request().Context(), req.Tasks)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleDecompose(c echo.Context) error {
	var req DecomposeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	result, err := s.engine.Decompose(c.Request().Context(), req.UserID, req.TaskTitle, req.Description)
	if err != nil {
		return err
	}
	if result.QuotaExceeded {
		return c.JSON(http.StatusTooManyRequests, result)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handlePostFeedback(c echo.Context) error {
	var req InteractionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := core.ValidateFeedback(req.UserID, req.ResourceID, req.Action); err != nil {
		return err
	}
	return s.record(c, req)
}

func (s *Server) handleInteraction(c echo.Context) error {
	var req InteractionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	return s.record(c, req)
}

func (s *Server) record(c echo.Context, req InteractionRequest) error {
	outcome, err := s.engine.RecordInteraction(c.Request().Context(), req.UserID, req.ResourceID, req.Action, req.Tags)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, InteractionResponse{
		Success: true,
		Action:  outcome.Action,
		Change:  outcome.Change.String(),
		Active:  outcome.Active,
	})
}

func (s *Server) handleListFeedback(c echo.Context) error {
	filter := storage.FeedbackFilter{UserID: c.QueryParam("userId")}
	if raw := c.QueryParam("resourceId"); raw != "" {
		id, err := parseResourceID(raw)
		if err != nil {
			return err
		}
		filter.ResourceID = id
	}

	records, err := s.engine.Feedback(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	if records == nil {
		records = []*core.FeedbackRecord{}
	}
	return c.JSON(http.StatusOK, FeedbackListResponse{
		Success:   true,
		Count:     len(records),
		Feedbacks: records,
	})
}

func (s *Server) handleInteractionFor(c echo.Context) error {
	id, err := parseResourceID(c.Param("resourceId"))
	if err != nil {
		return err
	}
	action, found, err := s.engine.InteractionFor(c.Request().Context(), c.Param("userId"), id)
	if err != nil {
		return err
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "no interaction recorded")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"resourceId": id,
		"action":     action,
	})
}

func (s *Server) handleLikedTags(c echo.Context) error {
	tags, err := s.engine.LikedTags(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]string{"likedTags": tags})
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.engine.Stats(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleUsage(c echo.Context) error {
	usage, err := s.engine.Usage(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]core.FeatureUsage{"usage": usage})
}

func parseResourceID(raw string) (core.ResourceID, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, core.ErrInvalidResourceID.Error())
	}
	return core.ResourceID(id), nil
}
