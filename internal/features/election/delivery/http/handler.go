package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "election-tool-backend/internal/common/errors"
	"election-tool-backend/internal/common/middleware"
	"election-tool-backend/internal/features/election/mapper"
	"election-tool-backend/internal/features/election/models"
	"election-tool-backend/internal/features/election/models/dto"
	"election-tool-backend/internal/features/election/service"
)

type ElectionHandler struct {
	service     service.ElectionService
	drawService service.DrawService
}

func NewElectionHandler(svc service.ElectionService, draws service.DrawService) *ElectionHandler {
	return &ElectionHandler{
		service:     svc,
		drawService: draws,
	}
}

func (h *ElectionHandler) RegisterRoutes(router *gin.RouterGroup) {
	elections := router.Group("/elections")
	{
		elections.POST("", middleware.RequireAuth(), h.create)
		elections.GET("/me", middleware.RequireAuth(), h.getMyElections)
		elections.GET("/:id", h.getByID)
		elections.PUT("/:id", middleware.RequireAuth(), h.update)
		elections.POST("/:id/publish", middleware.RequireAuth(), h.publish)
		elections.POST("/:id/cancel", middleware.RequireAuth(), h.cancel)

		elections.GET("/:id/fee", h.quoteFee)
		elections.GET("/:id/prizes", h.getPrizes)
		elections.GET("/:id/eligibility", h.checkEligibility)

		elections.POST("/:id/votes", middleware.RequireAuth(), h.submitVote)
		elections.GET("/:id/votes/me", middleware.RequireAuth(), h.getMyVote)

		elections.PUT("/:id/video-progress", middleware.RequireAuth(), h.saveVideoProgress)
		elections.POST("/:id/payment-intent", middleware.RequireAuth(), h.createPaymentIntent)

		elections.GET("/:id/draw", h.getDrawStats)
		elections.POST("/:id/draw", middleware.RequireAuth(), h.triggerDraw)
	}
}

// @Summary Create election
// @Description Creates a draft election owned by the caller
// @Tags elections
// @Accept json
// @Produce json
// @Param input body dto.ElectionCreateRequest true "Election configuration"
// @Success 201 {object} dto.ElectionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /elections [post]
func (h *ElectionHandler) create(c *gin.Context) {
	var req dto.ElectionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), middleware.UserID(c), mapper.ToElection(&req))
	if err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusCreated, mapper.ToElectionResponse(created, time.Now()))
}

// @Summary Get election
// @Tags elections
// @Produce json
// @Param id path string true "Election ID"
// @Success 200 {object} dto.ElectionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /elections/{id} [get]
func (h *ElectionHandler) getByID(c *gin.Context) {
	election, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, mapper.ToElectionResponse(election, time.Now()))
}

// @Summary List my elections
// @Tags elections
// @Produce json
// @Success 200 {array} dto.ElectionResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /elections/me [get]
func (h *ElectionHandler) getMyElections(c *gin.Context) {
	elections, err := h.service.GetByCreator(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	now := time.Now()
	response := make([]*dto.ElectionResponse, 0, len(elections))
	for _, e := range elections {
		response = append(response, mapper.ToElectionResponse(e, now))
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Update election
// @Description Replaces the configuration of an election that is still editable
// @Tags elections
// @Accept json
// @Produce json
// @Param id path string true "Election ID"
// @Param input body dto.ElectionCreateRequest true "Election configuration"
// @Success 200 {object} dto.ElectionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /elections/{id} [put]
func (h *ElectionHandler) update(c *gin.Context) {
	var req dto.ElectionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), mapper.ToElection(&req))
	if err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, mapper.ToElectionResponse(updated, time.Now()))
}

// @Summary Publish election
// @Description Moves a draft election into the published lifecycle
// @Tags elections
// @Produce json
// @Param id path string true "Election ID"
// @Success 200 {object} dto.ElectionResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /elections/{id}/publish [post]
func (h *ElectionHandler) publish(c *gin.Context) {
	published, err := h.service.Publish(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, mapper.ToElectionResponse(published, time.Now()))
}

// @Summary Cancel election
// @Tags elections
// @Produce json
// @Param id path string true "Election ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /elections/{id}/cancel [post]
func (h *ElectionHandler) cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary Quote participation fee
// @Description Computes the fee for the caller's region
// @Tags elections
// @Produce json
// @Param id path string true "Election ID"
// @Success 200 {object} dto.FeeQuoteResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /elections/{id}/fee [get]
func (h *ElectionHandler) quoteFee(c *gin.Context) {
	quote, err := h.service.QuoteFee(c.Request.Context(), c.Param("id"), service.RegionHint{
		Country: middleware.UserCountry(c),
		City:    middleware.UserCity(c),
	})
	if err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, mapper.ToFeeQuoteResponse(quote))
}

// @Summary Get prize breakdown
// @Tags elections
// @Produce json
// @Param id path string true "Election ID"
// @Success 200 {object} dto.PrizeBreakdownResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /elections/{id}/prizes [get]
func (h *ElectionHandler) getPrizes(c *gin.Context) {
	electionID := c.Param("id")

	election, err := h.service.GetByID(c.Request.Context(), electionID)
	if err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	breakdown, err := h.service.GetPrizeBreakdown(c.Request.Context(), electionID)
	if err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, mapper.ToPrizeBreakdownResponse(election.Lottery, breakdown))
}

// @Summary Check voting eligibility
// @Description Evaluates every blocker for the caller at once
// @Tags elections
// @Produce json
// @Param id path string true "Election ID"
// @Success 200 {object} dto.EligibilityResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /elections/{id}/eligibility [get]
func (h *ElectionHandler) checkEligibility(c *gin.Context) {
	verdict, err := h.service.CheckEligibility(c.Request.Context(), c.Param("id"), voterFacts(c))
	if err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, mapper.ToEligibilityResponse(verdict))
}

// @Summary Submit vote
// @Description Records the caller's ballot and returns a receipt
// @Tags elections
// @Accept json
// @Produce json
// @Param id path string true "Election ID"
// @Param input body dto.VoteSubmissionRequest true "Answers keyed by question id"
// @Success 201 {object} dto.VoteReceiptResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /elections/{id}/votes [post]
func (h *ElectionHandler) submitVote(c *gin.Context) {
	var req dto.VoteSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	receipt, err := h.service.SubmitVote(c.Request.Context(), c.Param("id"), voterFacts(c), req.Answers)
	if err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusCreated, mapper.ToVoteReceiptResponse(receipt))
}

// @Summary Get my vote
// @Tags elections
// @Produce json
// @Param id path string true "Election ID"
// @Success 200 {object} dto.VoteResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /elections/{id}/votes/me [get]
func (h *ElectionHandler) getMyVote(c *gin.Context) {
	vote, err := h.service.GetVote(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, mapper.ToVoteResponse(vote))
}

// @Summary Save video progress
// @Description Stores the caller's watch percentage, keeping the maximum seen
// @Tags elections
// @Accept json
// @Produce json
// @Param id path string true "Election ID"
// @Param input body dto.VideoProgressRequest true "Watch percentage"
// @Success 200 {object} dto.VideoProgressResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /elections/{id}/video-progress [put]
func (h *ElectionHandler) saveVideoProgress(c *gin.Context) {
	var req dto.VideoProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	electionID := c.Param("id")
	if err := h.service.SaveVideoProgress(c.Request.Context(), electionID, middleware.UserID(c), req.WatchPercentage); err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, dto.VideoProgressResponse{
		ElectionID:      electionID,
		WatchPercentage: req.WatchPercentage,
	})
}

// @Summary Create payment intent
// @Description Starts payment of the participation fee for the caller's region
// @Tags elections
// @Produce json
// @Param id path string true "Election ID"
// @Success 201 {object} dto.PaymentIntentResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /elections/{id}/payment-intent [post]
func (h *ElectionHandler) createPaymentIntent(c *gin.Context) {
	intent, err := h.service.CreatePaymentIntent(c.Request.Context(), c.Param("id"), middleware.UserID(c), service.RegionHint{
		Country: middleware.UserCountry(c),
		City:    middleware.UserCity(c),
	})
	if err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusCreated, mapper.ToPaymentIntentResponse(intent))
}

// @Summary Get draw stats
// @Tags draws
// @Produce json
// @Param id path string true "Election ID"
// @Success 200 {object} dto.DrawStatsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /elections/{id}/draw [get]
func (h *ElectionHandler) getDrawStats(c *gin.Context) {
	stats, err := h.drawService.GetStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, mapper.ToDrawStatsResponse(stats))
}

// @Summary Trigger lottery draw
// @Description Runs the draw for an ended election; repeating the call returns the recorded result
// @Tags draws
// @Produce json
// @Param id path string true "Election ID"
// @Success 200 {object} dto.DrawStatsResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /elections/{id}/draw [post]
func (h *ElectionHandler) triggerDraw(c *gin.Context) {
	stats, err := h.drawService.TriggerDraw(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, mapper.ToDrawStatsResponse(stats))
}

func voterFacts(c *gin.Context) service.VoterFacts {
	return service.VoterFacts{
		UserID:  middleware.UserID(c),
		Country: middleware.UserCountry(c),
		City:    middleware.UserCity(c),
	}
}

// toAppError maps service sentinels onto the typed error taxonomy. Typed
// errors pass through untouched.
func toAppError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		return apperrors.New(apperrors.ErrCodeElectionNotFound, "election not found")
	case errors.Is(err, service.ErrNotOwner):
		return apperrors.NewForbiddenError("only the election owner may do this")
	case errors.Is(err, service.ErrNoLottery):
		return apperrors.New(apperrors.ErrCodeBadRequest, "election has no lottery configured")
	case errors.Is(err, service.ErrNotEndedYet):
		return apperrors.NewConflictError("draw", "election has not ended yet")
	case errors.Is(err, models.ErrElectionNotEditable):
		return apperrors.NewConflictError("election", "election can no longer be edited")
	default:
		return err
	}
}
