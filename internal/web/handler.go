// Package web is the local HTTP surface over the client state: each route
// drives the store the way the matching page of the six-cities app does.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"sixcities/internal/api"
	"sixcities/internal/domain"
	"sixcities/internal/metrics"
	"sixcities/internal/middleware"
	"sixcities/internal/pkg/response"
	"sixcities/internal/store"
)

type Handler struct {
	store   *store.Store
	hub     *Hub
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewHandler(s *store.Store, hub *Hub, m *metrics.Metrics, log *slog.Logger) *Handler {
	return &Handler{
		store:   s,
		hub:     hub,
		metrics: m,
		log:     log.With("component", "web"),
	}
}

// NewRouter builds the engine with the middleware stack and every route.
func NewRouter(h *Handler, origins ...string) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestLogger(h.log, h.metrics),
		middleware.ErrorLogger(h.log),
		middleware.CORS(origins...),
	)
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	auth := h.store.Auth
	private := middleware.PrivateRoute(auth)
	public := middleware.PublicRoute(auth)

	r.GET("/", h.Main)
	r.PUT("/city", h.SelectCity)
	r.PUT("/sort", h.SelectSort)
	r.PUT("/active-offer", h.SetActiveOffer)

	r.GET("/offer/:id", h.Offer)
	r.POST("/offer/:id/comments", private, h.PostComment)

	r.GET("/favorites", private, h.Favorites)
	r.POST("/favorites/:id/:status", private, h.ToggleFavorite)

	r.GET("/login", public, h.LoginPage)
	r.POST("/login", public, h.Login)
	r.POST("/logout", h.Logout)

	r.GET("/ws", func(c *gin.Context) { h.hub.ServeWS(c.Writer, c.Request) })
	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
}

func (h *Handler) Main(c *gin.Context) {
	offers := h.store.Offers
	if !offers.Loaded() {
		if err := offers.Fetch(c.Request.Context()); err != nil {
			response.Error(c, upstreamStatus(err), "OFFERS_UNAVAILABLE", offers.State().Error)
			return
		}
	}
	response.Success(c, http.StatusOK, h.mainView())
}

func (h *Handler) SelectCity(c *gin.Context) {
	var req cityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := h.store.Offers.SetSelectedCity(req.Name); err != nil {
		response.Error(c, http.StatusBadRequest, "UNKNOWN_CITY", err.Error())
		return
	}
	response.Success(c, http.StatusOK, h.mainView())
}

func (h *Handler) SelectSort(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := h.store.Offers.SetSelectedSort(req.Sort); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_SORT", err.Error(), domain.SortOptions)
		return
	}
	response.Success(c, http.StatusOK, h.mainView())
}

func (h *Handler) SetActiveOffer(c *gin.Context) {
	var req activeOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	h.store.Offers.SetActiveOfferID(req.OfferID)
	response.Success(c, http.StatusOK, gin.H{"activeOfferId": req.OfferID})
}

// Offer loads the detail page: the offer, its neighbours and its reviews are
// fetched together. Only a failed offer fetch fails the page.
func (h *Handler) Offer(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	var (
		wg                  sync.WaitGroup
		offerErr, nearbyErr error
		reviewsErr          error
	)
	wg.Add(3)
	go func() { defer wg.Done(); offerErr = h.store.Offer.Fetch(ctx, id) }()
	go func() { defer wg.Done(); nearbyErr = h.store.Nearby.Fetch(ctx, id) }()
	go func() { defer wg.Done(); reviewsErr = h.store.Comments.Fetch(ctx, id) }()
	wg.Wait()

	if offerErr != nil {
		status := upstreamStatus(offerErr)
		code := "OFFER_UNAVAILABLE"
		if status == http.StatusNotFound {
			code = "NOT_FOUND"
		}
		response.Error(c, status, code, h.store.Offer.State().Error)
		return
	}

	st := h.store.Offer.State()
	if st.Offer == nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "offer not found")
		return
	}

	view := offerView{
		Offer:               *st.Offer,
		Nearby:              h.store.Nearby.For(id),
		Reviews:             h.store.Comments.Latest(id, maxReviewsOnPage),
		ReviewsCount:        len(h.store.Comments.For(id)),
		AuthorizationStatus: h.store.Auth.Status(),
	}
	if len(view.Nearby) > maxNearbyOnPage {
		view.Nearby = view.Nearby[:maxNearbyOnPage]
	}
	if nearbyErr != nil {
		view.NearbyError = h.store.Nearby.State().Error
	}
	if reviewsErr != nil {
		view.ReviewsError = h.store.Comments.State().Error
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) PostComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	review, err := h.store.Comments.Post(c.Request.Context(), c.Param("id"), req.Comment, req.Rating)
	if err != nil {
		msg := h.store.Comments.State().PostError
		if errors.Is(err, store.ErrInvalidComment) || errors.Is(err, store.ErrInvalidRating) {
			response.Error(c, http.StatusBadRequest, "INVALID_REVIEW", msg)
			return
		}
		response.Error(c, upstreamStatus(err), "COMMENT_FAILED", msg)
		return
	}
	response.Success(c, http.StatusCreated, review)
}

func (h *Handler) Favorites(c *gin.Context) {
	favs := h.store.Favorites
	if err := favs.Fetch(c.Request.Context()); err != nil {
		response.Error(c, upstreamStatus(err), "FAVORITES_UNAVAILABLE", favs.State().Error)
		return
	}
	offers := favs.State().Offers
	response.Success(c, http.StatusOK, favoritesView{
		Groups: domain.GroupByCity(offers),
		Count:  len(offers),
	})
}

func (h *Handler) ToggleFavorite(c *gin.Context) {
	var status bool
	switch c.Param("status") {
	case "1":
		status = true
	case "0":
		status = false
	default:
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "status must be 1 or 0")
		return
	}

	offer, err := h.store.Favorites.Toggle(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		response.Error(c, upstreamStatus(err), "FAVORITE_FAILED", h.store.Favorites.State().ToggleError)
		return
	}
	response.Success(c, http.StatusOK, offer)
}

func (h *Handler) LoginPage(c *gin.Context) {
	st := h.store.Auth.State()
	response.Success(c, http.StatusOK, loginView{
		AuthorizationStatus: st.Status,
		Error:               st.Error,
		From:                redirectTarget(c.Query("from")),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	from := req.From
	if from == "" {
		from = c.Query("from")
	}

	if err := h.store.Auth.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		response.Error(c, upstreamStatus(err), "LOGIN_FAILED", h.store.Auth.State().Error)
		return
	}

	st := h.store.Auth.State()
	response.Success(c, http.StatusOK, sessionView{
		AuthorizationStatus: st.Status,
		User:                st.User,
		Redirect:            redirectTarget(from),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.store.Auth.Logout(c.Request.Context()); err != nil {
		h.log.Warn("logout finished with errors", "error", err)
	}
	response.Success(c, http.StatusOK, sessionView{AuthorizationStatus: h.store.Auth.Status()})
}

func (h *Handler) mainView() mainView {
	st := h.store.Offers.State()
	return mainView{
		Offers:              h.store.Offers.Visible(),
		Cities:              st.Cities,
		SelectedCity:        st.SelectedCity,
		SelectedSort:        st.SelectedSort,
		SortOptions:         domain.SortOptions,
		ActiveOfferID:       st.ActiveOfferID,
		Error:               st.Error,
		AuthorizationStatus: h.store.Auth.Status(),
		FavoritesCount:      h.store.Favorites.Count(),
	}
}

// upstreamStatus passes client errors from the API through and reports
// everything else as a bad gateway.
func upstreamStatus(err error) int {
	if code := api.StatusCode(err); code >= 400 && code < 500 {
		return code
	}
	return http.StatusBadGateway
}

// redirectTarget only allows local paths.
func redirectTarget(from string) string {
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return "/"
	}
	return from
}
