package mockapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"sixcities/internal/middleware"
	"sixcities/internal/pkg/jwt"
	"sixcities/internal/pkg/response"
	"sixcities/internal/pkg/validator"
)

type Handler struct {
	svc *Service
	jwt *jwt.Service
	log *slog.Logger
}

func NewHandler(svc *Service, j *jwt.Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, jwt: j, log: log.With("component", "mockapi_http")}
}

// NewRouter serves the six-cities REST contract.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestLogger(h.log, nil),
		middleware.ErrorLogger(h.log),
		middleware.CORS(),
	)
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	optional := middleware.TokenAuth(h.jwt, false)
	required := middleware.TokenAuth(h.jwt, true)

	r.GET("/offers", optional, h.ListOffers)
	r.GET("/offers/:offerId", optional, h.GetOffer)
	r.GET("/offers/:offerId/nearby", optional, h.Nearby)

	r.GET("/favorite", required, h.Favorites)
	r.POST("/favorite/:offerId/:status", required, h.SetFavorite)

	r.GET("/comments/:offerId", h.Comments)
	r.POST("/comments/:offerId", required, h.PostComment)

	r.GET("/login", required, h.CheckAuth)
	r.POST("/login", h.Login)
	r.DELETE("/logout", required, h.Logout)
}

type commentInput struct {
	Comment string `json:"comment" validate:"required,min=50,max=300"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

func (h *Handler) ListOffers(c *gin.Context) {
	offers, err := h.svc.Offers(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *Handler) GetOffer(c *gin.Context) {
	offer, err := h.svc.Offer(c.Request.Context(), c.GetInt64("user_id"), c.Param("offerId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (h *Handler) Nearby(c *gin.Context) {
	offers, err := h.svc.Nearby(c.Request.Context(), c.GetInt64("user_id"), c.Param("offerId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *Handler) Favorites(c *gin.Context) {
	offers, err := h.svc.Favorites(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *Handler) SetFavorite(c *gin.Context) {
	var status bool
	switch c.Param("status") {
	case "1":
		status = true
	case "0":
	default:
		response.APIError(c, http.StatusBadRequest, response.TypeValidation, "Status must be 0 or 1")
		return
	}

	offer, err := h.svc.SetFavorite(c.Request.Context(), c.GetInt64("user_id"), c.Param("offerId"), status)
	if err != nil {
		h.fail(c, err)
		return
	}
	code := http.StatusOK
	if status {
		code = http.StatusCreated
	}
	c.JSON(code, offer)
}

func (h *Handler) Comments(c *gin.Context) {
	reviews, err := h.svc.Reviews(c.Request.Context(), c.Param("offerId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *Handler) PostComment(c *gin.Context) {
	var in commentInput
	if !h.bind(c, &in) {
		return
	}
	review, err := h.svc.AddReview(c.Request.Context(), c.GetInt64("user_id"), c.Param("offerId"), in.Comment, in.Rating)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *Handler) CheckAuth(c *gin.Context) {
	info, err := h.svc.Session(c.Request.Context(), c.GetInt64("user_id"), c.GetHeader(middleware.TokenHeader))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) Login(c *gin.Context) {
	var in loginInput
	if !h.bind(c, &in) {
		return
	}
	info, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Logout has nothing to revoke: tokens are stateless and expire on their own.
func (h *Handler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.APIError(c, http.StatusBadRequest, response.TypeValidation, "Invalid request body")
		return false
	}
	if errs := validator.Validate(dst); errs != nil {
		details := make([]response.ValidationDetail, len(errs))
		for i, e := range errs {
			details[i] = response.ValidationDetail{Property: e.Field, Value: e.Value, Messages: []string{e.Message}}
		}
		response.APIValidationError(c, "Validation error: "+c.Request.URL.Path, details)
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrOfferNotFound):
		response.APIError(c, http.StatusNotFound, response.TypeCommon, err.Error())
	case errors.Is(err, ErrUserNotFound):
		response.APIError(c, http.StatusUnauthorized, response.TypeCommon, "Unauthorized")
	case errors.Is(err, ErrWrongPassword):
		response.APIError(c, http.StatusBadRequest, response.TypeCommon, "Incorrect email or password")
	case errors.Is(err, ErrAlreadyFavorite), errors.Is(err, ErrNotFavorite):
		response.APIError(c, http.StatusConflict, response.TypeCommon, err.Error())
	default:
		h.log.Error("request failed", "path", c.Request.URL.Path, "error", err)
		_ = c.Error(err)
		response.APIError(c, http.StatusInternalServerError, response.TypeCommon, "Internal server error")
	}
}
