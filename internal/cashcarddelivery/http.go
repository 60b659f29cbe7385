// Package cashcarddelivery manages delivery layer of cash cards.
package cashcarddelivery

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/cash-card/internal/domain"
	"github.com/go-petr/cash-card/internal/middleware"
	"github.com/go-petr/cash-card/pkg/errorspkg"
	"github.com/go-petr/cash-card/pkg/pagepkg"
	"github.com/go-petr/cash-card/pkg/web"
)

// Service provides service layer interface needed by cash card delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package cashcarddelivery
type Service interface {
	Create(ctx context.Context, owner string, amount decimal.Decimal) (domain.CashCard, error)
	Get(ctx context.Context, owner string, id int64) (domain.CashCard, error)
	List(ctx context.Context, owner string, page domain.PageRequest) ([]domain.CashCard, error)
	Update(ctx context.Context, owner string, id int64, amount decimal.Decimal) error
	Delete(ctx context.Context, owner string, id int64) error
}

// Handler facilitates cash card delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns cash card handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

// Register mounts the handlers on the given route group.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("", h.Create)
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.PUT("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
}

type amountRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

type idRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

func bindError(gctx *gin.Context, err error) {
	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		gctx.JSON(http.StatusBadRequest, web.ErrorMsg(web.GetErrorMsg(ve)))
		return
	}

	gctx.JSON(http.StatusBadRequest, web.Error(errorspkg.ErrBadRequest))
}

// serviceError writes the response for an error returned by the service.
// A missing card and a card of someone else get the same response.
func serviceError(gctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrCashCardNotFound):
		gctx.JSON(http.StatusNotFound, web.Error(domain.ErrCashCardNotFound))
	case errors.Is(err, domain.ErrUnsupportedSortField):
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrUnsupportedSortField))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

func owner(gctx *gin.Context) string {
	return gctx.MustGet(middleware.AuthPayloadKey).(domain.Identity).Username
}

// Create handles http request to create cash card.
func (h *Handler) Create(gctx *gin.Context) {
	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, err)
		return
	}

	created, err := h.service.Create(gctx.Request.Context(), owner(gctx), *req.Amount)
	if err != nil {
		serviceError(gctx, err)
		return
	}

	gctx.Header("Location", path.Join(gctx.FullPath(), strconv.FormatInt(created.ID, 10)))
	gctx.Status(http.StatusCreated)
}

// Get handles http request to get cash card.
func (h *Handler) Get(gctx *gin.Context) {
	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		bindError(gctx, err)
		return
	}

	c, err := h.service.Get(gctx.Request.Context(), owner(gctx), req.ID)
	if err != nil {
		serviceError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, c)
}

// List handles http request to list cash cards of the caller.
func (h *Handler) List(gctx *gin.Context) {
	page := pagepkg.Resolve(pagepkg.Params{
		Page: gctx.Query("page"),
		Size: gctx.Query("size"),
		Sort: gctx.QueryArray("sort"),
	})

	cards, err := h.service.List(gctx.Request.Context(), owner(gctx), page)
	if err != nil {
		serviceError(gctx, err)
		return
	}

	if cards == nil {
		cards = []domain.CashCard{}
	}

	gctx.JSON(http.StatusOK, cards)
}

// Update handles http request to replace the amount of a cash card.
func (h *Handler) Update(gctx *gin.Context) {
	var uri idRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		bindError(gctx, err)
		return
	}

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, err)
		return
	}

	if err := h.service.Update(gctx.Request.Context(), owner(gctx), uri.ID, *req.Amount); err != nil {
		serviceError(gctx, err)
		return
	}

	gctx.Status(http.StatusNoContent)
}

// Delete handles http request to delete cash card.
func (h *Handler) Delete(gctx *gin.Context) {
	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		bindError(gctx, err)
		return
	}

	if err := h.service.Delete(gctx.Request.Context(), owner(gctx), req.ID); err != nil {
		serviceError(gctx, err)
		return
	}

	gctx.Status(http.StatusNoContent)
}
