package quotes

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cotizamed/cotizamed/internal/platform/httpx"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(r, "itemID")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid item id")
		return
	}
	var req CreateQuoteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	quote, err := h.service.Create(r.Context(), itemID, req)
	if err != nil {
		h.logger.Error("create quote", slog.Any("error", err), slog.Int64("item_id", itemID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quote)
}

func (h *Handler) ListByItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(r, "itemID")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid item id")
		return
	}
	quotes, err := h.service.ListByItem(r.Context(), itemID)
	if err != nil {
		h.logger.Error("list quotes", slog.Any("error", err), slog.Int64("item_id", itemID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"quotes": quotes})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quote id")
		return
	}
	quote, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

// Compare renders the reference-currency comparison for an equipment item.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(r, "itemID")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid item id")
		return
	}
	cmp, err := h.service.Compare(r.Context(), itemID)
	if err != nil {
		h.logger.Error("compare quotes", slog.Any("error", err), slog.Int64("item_id", itemID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cmp)
}

// ExportComparison streams the comparison as an xlsx download.
func (h *Handler) ExportComparison(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(r, "itemID")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid item id")
		return
	}
	cmp, err := h.service.Compare(r.Context(), itemID)
	if err != nil {
		h.logger.Error("export comparison", slog.Any("error", err), slog.Int64("item_id", itemID))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="comparativo-`+strconv.FormatInt(itemID, 10)+`.xlsx"`)
	if err := WriteComparisonWorkbook(cmp, w); err != nil {
		h.logger.Error("write comparison workbook", slog.Any("error", err), slog.Int64("item_id", itemID))
	}
}

func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quote id")
		return
	}
	quote, err := h.service.Select(r.Context(), id)
	if err != nil {
		h.logger.Error("select quote", slog.Any("error", err), slog.Int64("quote_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}
