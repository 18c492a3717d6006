package api

import (
	"errors"

	models "TradePulse/internal/domain/models"
	"TradePulse/internal/usecase"
	xhttp "TradePulse/pkg/http"
	xlogger "TradePulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalsHandler serves the latest scan cycle over HTTP.
type SignalsHandler struct {
	logger  *xlogger.Logger
	scanner *usecase.Scanner
}

func NewSignalsHandler(logger *xlogger.Logger, scanner *usecase.Scanner) *SignalsHandler {
	return &SignalsHandler{logger: logger, scanner: scanner}
}

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/signals/:symbol", h.Signal)
	g.GET("/assets", h.Assets)
	g.POST("/refresh", h.Refresh)
}

var bandRank = map[string]int{"WEAK": 0, "MODERATE": 1, "STRONG": 2}

// Signals returns the newest published cycle, optionally filtered by
// category and minimum strength band.
func (h *SignalsHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cycle, err := h.scanner.Latest()
	if err != nil {
		if errors.Is(err, models.ErrNoCycle) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no completed scan cycle yet").WithError(err))
		}
		h.logger.Error("latest cycle error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	minRank := bandRank[req.MinBand]
	filtered := *cycle
	filtered.Signals = nil
	for _, sig := range cycle.Signals {
		if req.Category != "" && sig.Category != req.Category {
			continue
		}
		if bandRank[sig.Band] < minRank {
			continue
		}
		filtered.Signals = append(filtered.Signals, sig)
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, &filtered)
}

// Signal returns one instrument's entry from the newest cycle.
func (h *SignalsHandler) Signal(c echo.Context) error {
	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if _, err := h.scanner.Lookup(req.Symbol); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown symbol %s", req.Symbol).WithError(err))
	}

	cycle, err := h.scanner.Latest()
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no completed scan cycle yet").WithError(err))
	}

	sig, ok := cycle.Find(req.Symbol)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("%s was rejected this cycle", req.Symbol))
	}
	return xhttp.SuccessResponse(c, sig)
}

// Assets returns the configured instrument catalog.
func (h *SignalsHandler) Assets(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.scanner.Catalog())
}

// Refresh busts the series cache and runs an immediate cycle.
func (h *SignalsHandler) Refresh(c echo.Context) error {
	cycle, err := h.scanner.ForceRefresh(c.Request().Context())
	if err != nil {
		h.logger.Error("force refresh failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("refresh failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, cycle)
}
