package diff

import (
	"errors"

	"tablediff/core/diff"
	"tablediff/core/logger"
	"tablediff/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for dataset comparisons.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the diff routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/diff")
	group.Post("/primary-key", h.HandleComparePrimaryKey)
	group.Post("/content", h.HandleCompareContent)
	group.Post("/chunked", h.HandleStartChunked)
	group.Get("/runs", h.HandleListRuns)
	group.Get("/runs/:id", h.HandleGetRun)
	group.Get("/runs/:id/binary", h.HandleGetRunBinary)
	group.Delete("/runs/:id", h.HandleDeleteRun)
	group.Get("/datasets", h.HandleListDatasets)
	group.Get("/tables", h.HandleListTables)
}

// statusForError maps service and engine errors to HTTP status codes.
// Engine messages pass through unchanged so clients see the exact cause.
func statusForError(err error) int {
	var missingKey *diff.MissingKeyColumnError
	var dupKey *diff.DuplicateKeyError
	switch {
	case errors.As(err, &missingKey),
		errors.As(err, &dupKey),
		errors.Is(err, diff.ErrNoKeyColumns),
		errors.Is(err, diff.ErrContentChunking),
		errors.Is(err, ErrInvalidReference):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrRunNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrRunNotCompleted):
		return fiber.StatusConflict
	case errors.Is(err, ErrNoDatabase):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// HandleComparePrimaryKey runs a synchronous primary-key comparison.
// @Summary Compare by primary key
// @Description Compare two datasets joined on their key columns. Set ?binary=true for the binary wire format.
// @Tags diff
// @Accept json
// @Produce json
// @Param request body diff.CompareRequest true "Datasets and comparison options"
// @Param binary query bool false "Return the result in the binary wire format"
// @Success 200 {object} diff.Result "Comparison result"
// @Failure 400 {object} map[string]string "Validation or key error"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /diff/primary-key [post]
func (h *Handler) HandleComparePrimaryKey(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	res, err := h.service.ComparePrimaryKey(c.Context(), req)
	if err != nil {
		l.Error("Primary-key comparison failed", zap.Error(err))
		return errorResponse(c, err)
	}
	return h.sendResult(c, res)
}

// HandleCompareContent runs a synchronous content-match comparison.
// @Summary Compare by content similarity
// @Description Compare two datasets without key columns by pairing similar rows. Set ?binary=true for the binary wire format.
// @Tags diff
// @Accept json
// @Produce json
// @Param request body diff.CompareRequest true "Datasets and comparison options"
// @Param binary query bool false "Return the result in the binary wire format"
// @Success 200 {object} diff.Result "Comparison result"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /diff/content [post]
func (h *Handler) HandleCompareContent(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	res, err := h.service.CompareByContent(c.Context(), req)
	if err != nil {
		l.Error("Content comparison failed", zap.Error(err))
		return errorResponse(c, err)
	}
	return h.sendResult(c, res)
}

// sendResult writes a result as JSON, or as the binary wire format when
// the binary query parameter is set.
func (h *Handler) sendResult(c *fiber.Ctx, res *diff.Result) error {
	if !utils.ToBool(c.Query("binary")) {
		return c.JSON(res)
	}
	payload, err := h.service.EncodeResult(res)
	if err != nil {
		return errorResponse(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/octet-stream")
	return c.Send(payload)
}

// HandleStartChunked starts a chunked primary-key run in the background.
// @Summary Start a chunked diff run
// @Description Persist a run record and compare the datasets chunk by chunk in the background. Poll /diff/runs/{id} for the outcome.
// @Tags diff
// @Accept json
// @Produce json
// @Param request body diff.ChunkedRequest true "Datasets, options and chunk size"
// @Success 202 {object} diff.DiffRun "Created run"
// @Failure 400 {object} map[string]string "Validation or key error"
// @Failure 503 {object} map[string]string "No database configured"
// @Router /diff/chunked [post]
func (h *Handler) HandleStartChunked(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req ChunkedRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	run, err := h.service.StartRun(c.Context(), req)
	if err != nil {
		l.Error("Failed to start chunked diff", zap.Error(err))
		return errorResponse(c, err)
	}

	l.Info("Chunked diff started", zap.String("diff_id", run.ID))
	return c.Status(fiber.StatusAccepted).JSON(run)
}

// HandleListRuns lists stored runs, newest first.
// @Summary List diff runs
// @Description List stored runs with status, progress and summary counts.
// @Tags diff
// @Produce json
// @Param limit query int false "Maximum number of runs to return"
// @Success 200 {array} diff.DiffRun "Runs"
// @Failure 503 {object} map[string]string "No database configured"
// @Router /diff/runs [get]
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	runs, err := h.service.ListRuns(c.Context(), utils.ToInt(c.Query("limit")))
	if err != nil {
		l.Error("Failed to list runs", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(runs)
}

// HandleGetRun returns the merged result of a completed run, or the run
// record while it is still in flight.
// @Summary Get a diff run
// @Description Returns the merged result once the run completed. While pending or running it answers 202 with the run record; a failed run returns the record with its error.
// @Tags diff
// @Produce json
// @Param id path string true "Run ID"
// @Param word_diff query bool false "Recompute word-level spans for modified cells"
// @Success 200 {object} diff.Result "Merged result"
// @Success 202 {object} diff.DiffRun "Run still in progress"
// @Failure 404 {object} map[string]string "Unknown run"
// @Router /diff/runs/{id} [get]
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := c.Params("id")

	run, err := h.service.GetRun(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}

	switch run.Status {
	case RunStatusPending, RunStatusRunning:
		return c.Status(fiber.StatusAccepted).JSON(run)
	case RunStatusFailed:
		return c.JSON(run)
	}

	res, err := h.service.MergedResult(c.Context(), id, utils.ToBool(c.Query("word_diff")))
	if err != nil {
		l.Error("Failed to merge run result", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(res)
}

// HandleGetRunBinary returns the merged result in the binary wire format.
// @Summary Download a run result
// @Description Returns the merged result of a completed run as a binary artifact.
// @Tags diff
// @Produce octet-stream
// @Param id path string true "Run ID"
// @Success 200 {string} binary "Encoded result"
// @Failure 404 {object} map[string]string "Unknown run"
// @Failure 409 {object} map[string]string "Run not completed"
// @Router /diff/runs/{id}/binary [get]
func (h *Handler) HandleGetRunBinary(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := c.Params("id")

	payload, err := h.service.EncodedResult(c.Context(), id)
	if err != nil {
		l.Error("Failed to encode run result", zap.Error(err))
		return errorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/octet-stream")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="diff-`+id+`.bin"`)
	return c.Send(payload)
}

// HandleDeleteRun deletes a run, its chunks and its exported artifact.
// @Summary Delete a diff run
// @Tags diff
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 404 {object} map[string]string "Unknown run"
// @Router /diff/runs/{id} [delete]
func (h *Handler) HandleDeleteRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := c.Params("id")

	if err := h.service.DeleteRun(c.Context(), id); err != nil {
		l.Error("Failed to delete run", zap.Error(err))
		return errorResponse(c, err)
	}

	l.Info("Diff run deleted", zap.String("diff_id", id))
	return c.JSON(fiber.Map{"status": "deleted"})
}

// HandleListDatasets lists the CSV objects stored in the bucket.
// @Summary List stored datasets
// @Tags diff
// @Produce json
// @Success 200 {array} diff.DatasetObject "Datasets"
// @Failure 500 {object} map[string]string "Storage error"
// @Router /diff/datasets [get]
func (h *Handler) HandleListDatasets(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	objects, err := h.service.ListDatasets(c.Context())
	if err != nil {
		l.Error("Failed to list datasets", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(objects)
}

// HandleListTables lists the tables of the configured database.
// @Summary List database tables
// @Tags diff
// @Produce json
// @Success 200 {array} string "Tables"
// @Failure 503 {object} map[string]string "No database configured"
// @Router /diff/tables [get]
func (h *Handler) HandleListTables(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	tables, err := h.service.ListTables(c.Context())
	if err != nil {
		l.Error("Failed to list tables", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(tables)
}
