package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"caseadmin/internal/database"
	"caseadmin/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	msgDatabaseError  = "Database error"
	msgCaseNotFound   = "Case not found"
	msgInvalidCaseID  = "Invalid case id"
	msgInvalidBody    = "Invalid request body"
	msgStatusUpdated  = "Case status updated successfully"
	msgCaseDeleted    = "Case deleted successfully"
	msgResponseAdded  = "Admin response added successfully"
	caseSelectColumns = "id, description, status::text, admin_response, response_timestamp, created_at"
)

// RegisterRoutes mounts the case administration endpoints on a group
// prefixed with /cases.
func RegisterRoutes(g *echo.Group, db database.DB) {
	g.GET("", ListCases(db))
	g.GET("/:id", GetCase(db))
	g.PUT("/:id", UpdateCaseStatus(db))
	g.DELETE("/:id", DeleteCase(db))
	g.PUT("/:id/respond", RespondToCase(db))
}

// ListCases godoc
// @Summary      List all cases
// @Description  Returns every reported case ordered by id
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   Case
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /cases [get]
func ListCases(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		rows, err := db.Query(ctx, `SELECT `+caseSelectColumns+` FROM cases ORDER BY id`)
		if err != nil {
			logger.Error("failed to list cases", err)
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgDatabaseError})
		}

		cases, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Case, error) {
			return scanCase(row)
		})
		if err != nil {
			logger.Error("failed to scan cases", err)
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgDatabaseError})
		}
		if cases == nil {
			cases = []Case{}
		}

		return c.JSON(http.StatusOK, cases)
	}
}

// GetCase godoc
// @Summary      Get a case
// @Description  Returns a single case by id
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Case ID"
// @Success      200  {object}  Case
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /cases/{id} [get]
func GetCase(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := caseID(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidCaseID})
		}

		row := db.QueryRow(c.Request().Context(), `SELECT `+caseSelectColumns+` FROM cases WHERE id = $1`, id)
		item, err := scanCase(row)
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: msgCaseNotFound})
		}
		if err != nil {
			logger.Error("failed to get case", err, zap.Int64("case_id", id))
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgDatabaseError})
		}

		return c.JSON(http.StatusOK, item)
	}
}

// UpdateCaseStatus godoc
// @Summary      Update a case's status
// @Description  Moves a case between Pending and Solved
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Case ID"
// @Param        body  body      UpdateStatusRequest  true  "New status"
// @Success      200   {object}  MessageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /cases/{id} [put]
func UpdateCaseStatus(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := caseID(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidCaseID})
		}

		var req UpdateStatusRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
		}
		req.Status = strings.TrimSpace(req.Status)
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
		}

		tag, err := db.Exec(c.Request().Context(), `UPDATE cases SET status = $1 WHERE id = $2`, req.Status, id)
		if err != nil {
			logger.Error("failed to update case status", err, zap.Int64("case_id", id))
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgDatabaseError})
		}
		if tag.RowsAffected() == 0 {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: msgCaseNotFound})
		}

		return c.JSON(http.StatusOK, MessageResponse{Message: msgStatusUpdated})
	}
}

// DeleteCase godoc
// @Summary      Delete a case
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Case ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /cases/{id} [delete]
func DeleteCase(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := caseID(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidCaseID})
		}

		tag, err := db.Exec(c.Request().Context(), `DELETE FROM cases WHERE id = $1`, id)
		if err != nil {
			logger.Error("failed to delete case", err, zap.Int64("case_id", id))
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgDatabaseError})
		}
		if tag.RowsAffected() == 0 {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: msgCaseNotFound})
		}

		return c.JSON(http.StatusOK, MessageResponse{Message: msgCaseDeleted})
	}
}

// RespondToCase godoc
// @Summary      Respond to a case
// @Description  Stores the administrator's response and stamps it with the server time
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Case ID"
// @Param        body  body      RespondRequest  true  "Administrator response"
// @Success      200   {object}  MessageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /cases/{id}/respond [put]
func RespondToCase(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := caseID(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidCaseID})
		}

		var req RespondRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
		}
		// Whitespace-only counts as missing; the stored text is left as sent.
		check := req
		check.AdminResponse = strings.TrimSpace(req.AdminResponse)
		if err := c.Validate(&check); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
		}

		tag, err := db.Exec(c.Request().Context(), `
			UPDATE cases
			SET admin_response = $1, response_timestamp = NOW()
			WHERE id = $2
		`, req.AdminResponse, id)
		if err != nil {
			logger.Error("failed to add admin response", err, zap.Int64("case_id", id))
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgDatabaseError})
		}
		if tag.RowsAffected() == 0 {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: msgCaseNotFound})
		}

		return c.JSON(http.StatusOK, MessageResponse{Message: msgResponseAdded})
	}
}

func caseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func scanCase(row pgx.Row) (Case, error) {
	var item Case
	var status string
	err := row.Scan(
		&item.ID,
		&item.Description,
		&status,
		&item.AdminResponse,
		&item.ResponseTimestamp,
		&item.CreatedAt,
	)
	item.Status = CaseStatus(status)
	return item, err
}
