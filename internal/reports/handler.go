package reports

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/utils"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// Bills godoc
// @Summary Bills report
// @Description Without a format the rows are returned as JSON.
// @Tags Reports
// @Produce json,octet-stream
// @Param month query string false "YYYY-MM"
// @Param status query string false "unpaid, pending-verification or paid"
// @Param format query string false "csv, excel or pdf"
// @Success 200 {array} BillReportRow
// @Security BearerAuth
// @Router /admin/reports/bills [get]
func (h *Handler) Bills(c *gin.Context) {
	var req BillReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	if req.Format == "" {
		rows, err := h.service.Bills(ctx, req)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(rows), "data": gin.H{"bills": rows}})
		return
	}

	file, err := h.service.ExportBills(ctx, utils.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	sendFile(c, file)
}

// Payments godoc
// @Summary Payments report
// @Description Without a format the rows are returned as JSON.
// @Tags Reports
// @Produce json,octet-stream
// @Param status query string false "pending, verified or rejected"
// @Param date_range query string false "daily, weekly, monthly, yearly or custom"
// @Param start_date query string false "YYYY-MM-DD, custom range only"
// @Param end_date query string false "YYYY-MM-DD, custom range only"
// @Param format query string false "csv, excel or pdf"
// @Success 200 {array} PaymentReportRow
// @Security BearerAuth
// @Router /admin/reports/payments [get]
func (h *Handler) Payments(c *gin.Context) {
	var req PaymentReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	if req.Format == "" {
		rows, err := h.service.Payments(ctx, req)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(rows), "data": gin.H{"payments": rows}})
		return
	}

	file, err := h.service.ExportPayments(ctx, utils.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	sendFile(c, file)
}

func sendFile(c *gin.Context, f *File) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", f.Filename))
	c.Data(http.StatusOK, f.MimeType, f.Data)
}
