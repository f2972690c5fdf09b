package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"event-inventory/internal/inventory"
	"event-inventory/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var articleHeaders = []string{"ID", "Name", "Category", "Price", "Initial quantity", "Stock"}

type ExportHandler struct {
	Svc    *inventory.Service
	Logger zerolog.Logger
}

func NewExportHandler(svc *inventory.Service, logger zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		Svc:    svc,
		Logger: logger.With().Str("component", "export").Logger(),
	}
}

func attachment(c *gin.Context, contentType, name string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s\"",
		time.Now().UTC().Format("20060102"), name))
}

// ArticlesCSV exports articles with their current stock as CSV.
func (h *ExportHandler) ArticlesCSV(c *gin.Context) {
	articles, err := h.Svc.ListArticlesWithStock(c.Request.Context())
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}

	attachment(c, "text/csv; charset=utf-8", "articles.csv")
	c.Status(http.StatusOK)

	// UTF-8 BOM so spreadsheet apps detect the encoding
	_, _ = c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write(articleHeaders)
	for _, a := range articles {
		_ = writer.Write([]string{
			strconv.FormatUint(uint64(a.ID), 10),
			a.Name,
			a.Category,
			strconv.FormatInt(a.Price, 10),
			strconv.FormatInt(a.InitialQuantity, 10),
			strconv.FormatInt(a.Stock, 10),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.Logger.Error().Err(err).Msg("write csv failed")
	}
}

// ArticlesXLSX exports articles with their current stock as a workbook.
func (h *ExportHandler) ArticlesXLSX(c *gin.Context) {
	articles, err := h.Svc.ListArticlesWithStock(c.Request.Context())
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Articles"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		respondErr(c, h.Logger, fmt.Errorf("create sheet: %w", err))
		return
	}
	if err := f.SetSheetRow(sheet, "A1", &articleHeaders); err != nil {
		respondErr(c, h.Logger, fmt.Errorf("write header: %w", err))
		return
	}
	for i, a := range articles {
		row := []any{a.ID, a.Name, a.Category, a.Price, a.InitialQuantity, a.Stock}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			respondErr(c, h.Logger, fmt.Errorf("write row: %w", err))
			return
		}
	}
	_ = f.SetColWidth(sheet, "B", "B", 30)
	_ = f.SetColWidth(sheet, "C", "C", 15)
	_ = f.SetColWidth(sheet, "E", "E", 16)

	h.writeWorkbook(c, f, "articles.xlsx")
}

// EventStatsXLSX exports the stats of one event: a summary sheet and the
// best-seller ranking.
func (h *ExportHandler) EventStatsXLSX(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	stats, err := h.Svc.ComputeStats(c.Request.Context(), id)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const summary, best = "Summary", "Best sellers"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		respondErr(c, h.Logger, fmt.Errorf("create sheet: %w", err))
		return
	}
	if _, err := f.NewSheet(best); err != nil {
		respondErr(c, h.Logger, fmt.Errorf("create sheet: %w", err))
		return
	}

	rows := [][]any{
		{"Event", stats.EventName},
		{"Date", stats.EventDate.Format(util.DateLayout)},
		{"Total sold", stats.TotalSold},
		{"Total bought", stats.TotalBought},
		{"Profit", stats.Profit},
	}
	for i := range rows {
		if err := f.SetSheetRow(summary, fmt.Sprintf("A%d", i+1), &rows[i]); err != nil {
			respondErr(c, h.Logger, fmt.Errorf("write summary: %w", err))
			return
		}
	}
	_ = f.SetColWidth(summary, "A", "A", 14)
	_ = f.SetColWidth(summary, "B", "B", 30)

	header := []any{"Rank", "Article ID", "Article", "Quantity sold"}
	if err := f.SetSheetRow(best, "A1", &header); err != nil {
		respondErr(c, h.Logger, fmt.Errorf("write header: %w", err))
		return
	}
	for i, p := range stats.BestProducts {
		row := []any{i + 1, p.ArticleID, p.ArticleName, p.QuantitySold}
		if err := f.SetSheetRow(best, fmt.Sprintf("A%d", i+2), &row); err != nil {
			respondErr(c, h.Logger, fmt.Errorf("write row: %w", err))
			return
		}
	}
	_ = f.SetColWidth(best, "C", "C", 30)

	h.writeWorkbook(c, f, fmt.Sprintf("event_%d_stats.xlsx", id))
}

func (h *ExportHandler) writeWorkbook(c *gin.Context, f *excelize.File, name string) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		respondErr(c, h.Logger, fmt.Errorf("render workbook: %w", err))
		return
	}
	attachment(c, xlsxContentType, name)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
