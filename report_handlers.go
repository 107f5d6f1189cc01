package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"arbeitsrapport/models"
	"arbeitsrapport/pkg/rapport"
)

type reportRequest struct {
	Name    string          `json:"name"`
	Period  string          `json:"period"`
	Date    string          `json:"date"`
	Entries []rapport.Entry `json:"entries"`
}

// findUserReport loads the report addressed by the :id param if it belongs to
// the authenticated user.
func findUserReport(c *gin.Context, user *models.User) (*models.Report, bool) {
	var report models.Report
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&report).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return nil, false
	}
	return &report, true
}

// createReportHandler persists a new report. The content blob is written
// whole; there is no partial sync.
func createReportHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		req.Name = "Unbenannter Bericht"
	}
	if req.Period == "" {
		req.Period = "Kein Zeitraum"
	}
	if req.Date == "" {
		req.Date = time.Now().UTC().Format("2006-01-02")
	}
	content := rapport.Content{Name: req.Name, Period: req.Period, Entries: req.Entries}
	report := models.Report{
		UserID:  user.ID,
		Name:    req.Name,
		Period:  req.Period,
		Date:    req.Date,
		Content: string(rapport.EncodeContent(content)),
	}
	if err := db.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": report.ID})
}

// listReportsHandler returns the user's reports, newest first. Content blobs
// are not decoded here; listing must not fail on a single bad blob.
func listReportsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var reports []models.Report
	if err := db.Where("user_id = ?", user.ID).Order("created_at desc").Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// getReportHandler returns one report with its decoded content. For a single
// report the decode failure is user-visible, unlike the tolerant bulk paths.
func getReportHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	report, ok := findUserReport(c, user)
	if !ok {
		return
	}
	content, err := rapport.DecodeContent([]byte(report.Content))
	if err != nil {
		log.Error().Err(err).Uint("report_id", report.ID).Msg("stored report content is malformed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not load this report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         report.ID,
		"name":       report.Name,
		"period":     report.Period,
		"date":       report.Date,
		"created_at": report.CreatedAt,
		"updated_at": report.UpdatedAt,
		"content":    content,
	})
}

// updateReportHandler rewrites the whole content blob atomically.
func updateReportHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	report, ok := findUserReport(c, user)
	if !ok {
		return
	}
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != "" {
		report.Name = req.Name
	}
	if req.Period != "" {
		report.Period = req.Period
	}
	content := rapport.Content{Name: report.Name, Period: report.Period, Entries: req.Entries}
	report.Content = string(rapport.EncodeContent(content))
	if err := db.Save(report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "report updated"})
}

func deleteReportHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	report, ok := findUserReport(c, user)
	if !ok {
		return
	}
	if err := db.Delete(report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "report deleted"})
}

// appendEntryHandler appends one entry to a report. An entirely-empty draft
// is rejected; an entry with only notes set is accepted.
func appendEntryHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	report, ok := findUserReport(c, user)
	if !ok {
		return
	}
	var entry rapport.Entry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if entry.IsZero() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "entry is empty"})
		return
	}
	content, err := rapport.DecodeContent([]byte(report.Content))
	if err != nil {
		// keep the report usable: treat it as empty rather than refusing the append
		log.Warn().Err(err).Uint("report_id", report.ID).Msg("replacing malformed report content")
		content = rapport.Content{Name: report.Name, Period: report.Period}
	}
	content.Entries = append(content.Entries, entry)
	report.Content = string(rapport.EncodeContent(content))
	if err := db.Save(report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "entry added", "entries": len(content.Entries)})
}

// exportCSVHandler streams the report as a CSV download. Like the original
// client, a fresh export also writes a snapshot record carrying the rendered
// document, which later exports of that snapshot return verbatim.
func exportCSVHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	report, ok := findUserReport(c, user)
	if !ok {
		return
	}
	content, err := rapport.DecodeContent([]byte(report.Content))
	if err != nil {
		log.Error().Err(err).Uint("report_id", report.ID).Msg("stored report content is malformed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not load this report"})
		return
	}

	csvText := rapport.CSVFromContent(content)
	filename := rapport.Filename(report.Name, report.Period)

	if !content.IsCSVExport {
		totals := rapport.Aggregate(content.Entries)
		snapshot := rapport.Content{
			Name:               content.Name,
			Period:             content.Period,
			Entries:            content.Entries,
			CSVContent:         csvText,
			TotalHours:         totals.Hours,
			TotalAbsences:      totals.Absences,
			TotalOvertime:      totals.Overtime,
			TotalExpenses:      totals.Expenses,
			TotalRequiredHours: totals.RequiredHours,
			IsCSVExport:        true,
		}
		record := models.Report{
			UserID:  user.ID,
			Name:    report.Name + " (CSV-Export)",
			Period:  report.Period,
			Date:    time.Now().UTC().Format("2006-01-02"),
			Content: string(rapport.EncodeContent(snapshot)),
		}
		if err := db.Create(&record).Error; err != nil {
			log.Warn().Err(err).Uint("report_id", report.ID).Msg("failed to store csv export snapshot")
		}
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csvText))
}

// emailReportHandler mails the CSV to a recipient using the user's SMTP
// settings (env values as fallback). Transport failures surface the
// underlying message; there is no retry, the client may offer the file
// download instead.
func emailReportHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	report, ok := findUserReport(c, user)
	if !ok {
		return
	}
	var req struct {
		To string `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	content, err := rapport.DecodeContent([]byte(report.Content))
	if err != nil {
		log.Error().Err(err).Uint("report_id", report.ID).Msg("stored report content is malformed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not load this report"})
		return
	}

	settings, err := smtpSettingsFor(user)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	subject := "Arbeitsrapport: " + report.Name + " - " + report.Period
	body := buildReportEmail(report.Name, report.Period, content.Entries)
	csvText := rapport.CSVFromContent(content)
	filename := rapport.Filename(report.Name, report.Period)

	if err := sendMail(settings, req.To, subject, body, csvText, filename); err != nil {
		log.Error().Err(err).Uint("report_id", report.ID).Msg("email send failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "email send failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "report sent to " + req.To})
}

// chartHoursHandler returns chart-ready hour series over all of the user's
// reports. Without an object query parameter it groups per object; with one
// it returns that object's per-day series. "no data" is a distinct outcome
// from a matched series summing to zero.
func chartHoursHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	periodText := c.Query("period")
	if periodText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period query parameter required"})
		return
	}
	period, parsed := rapport.ParsePeriod(periodText, time.Now().UTC())
	if !parsed {
		log.Warn().Str("period", periodText).Msg("unparseable period, falling back to current month")
	}

	var reports []models.Report
	if err := db.Where("user_id = ?", user.ID).Order("created_at desc").Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	contents := make([]rapport.Content, 0, len(reports))
	for _, r := range reports {
		content, err := rapport.DecodeContent([]byte(r.Content))
		if err != nil {
			log.Warn().Err(err).Uint("report_id", r.ID).Msg("skipping malformed report content")
			continue
		}
		contents = append(contents, content)
	}

	var series rapport.Series
	var err error
	if object := c.Query("object"); object != "" {
		series, err = rapport.GroupByDay(contents, period, object)
	} else {
		series, err = rapport.GroupByObject(contents, period)
	}
	if errors.Is(err, rapport.ErrNoData) {
		c.JSON(http.StatusNotFound, gin.H{"no_data": true, "error": "no entries in the selected period"})
		return
	}
	c.JSON(http.StatusOK, series)
}
