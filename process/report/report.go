// Package report implements the admin monthly summary used by
// process/cmd_report: per-user entry counts and hour totals over the reports
// created in one month.
package report

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"arbeitsrapport/models"
	"arbeitsrapport/pkg/rapport"
)

func mustDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	return gdb
}

// RunReport prints a month-bounded summary for username (month in YYYY-MM)
// and optionally lists each stored report with its own totals. Malformed
// content blobs are counted but never abort the run.
func RunReport(username, month string, list bool) {
	gdb := mustDBFromEnv()

	var user models.User
	if err := gdb.Where("username = ?", username).First(&user).Error; err != nil {
		log.Fatalf("user not found: %v", err)
	}

	t, err := time.Parse("2006-01", month)
	if err != nil {
		log.Fatalf("invalid month format, expected YYYY-MM: %v", err)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var rows []models.Report
	if err := gdb.Where("user_id = ? AND created_at >= ? AND created_at < ?", user.ID, start, end).
		Order("id").Find(&rows).Error; err != nil {
		log.Fatalf("fetch reports failed: %v", err)
	}

	var all []rapport.Entry
	malformed := 0
	for _, r := range rows {
		content, err := rapport.DecodeContent([]byte(r.Content))
		if err != nil {
			malformed++
			continue
		}
		if content.IsCSVExport {
			continue // export snapshots duplicate their source report
		}
		all = append(all, content.Entries...)
		if list {
			totals := rapport.Aggregate(content.Entries)
			fmt.Printf("%d|%s|%s|entries=%d|hours=%.2f|required=%.2f|%s\n",
				r.ID, r.Name, r.Period, len(content.Entries),
				totals.Hours, totals.RequiredHours, r.CreatedAt.Format(time.RFC3339))
		}
	}

	totals := rapport.Aggregate(all)
	fmt.Printf("Report for user=%s month=%s (UTC):\n", user.Username, month)
	fmt.Printf("  reports=%d entries=%d malformed=%d\n", len(rows), len(all), malformed)
	fmt.Printf("  hours=%.2f absences=%.2f overtime=%.2f expenses=%.2f required=%.2f\n",
		totals.Hours, totals.Absences, totals.Overtime, totals.Expenses, totals.RequiredHours)
}
