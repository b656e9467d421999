package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clinic-backend/internal/analytics"
	"clinic-backend/internal/database"
	"clinic-backend/internal/models"
)

const analyticsDateLayout = "2006-01-02"

type revenueRow struct {
	Day       string  `json:"day"`
	Billed    float64 `json:"billed"`
	Collected float64 `json:"collected"`
}

type doctorPerformanceRow struct {
	DoctorID   uint    `json:"doctor_id"`
	DoctorName string  `json:"doctor_name"`
	Specialty  string  `json:"specialty"`
	VisitCount int64   `json:"visit_count"`
	Revenue    float64 `json:"revenue"`
}

// Analytics dispatches on the report type path segment. Unknown report
// types are a client error, not a missing resource.
func Analytics(c *gin.Context) {
	switch c.Param("report_type") {
	case "revenue":
		revenueReport(c)
	case "doctor-performance":
		doctorPerformanceReport(c)
	case "patient-stats":
		patientStatsReport(c)
	default:
		respondValidation(c, "Unknown report type")
	}
}

func analyticsRange(c *gin.Context) (time.Time, time.Time, bool) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse(analyticsDateLayout, raw)
		if err != nil {
			respondValidation(c, "Invalid start_date, expected YYYY-MM-DD")
			return start, end, false
		}
		start = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse(analyticsDateLayout, raw)
		if err != nil {
			respondValidation(c, "Invalid end_date, expected YYYY-MM-DD")
			return start, end, false
		}
		// Inclusive end date.
		end = parsed.AddDate(0, 0, 1)
	}
	return start, end, true
}

func revenueReport(c *gin.Context) {
	start, end, ok := analyticsRange(c)
	if !ok {
		return
	}

	var rows []revenueRow
	err := database.DB.Model(&models.Billing{}).
		Select("DATE(date) AS day, COALESCE(SUM(amount), 0) AS billed, COALESCE(SUM(paid_amount), 0) AS collected").
		Where("date >= ? AND date < ?", start, end).
		Group("DATE(date)").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		respondInternal(c, err, "Failed to build revenue report")
		return
	}

	totalBilled, totalCollected := 0.0, 0.0
	for i := range rows {
		rows[i].Billed = analytics.Round(rows[i].Billed, 2)
		rows[i].Collected = analytics.Round(rows[i].Collected, 2)
		totalBilled += rows[i].Billed
		totalCollected += rows[i].Collected
	}

	c.JSON(http.StatusOK, gin.H{
		"start_date":      start.Format(analyticsDateLayout),
		"end_date":        end.AddDate(0, 0, -1).Format(analyticsDateLayout),
		"days":            rows,
		"total_billed":    analytics.Round(totalBilled, 2),
		"total_collected": analytics.Round(totalCollected, 2),
		"outstanding":     analytics.Round(totalBilled-totalCollected, 2),
	})
}

func doctorPerformanceReport(c *gin.Context) {
	var doctors []models.Doctor
	if err := database.DB.Order("name").Find(&doctors).Error; err != nil {
		respondInternal(c, err, "Failed to list doctors")
		return
	}

	rows := make([]doctorPerformanceRow, 0, len(doctors))
	for i := range doctors {
		doctor := &doctors[i]
		var visitCount int64
		if err := database.DB.Model(&models.Visit{}).
			Where("doctor_id = ?", doctor.ID).
			Count(&visitCount).Error; err != nil {
			respondInternal(c, err, "Failed to count visits")
			return
		}
		var revenue float64
		if err := database.DB.Model(&models.Treatment{}).
			Where("doctor_id = ?", doctor.ID).
			Select("COALESCE(SUM(cost), 0)").
			Scan(&revenue).Error; err != nil {
			respondInternal(c, err, "Failed to sum treatment revenue")
			return
		}
		rows = append(rows, doctorPerformanceRow{
			DoctorID:   doctor.ID,
			DoctorName: doctor.Name,
			Specialty:  doctor.Specialty,
			VisitCount: visitCount,
			Revenue:    analytics.Round(revenue, 2),
		})
	}
	c.JSON(http.StatusOK, gin.H{"doctors": rows})
}

var ageBuckets = []struct {
	Label string
	Min   int
	Max   int
}{
	{"0-17", 0, 17},
	{"18-35", 18, 35},
	{"36-55", 36, 55},
	{"56-75", 56, 75},
	{"76+", 76, 1<<31 - 1},
}

func patientStatsReport(c *gin.Context) {
	var patients []models.Patient
	if err := database.DB.Find(&patients).Error; err != nil {
		respondInternal(c, err, "Failed to list patients")
		return
	}

	accountTypes := map[string]int{}
	buckets := map[string]int{}
	for i := range patients {
		accountTypes[patients[i].AccountType]++
		for _, bucket := range ageBuckets {
			if patients[i].Age >= bucket.Min && patients[i].Age <= bucket.Max {
				buckets[bucket.Label]++
				break
			}
		}
	}

	var balances []*float64
	if err := database.DB.Model(&models.Visit{}).
		Pluck("balance", &balances).Error; err != nil {
		respondInternal(c, err, "Failed to load visit balances")
		return
	}
	avgBalance, stdDev := analytics.BalanceStats(balances)

	c.JSON(http.StatusOK, gin.H{
		"total_patients":        len(patients),
		"account_types":         accountTypes,
		"age_distribution":      buckets,
		"average_visit_balance": avgBalance,
		"balance_std_dev":       stdDev,
	})
}
