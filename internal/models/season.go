package models

// Season is a calendar season resolved from month and hemisphere.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// IsValidSeason checks if a season value is valid
func IsValidSeason(s Season) bool {
	switch s {
	case SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter:
		return true
	default:
		return false
	}
}

// SeasonalTaskCategory groups recurring care tasks.
type SeasonalTaskCategory string

const (
	TaskCategoryWatering    SeasonalTaskCategory = "watering"
	TaskCategoryFertilizing SeasonalTaskCategory = "fertilizing"
	TaskCategoryRepotting   SeasonalTaskCategory = "repotting"
	TaskCategoryPruning     SeasonalTaskCategory = "pruning"
	TaskCategoryHumidity    SeasonalTaskCategory = "humidity"
	TaskCategoryLight       SeasonalTaskCategory = "light"
)

// SeasonalTask is a recurring care reminder template tied to a season.
type SeasonalTask struct {
	ID                string               `json:"id"`
	Season            Season               `json:"season"`
	Category          SeasonalTaskCategory `json:"category"`
	Title             string               `json:"title"`
	Body              string               `json:"body"`
	TriggerOffsetDays int                  `json:"trigger_offset_days"`
	Urgency           Urgency              `json:"urgency"`
}

// SeasonalTaskKey uniquely identifies one scheduled occurrence of a task.
// Scheduling the same key twice must be a no-op.
type SeasonalTaskKey struct {
	BusinessID string `db:"business_id" json:"business_id"`
	TaskID     string `db:"task_id" json:"task_id"`
	Season     Season `db:"season" json:"season"`
	Year       int    `db:"year" json:"year"`
}
