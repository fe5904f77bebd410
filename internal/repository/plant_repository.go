package repository

import (
	"time"

	"plantcare-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type IPlantRepository interface {
	GetPlantsByBusiness(businessID string) ([]models.Plant, error)
	GetPlantsNeedingCare(businessID string, now time.Time) ([]models.Plant, error)
}

type PlantRepository struct {
	db *sqlx.DB
}

func NewPlantRepository(db *sqlx.DB) IPlantRepository {
	return &PlantRepository{
		db: db,
	}
}

// plantRow maps a plants table row. The geometry column may be NULL for
// plants registered without coordinates.
type plantRow struct {
	ID                string          `db:"id"`
	Name              string          `db:"name"`
	Geom              models.GeoPoint `db:"geom"`
	Section           string          `db:"section"`
	Aisle             string          `db:"aisle"`
	WaterIntervalDays int             `db:"water_interval_days"`
	LastWateredAt     time.Time       `db:"last_watered_at"`
}

func (row plantRow) toPlant() models.Plant {
	return models.Plant{
		ID:   row.ID,
		Name: row.Name,
		Location: models.PlantLocation{
			Latitude:  row.Geom.Latitude,
			Longitude: row.Geom.Longitude,
			Section:   row.Section,
			Aisle:     row.Aisle,
		},
		WaterIntervalDays: row.WaterIntervalDays,
		LastWateredAt:     row.LastWateredAt,
	}
}

func (r *PlantRepository) GetPlantsByBusiness(businessID string) ([]models.Plant, error) {
	var rows []plantRow
	query := `
	SELECT id, name, geom, section, aisle, water_interval_days, last_watered_at
	FROM plants
	WHERE business_id = $1
	ORDER BY created_at`
	if err := r.db.Select(&rows, query, businessID); err != nil {
		return nil, err
	}

	plants := make([]models.Plant, 0, len(rows))
	for _, row := range rows {
		plants = append(plants, row.toPlant())
	}
	return plants, nil
}

// GetPlantsNeedingCare returns plants past their watering interval.
func (r *PlantRepository) GetPlantsNeedingCare(businessID string, now time.Time) ([]models.Plant, error) {
	plants, err := r.GetPlantsByBusiness(businessID)
	if err != nil {
		return nil, err
	}

	needing := make([]models.Plant, 0, len(plants))
	for _, plant := range plants {
		if plant.OverdueDays(now) > 0 {
			needing = append(needing, plant)
		}
	}
	return needing, nil
}
