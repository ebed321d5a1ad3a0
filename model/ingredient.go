package model

// Ingredient is static reference data loaded once via the import command.
// The (name, measurement_unit) pair is unique so the same product can still
// exist under different units ("milk l" vs "milk ml").
type Ingredient struct {
	Id              string `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:128;uniqueIndex:uniq_ingredient_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:64;uniqueIndex:uniq_ingredient_name_unit"`
}
