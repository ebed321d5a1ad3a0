package model

// Tag is static reference data used to categorize recipes. Both the display
// name and the url-safe slug are globally unique. Tags are immutable after
// import, the API only ever reads them.
type Tag struct {
	Id   string `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:32;uniqueIndex"`
	Slug string `json:"slug" gorm:"size:32;uniqueIndex"`
}
