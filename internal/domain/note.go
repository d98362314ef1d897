package domain

type Note struct {
	OwnedModel
	Title   string `json:"title" gorm:"not null"`
	Content string `json:"content" gorm:"not null"`
}
