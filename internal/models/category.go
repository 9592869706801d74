package models

// CategoryNames is the closed set of poll categories. Seeded once at
// startup; rollup columns are recomputed after each full sync pass.
var CategoryNames = []string{
	"Crypto", "Finance", "Sports", "Politics",
	"Culture", "Tech", "Entertainment", "Other",
}

const DefaultCategory = "Other"

// ValidCategory reports whether name is one of the fixed categories.
func ValidCategory(name string) bool {
	for _, c := range CategoryNames {
		if c == name {
			return true
		}
	}
	return false
}

type Category struct {
	Name        string `gorm:"primaryKey" json:"name"`
	PollCount   int64  `gorm:"not null;default:0" json:"poll_count"`
	TotalVolume int64  `gorm:"not null;default:0" json:"total_volume"`
}

func (Category) TableName() string {
	return "categories"
}
