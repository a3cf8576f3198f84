package models

import "time"

// SheetRow is one cell-for-cell record of the activity sheet. Every
// field is stored as TEXT so the table stays faithful to the
// spreadsheet it mirrors; typing happens in the row store adapter.
// Seq is the stable row identifier mutations address rows by.
type SheetRow struct {
	Seq         int64     `gorm:"column:seq;primaryKey;autoIncrement"`
	BakeryName  string    `gorm:"column:bakery_name;not null;index:sheet_rows_bakery_name_idx"`
	Flavor      string    `gorm:"column:flavor"`
	PhotoURL    string    `gorm:"column:photo_url"`
	Address     string    `gorm:"column:address"`
	Lat         string    `gorm:"column:lat"`
	Lon         string    `gorm:"column:lon"`
	Date        string    `gorm:"column:date"`
	LastUpdated string    `gorm:"column:last_updated"`
	Category    string    `gorm:"column:category"`
	UserName    string    `gorm:"column:user_name"`
	Rating      string    `gorm:"column:rating"`
	Price       string    `gorm:"column:price"`
	Stock       string    `gorm:"column:stock"`
	BakeryKey   string    `gorm:"column:bakery_key"`
	Comment     string    `gorm:"column:comment"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the sheet table name.
func (SheetRow) TableName() string {
	return "sheet_rows"
}
