package models

// Character maps the game server's characters table (read/write for the admin
// dashboard, never migrated here).
type Character struct {
	ID        uint   `gorm:"primaryKey;column:id" json:"id"`
	AccountID uint   `gorm:"column:accountid" json:"accountid"`
	Name      string `gorm:"column:name" json:"name"`
	Level     int    `gorm:"column:level" json:"level"`
	Job       int    `gorm:"column:job" json:"job"`
	Exp       int64  `gorm:"column:exp" json:"exp"`
	Meso      int64  `gorm:"column:meso" json:"meso"`
	Str       int    `gorm:"column:str" json:"str"`
	Dex       int    `gorm:"column:dex" json:"dex"`
	Int       int    `gorm:"column:int" json:"int"`
	Luk       int    `gorm:"column:luk" json:"luk"`
	MaxHP     int    `gorm:"column:maxhp" json:"maxhp"`
	MaxMP     int    `gorm:"column:maxmp" json:"maxmp"`
	Fame      int    `gorm:"column:fame" json:"fame"`
	Hair      int    `gorm:"column:hair" json:"hair"`
	Face      int    `gorm:"column:face" json:"face"`
	SkinColor int    `gorm:"column:skincolor" json:"skincolor"`
	Gender    int    `gorm:"column:gender" json:"gender"`
}

func (Character) TableName() string {
	return "characters"
}
