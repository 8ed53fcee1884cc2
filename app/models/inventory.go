package models

// InventoryItem maps the game server's inventoryitems table. Positions below
// zero are equipped slots.
type InventoryItem struct {
	InventoryItemID uint   `gorm:"primaryKey;column:inventoryitemid" json:"inventoryitemid"`
	CharacterID     uint   `gorm:"column:characterid" json:"characterid"`
	ItemID          int    `gorm:"column:itemid" json:"itemid"`
	InventoryType   int    `gorm:"column:inventorytype" json:"inventorytype"`
	Position        int    `gorm:"column:position" json:"position"`
	Quantity        int    `gorm:"column:quantity" json:"quantity"`
	Owner           string `gorm:"column:owner" json:"owner"`
	PetID           int64  `gorm:"column:petid" json:"petid"`
	Flag            int    `gorm:"column:flag" json:"flag"`
	Expiration      int64  `gorm:"column:expiration" json:"expiration"`
	GiftFrom        string `gorm:"column:giftFrom" json:"giftFrom"`
}

func (InventoryItem) TableName() string {
	return "inventoryitems"
}

// InventoryEquipment maps the game server's inventoryequipment table carrying
// the stat block for equip-type inventory items.
type InventoryEquipment struct {
	InventoryEquipmentID uint `gorm:"primaryKey;column:inventoryequipmentid" json:"inventoryequipmentid"`
	InventoryItemID      uint `gorm:"column:inventoryitemid" json:"inventoryitemid"`
	UpgradeSlots         int  `gorm:"column:upgradeslots" json:"upgradeslots"`
	Level                int  `gorm:"column:level" json:"level"`
	Str                  int  `gorm:"column:str" json:"str"`
	Dex                  int  `gorm:"column:dex" json:"dex"`
	Int                  int  `gorm:"column:int" json:"int"`
	Luk                  int  `gorm:"column:luk" json:"luk"`
	HP                   int  `gorm:"column:hp" json:"hp"`
	MP                   int  `gorm:"column:mp" json:"mp"`
	WAtk                 int  `gorm:"column:watk" json:"watk"`
	MAtk                 int  `gorm:"column:matk" json:"matk"`
	WDef                 int  `gorm:"column:wdef" json:"wdef"`
	MDef                 int  `gorm:"column:mdef" json:"mdef"`
	Acc                  int  `gorm:"column:acc" json:"acc"`
	Avoid                int  `gorm:"column:avoid" json:"avoid"`
	Hands                int  `gorm:"column:hands" json:"hands"`
	Speed                int  `gorm:"column:speed" json:"speed"`
	Jump                 int  `gorm:"column:jump" json:"jump"`
	Locked               int  `gorm:"column:locked" json:"locked"`
	Vicious              int  `gorm:"column:vicious" json:"vicious"`
	ItemLevel            int  `gorm:"column:itemlevel" json:"itemlevel"`
	ItemExp              int  `gorm:"column:itemexp" json:"itemexp"`
	RingID               int  `gorm:"column:ringid" json:"ringid"`
}

func (InventoryEquipment) TableName() string {
	return "inventoryequipment"
}
