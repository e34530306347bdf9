package model

import "time"

// ItemMaster is the catalog record for a menu item, independent of any
// particular day.  Daily availability is tracked separately in
// item_daily; the master row outlives any day's entry.
//
// Fields:
//  ID       – primary key identifier.
//  Name     – item name shown on the menu.
//  Price    – unit price in currency units.
//  Category – coarse grouping (e.g. BREAKFAST, LUNCH, SNACKS, BEVERAGES).
//  Image    – image reference for the frontend.
type ItemMaster struct {
	ID       uint64 // item_master.id
	Name     string // item_master.item_name
	Price    int64  // item_master.item_price
	Category string // item_master.item_category
	Image    string // item_master.item_image
}

// ItemDaily is one day's stock record for a catalog item.  Unique per
// (item, date).  sold_qty only ever grows through order placement; the
// reserve statement guarantees 0 <= sold_qty <= init_qty.
//
// Fields:
//  DailyID    – surrogate primary key.
//  ItemID     – reference to item_master.
//  Date       – menu date (date only, UTC).
//  InitialQty – stock put on the menu for the day.
//  SoldQty    – units already sold today.
type ItemDaily struct {
	DailyID    uint64    // item_daily.daily_id
	ItemID     uint64    // item_daily.item_id
	Date       time.Time // item_daily.item_date
	InitialQty int       // item_daily.init_qty
	SoldQty    int       // item_daily.sold_qty
}

// AvailableQty returns how many units can still be ordered today.
func (d ItemDaily) AvailableQty() int {
	return d.InitialQty - d.SoldQty
}
