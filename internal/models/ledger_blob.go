package models

// LedgerBlob is the persisted ledger document of one owner.
//
// The ledger is deliberately stored as a single blob per owner, not as one
// row per entity: the data set is small, write volume is low, and every
// mutation rewrites the whole document anyway. The blob never gets a
// per-record addressing scheme cheaper than reading the whole thing.
type LedgerBlob struct {
	OwnerKey string `gorm:"primaryKey"` // Partition key, one ledger per owner
	Data     []byte
	Timestamps
}
