package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CorrectionCacheEntry persisted correction result
type CorrectionCacheEntry struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RawFingerprint   string             `bson:"raw_fingerprint" json:"raw_fingerprint"` // sha256 of the normalized input
	CorrectedAddress string             `bson:"corrected_address" json:"corrected_address"`
	Result           CorrectionResult   `bson:"result" json:"result"`
	Confidence       float64            `bson:"confidence" json:"confidence"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	LastAccessed     time.Time          `bson:"last_accessed" json:"last_accessed"`
	AccessCount      int64              `bson:"access_count" json:"access_count"`
}
