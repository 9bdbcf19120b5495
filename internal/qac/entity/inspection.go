package entity

import "time"

// Inspection record statuses.
const (
	StatusDraft     = "draft"
	StatusCompleted = "completed"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Overall inspection results.
const (
	ResultPass        = "pass"
	ResultFail        = "fail"
	ResultConditional = "conditional"
)

// Per-bottle result statuses.
const (
	BottlePass = "pass"
	BottleFail = "fail"
)

// InspectionMaster is one submitted inspection record. It exclusively owns
// its Details and Bottles: on edit both child sets are deleted and recreated
// as a unit, never partially patched.
type InspectionMaster struct {
	ID             string    `json:"id" gorm:"primaryKey;size:32"`
	InspectionNo   string    `json:"inspection_no" gorm:"size:64;not null;uniqueIndex"`
	FormID         string    `json:"form_id" gorm:"size:32;not null;index"`
	TypeID         *string   `json:"type_id" gorm:"size:32;index"`
	InspectionDate string    `json:"inspection_date" gorm:"size:10;not null"`
	InspectionTime string    `json:"inspection_time" gorm:"size:8;not null"`
	Shift          string    `json:"shift" gorm:"size:32"`
	Department     string    `json:"department" gorm:"size:64"`
	Location       string    `json:"location" gorm:"size:64"`
	Inspector      string    `json:"inspector" gorm:"size:64;not null"`
	Supervisor     string    `json:"supervisor" gorm:"size:64"`
	Status         string    `json:"status" gorm:"size:16;not null;default:completed"`
	OverallResult  string    `json:"overall_result" gorm:"size:16;not null;default:pass"`
	Remarks        string    `json:"remarks" gorm:"type:text"`
	CreatedBy      string    `json:"created_by" gorm:"size:64;not null"`
	UpdatedBy      string    `json:"updated_by" gorm:"size:64"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Form    *Form              `json:"form,omitempty" gorm:"foreignKey:FormID"`
	Type    *InspectionType    `json:"type,omitempty" gorm:"foreignKey:TypeID"`
	Details []InspectionDetail `json:"details,omitempty" gorm:"foreignKey:InspectionID"`
	Bottles []BottleInspection `json:"bottles,omitempty" gorm:"foreignKey:InspectionID"`
}

func (InspectionMaster) TableName() string {
	return "qac_inspection_master"
}

// InspectionDetail is one answered field of one inspection. ParameterName,
// ParameterType and SortOrder are snapshots taken at write time so later
// schema edits cannot rewrite historical records. Exactly one Value slot is
// populated, selected by ParameterType.
type InspectionDetail struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	InspectionID  string    `json:"inspection_id" gorm:"size:32;not null;index"`
	ParameterID   string    `json:"parameter_id" gorm:"size:32;not null;index"`
	ParameterName string    `json:"parameter_name" gorm:"size:128;not null"`
	ParameterType string    `json:"parameter_type" gorm:"size:16;not null"`
	SortOrder     int       `json:"sort_order" gorm:"not null;default:0"`
	ValueText     *string   `json:"value_text" gorm:"type:text"`
	ValueNumeric  *float64  `json:"value_numeric"`
	ValueBoolean  *bool     `json:"value_boolean"`
	ValueDate     *string   `json:"value_date" gorm:"size:10"`
	ValueTime     *string   `json:"value_time" gorm:"size:5"`
	ValueDatetime *string   `json:"value_datetime" gorm:"size:32"`
	// No column default: gorm drops zero-valued fields that carry one,
	// which would make a computed false unpersistable.
	IsStandard bool `json:"is_standard" gorm:"not null"`
	Remarks       string    `json:"remarks" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

func (InspectionDetail) TableName() string {
	return "qac_inspection_details"
}

// BottleInspection is one measured bottle of an FM-QA-23 inspection.
// Entries whose every measurement is blank are discarded before persisting.
type BottleInspection struct {
	ID                     string    `json:"id" gorm:"primaryKey;size:32"`
	InspectionID           string    `json:"inspection_id" gorm:"size:32;not null;index"`
	BottleNumber           int       `json:"bottle_number" gorm:"not null"`
	BottleWeight           *float64  `json:"bottle_weight"`
	VolumeAtFillLevel      *float64  `json:"volume_at_fill_level"`
	ShoulderMeasurement    *float64  `json:"shoulder_measurement"`
	BodyMeasurement        *float64  `json:"body_measurement"`
	BottomMeasurement      *float64  `json:"bottom_measurement"`
	InnerMouthMeasurement  *float64  `json:"inner_mouth_measurement"`
	ThreadMeasurement      *float64  `json:"thread_measurement"`
	MouthToRingMeasurement *float64  `json:"mouth_to_ring_measurement"`
	NeckToRingMeasurement  *float64  `json:"neck_to_ring_measurement"`
	RingGapMeasurement     *float64  `json:"ring_gap_measurement"`
	NeckWidthMeasurement   *float64  `json:"neck_width_measurement"`
	TiltMeasurement        *float64  `json:"tilt_measurement"`
	Remarks                string    `json:"remarks" gorm:"type:text"`
	ResultStatus           string    `json:"result_status" gorm:"size:8;not null;default:pass"`
	CreatedAt              time.Time `json:"created_at"`
}

func (BottleInspection) TableName() string {
	return "qac_bottle_inspections"
}

// EditHistory is one append-only audit entry written on every update.
// OldValues holds the full prior record as retrieved before mutation and
// NewValues the full submitted payload, stored opaque rather than diffed so
// any point-in-time change can be reconstructed without the historical
// schema.
type EditHistory struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	InspectionID string    `json:"inspection_id" gorm:"size:32;not null;index"`
	EditBy       string    `json:"edit_by" gorm:"size:64;not null"`
	EditReason   string    `json:"edit_reason" gorm:"type:text"`
	OldValues    JSONB     `json:"old_values" gorm:"type:jsonb"`
	NewValues    JSONB     `json:"new_values" gorm:"type:jsonb"`
	CreatedAt    time.Time `json:"created_at"`
}

func (EditHistory) TableName() string {
	return "qac_edit_history"
}
