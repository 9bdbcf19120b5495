package entity

import "time"

// Parameter data types.
const (
	ParamTypeText     = "text"
	ParamTypeNumeric  = "numeric"
	ParamTypeBoolean  = "boolean"
	ParamTypeSelect   = "select"
	ParamTypeTextarea = "textarea"
	ParamTypeDate     = "date"
	ParamTypeTime     = "time"
	ParamTypeDatetime = "datetime"
)

// Form is one distinct inspection form (e.g. FM-QA-23).
type Form struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	FormCode    string    `json:"form_code" gorm:"size:32;not null;uniqueIndex"`
	FormName    string    `json:"form_name" gorm:"size:128;not null"`
	Description string    `json:"description" gorm:"type:text"`
	NoPrefix    string    `json:"no_prefix" gorm:"size:16;not null;default:QAC"`
	SeqWidth    int       `json:"seq_width" gorm:"not null;default:3"`
	SortOrder   int       `json:"sort_order" gorm:"not null;default:0"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Form) TableName() string {
	return "qac_forms"
}

// InspectionType is a sub-variant of a form, e.g. a frequency-based check.
type InspectionType struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	FormID    string    `json:"form_id" gorm:"size:32;not null;uniqueIndex:idx_form_type_code"`
	TypeCode  string    `json:"type_code" gorm:"size:32;not null;uniqueIndex:idx_form_type_code"`
	TypeName  string    `json:"type_name" gorm:"size:128;not null"`
	Frequency string    `json:"frequency" gorm:"size:32"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	IsActive  bool      `json:"is_active" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (InspectionType) TableName() string {
	return "qac_inspection_types"
}

// Parameter is one field in a form's schema. MinValue/MaxValue are hard
// validation bounds that reject a submission; SpecMin/SpecMax are the
// pass/fail specification range, so a value can be accepted and still
// be recorded as out of standard.
type Parameter struct {
	ID              string     `json:"id" gorm:"primaryKey;size:32"`
	FormID          string     `json:"form_id" gorm:"size:32;not null;index"`
	TypeID          *string    `json:"type_id" gorm:"size:32;index"`
	ParameterName   string     `json:"parameter_name" gorm:"size:128;not null"`
	ParameterType   string     `json:"parameter_type" gorm:"size:16;not null;default:text"`
	Unit            string     `json:"unit" gorm:"size:32"`
	IsRequired      bool       `json:"is_required" gorm:"not null;default:false"`
	MinValue        *float64   `json:"min_value"`
	MaxValue        *float64   `json:"max_value"`
	SpecMin         *float64   `json:"spec_min"`
	SpecMax         *float64   `json:"spec_max"`
	Options         StringList `json:"options" gorm:"type:jsonb"`
	ValidationRules *RuleSet   `json:"validation_rules" gorm:"type:jsonb"`
	DefaultValue    string     `json:"default_value" gorm:"size:256"`
	SortOrder       int        `json:"sort_order" gorm:"not null;default:0"`
	IsActive        bool       `json:"is_active" gorm:"not null"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (Parameter) TableName() string {
	return "qac_parameters"
}

// FieldKey is the submitted-value key for this parameter.
func (p *Parameter) FieldKey() string {
	return "param_" + p.ID
}
