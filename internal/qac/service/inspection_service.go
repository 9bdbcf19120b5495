package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Expenditious/qac-system/internal/qac/entity"
	"github.com/Expenditious/qac-system/internal/qac/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxNumberRetries bounds how often a create is retried after losing the
// same-day numbering race.
const maxNumberRetries = 3

// FormSchema is a form's resolved definition: form info, the optional type
// variant and the ordered parameter list.
type FormSchema struct {
	Form       *entity.Form           `json:"form"`
	Type       *entity.InspectionType `json:"type,omitempty"`
	Parameters []entity.Parameter     `json:"parameters"`
}

// BottleEntry is one numbered bottle of a submission.
type BottleEntry struct {
	Number int `json:"number"`
	BottleInput
}

// SubmissionPayload is the raw submitted data for one inspection. Values is
// keyed by parameter field key ("param_<id>"), FieldRemarks by parameter id.
type SubmissionPayload struct {
	InspectionNo   string                 `json:"inspection_no"`
	InspectionDate string                 `json:"inspection_date"`
	InspectionTime string                 `json:"inspection_time"`
	Shift          string                 `json:"shift"`
	Department     string                 `json:"department"`
	Location       string                 `json:"location"`
	Inspector      string                 `json:"inspector"`
	Supervisor     string                 `json:"supervisor"`
	Status         string                 `json:"status"`
	OverallResult  string                 `json:"overall_result"`
	Remarks        string                 `json:"remarks"`
	Values         map[string]interface{} `json:"values"`
	FieldRemarks   map[string]string      `json:"field_remarks"`
	Bottles        []BottleEntry          `json:"bottles"`
}

// InspectionService assembles and persists inspection records: it loads the
// schema, validates the payload, computes standards results and hands the
// finished graph to the repository as one unit.
type InspectionService struct {
	formRepo  *repository.FormRepository
	inspRepo  *repository.InspectionRepository
	validator *Validator
	numbering *NumberingService
	activity  *ActivityService
}

func NewInspectionService(formRepo *repository.FormRepository, inspRepo *repository.InspectionRepository, numbering *NumberingService, activity *ActivityService) *InspectionService {
	return &InspectionService{
		formRepo:  formRepo,
		inspRepo:  inspRepo,
		validator: NewValidator(),
		numbering: numbering,
		activity:  activity,
	}
}

// LoadSchema resolves a form code and optional type code into the full
// schema. Pure read, no side effects.
func (s *InspectionService) LoadSchema(ctx context.Context, formCode, typeCode string) (*FormSchema, error) {
	form, err := s.formRepo.GetActiveForm(ctx, formCode)
	if err != nil {
		return nil, fmt.Errorf("form %q: %w", formCode, err)
	}

	schema := &FormSchema{Form: form}
	var typeID *string
	if typeCode != "" {
		typ, err := s.formRepo.GetActiveType(ctx, form.ID, typeCode)
		if err != nil {
			return nil, fmt.Errorf("type %q of form %q: %w", typeCode, formCode, err)
		}
		schema.Type = typ
		typeID = &typ.ID
	}

	params, err := s.formRepo.ListParameters(ctx, form.ID, typeID)
	if err != nil {
		return nil, fmt.Errorf("load parameters of form %q: %w", formCode, err)
	}
	schema.Parameters = params
	return schema, nil
}

// ListForms returns the active forms.
func (s *InspectionService) ListForms(ctx context.Context) ([]entity.Form, error) {
	return s.formRepo.ListActiveForms(ctx)
}

// ListTypes returns a form's active inspection types.
func (s *InspectionService) ListTypes(ctx context.Context, formCode string) ([]entity.InspectionType, error) {
	form, err := s.formRepo.GetActiveForm(ctx, formCode)
	if err != nil {
		return nil, fmt.Errorf("form %q: %w", formCode, err)
	}
	return s.formRepo.ListActiveTypes(ctx, form.ID)
}

// ValidateSubmission runs the validator over a payload without persisting
// anything.
func (s *InspectionService) ValidateSubmission(params []entity.Parameter, values map[string]interface{}) []FieldError {
	return s.validator.Validate(params, values)
}

// Create validates and persists a new inspection. On validation failure it
// returns a *ValidationError and performs no writes. A caller-supplied
// inspection number is reused as-is; otherwise one is generated, and a
// duplicate-number collision is retried with a fresh number.
func (s *InspectionService) Create(ctx context.Context, actor Actor, formCode, typeCode string, payload *SubmissionPayload) (*entity.InspectionMaster, error) {
	schema, err := s.LoadSchema(ctx, formCode, typeCode)
	if err != nil {
		return nil, err
	}

	if errs := s.validator.Validate(schema.Parameters, payload.Values); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	master := s.buildMaster(actor, schema, payload)
	details := s.buildDetails(schema.Parameters, payload)
	bottles := buildBottles(payload.Bottles)

	for attempt := 0; ; attempt++ {
		if master.InspectionNo == "" {
			no, err := s.numbering.Next(ctx, schema.Form.NoPrefix, schema.Form.SeqWidth)
			if err != nil {
				return nil, err
			}
			master.InspectionNo = no
		}
		err = s.inspRepo.CreateGraph(ctx, master, details, bottles)
		if err == nil {
			break
		}
		// Lost the same-day numbering race: regenerate and try again.
		if errors.Is(err, gorm.ErrDuplicatedKey) && payload.InspectionNo == "" && attempt < maxNumberRetries {
			master.InspectionNo = ""
			continue
		}
		return nil, fmt.Errorf("save inspection: %w", err)
	}

	s.activity.Log(ctx, actor, "create_inspection",
		fmt.Sprintf("Created inspection %s", master.InspectionNo),
		entity.InspectionMaster{}.TableName(), master.ID)

	return s.inspRepo.FindByID(ctx, master.ID)
}

// Update validates the payload, snapshots the prior record, then replaces
// the master fields and both child sets in one transaction together with
// the edit history entry.
func (s *InspectionService) Update(ctx context.Context, actor Actor, id string, payload *SubmissionPayload, editReason string) (*entity.InspectionMaster, error) {
	prior, err := s.inspRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inspection %s: %w", id, err)
	}

	form, err := s.formRepo.GetFormByID(ctx, prior.FormID)
	if err != nil {
		return nil, fmt.Errorf("form of inspection %s: %w", id, err)
	}
	params, err := s.formRepo.ListParameters(ctx, form.ID, prior.TypeID)
	if err != nil {
		return nil, fmt.Errorf("load parameters of form %q: %w", form.FormCode, err)
	}

	if errs := s.validator.Validate(params, payload.Values); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	oldValues, err := toJSONB(prior)
	if err != nil {
		return nil, fmt.Errorf("snapshot inspection %s: %w", id, err)
	}
	newValues, err := toJSONB(payload)
	if err != nil {
		return nil, fmt.Errorf("snapshot payload: %w", err)
	}

	master := &entity.InspectionMaster{
		ID:             prior.ID,
		InspectionNo:   prior.InspectionNo,
		FormID:         prior.FormID,
		TypeID:         prior.TypeID,
		InspectionDate: fallback(payload.InspectionDate, prior.InspectionDate),
		InspectionTime: fallback(payload.InspectionTime, prior.InspectionTime),
		Shift:          fallback(payload.Shift, prior.Shift),
		Department:     fallback(payload.Department, prior.Department),
		Location:       fallback(payload.Location, prior.Location),
		Inspector:      prior.Inspector,
		Supervisor:     fallback(payload.Supervisor, prior.Supervisor),
		Status:         fallback(payload.Status, prior.Status),
		OverallResult:  fallback(payload.OverallResult, prior.OverallResult),
		Remarks:        fallback(payload.Remarks, prior.Remarks),
		CreatedBy:      prior.CreatedBy,
		UpdatedBy:      actor.Username,
		CreatedAt:      prior.CreatedAt,
	}
	details := s.buildDetails(params, payload)
	bottles := buildBottles(payload.Bottles)
	history := &entity.EditHistory{
		ID:           newID(),
		InspectionID: prior.ID,
		EditBy:       actor.Username,
		EditReason:   editReason,
		OldValues:    oldValues,
		NewValues:    newValues,
	}

	if err := s.inspRepo.ReplaceGraph(ctx, master, details, bottles, history); err != nil {
		return nil, fmt.Errorf("update inspection %s: %w", id, err)
	}

	s.activity.Log(ctx, actor, "update_inspection",
		fmt.Sprintf("Updated inspection %s", prior.InspectionNo),
		entity.InspectionMaster{}.TableName(), prior.ID)

	return s.inspRepo.FindByID(ctx, id)
}

// Get returns one inspection with its ordered children.
func (s *InspectionService) Get(ctx context.Context, id string) (*entity.InspectionMaster, error) {
	return s.inspRepo.FindByID(ctx, id)
}

// List returns the filtered inspection history.
func (s *InspectionService) List(ctx context.Context, params repository.InspectionListParams) ([]entity.InspectionMaster, int64, error) {
	return s.inspRepo.List(ctx, params)
}

// History returns an inspection's edit audit trail.
func (s *InspectionService) History(ctx context.Context, id string) ([]entity.EditHistory, error) {
	if _, err := s.inspRepo.FindByID(ctx, id); err != nil {
		return nil, fmt.Errorf("inspection %s: %w", id, err)
	}
	return s.inspRepo.ListEditHistory(ctx, id)
}

func (s *InspectionService) buildMaster(actor Actor, schema *FormSchema, p *SubmissionPayload) *entity.InspectionMaster {
	now := time.Now()
	m := &entity.InspectionMaster{
		ID:             newID(),
		InspectionNo:   p.InspectionNo,
		FormID:         schema.Form.ID,
		InspectionDate: fallback(p.InspectionDate, now.Format("2006-01-02")),
		InspectionTime: fallback(p.InspectionTime, now.Format("15:04:05")),
		Shift:          p.Shift,
		Department:     p.Department,
		Location:       p.Location,
		Inspector:      fallback(p.Inspector, actor.Username),
		Supervisor:     p.Supervisor,
		Status:         fallback(p.Status, entity.StatusCompleted),
		OverallResult:  fallback(p.OverallResult, entity.ResultPass),
		Remarks:        p.Remarks,
		CreatedBy:      actor.Username,
	}
	if schema.Type != nil {
		typeID := schema.Type.ID
		m.TypeID = &typeID
	}
	return m
}

// buildDetails makes one detail row per parameter with a non-empty value,
// routing the value into the slot matching the parameter type and snapping
// the parameter name/type into the row.
func (s *InspectionService) buildDetails(params []entity.Parameter, p *SubmissionPayload) []entity.InspectionDetail {
	details := make([]entity.InspectionDetail, 0, len(params))
	for i := range params {
		param := &params[i]
		raw := p.Values[param.FieldKey()]
		if isEmptyValue(raw) {
			continue
		}

		d := entity.InspectionDetail{
			ID:            newID(),
			ParameterID:   param.ID,
			ParameterName: param.ParameterName,
			ParameterType: param.ParameterType,
			SortOrder:     param.SortOrder,
			IsStandard:    true,
			Remarks:       p.FieldRemarks[param.ID],
		}

		str := valueString(raw)
		switch param.ParameterType {
		case entity.ParamTypeNumeric:
			// Already validated; parse cannot fail here.
			n, _ := strconv.ParseFloat(str, 64)
			d.ValueNumeric = &n
			d.IsStandard = meetsStandard(param.SpecMin, param.SpecMax, n)
		case entity.ParamTypeBoolean:
			b := coerceBoolean(raw)
			d.ValueBoolean = &b
		case entity.ParamTypeDate:
			d.ValueDate = &str
		case entity.ParamTypeTime:
			d.ValueTime = &str
		case entity.ParamTypeDatetime:
			d.ValueDatetime = &str
		default:
			d.ValueText = &str
		}

		details = append(details, d)
	}
	return details
}

func buildBottles(entries []BottleEntry) []entity.BottleInspection {
	bottles := make([]entity.BottleInspection, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.isEmpty() {
			continue
		}
		number := e.Number
		if number == 0 {
			number = i + 1
		}
		bottles = append(bottles, entity.BottleInspection{
			ID:                     newID(),
			BottleNumber:           number,
			BottleWeight:           e.Weight,
			VolumeAtFillLevel:      e.Volume,
			ShoulderMeasurement:    e.Shoulder,
			BodyMeasurement:        e.Body,
			BottomMeasurement:      e.Bottom,
			InnerMouthMeasurement:  e.InnerMouth,
			ThreadMeasurement:      e.Thread,
			MouthToRingMeasurement: e.MouthToRing,
			NeckToRingMeasurement:  e.NeckToRing,
			RingGapMeasurement:     e.RingGap,
			NeckWidthMeasurement:   e.NeckWidth,
			TiltMeasurement:        e.Tilt,
			Remarks:                e.Remarks,
			ResultStatus:           bottleResult(&e.BottleInput),
		})
	}
	return bottles
}

func newID() string {
	return uuid.New().String()[:32]
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func toJSONB(v interface{}) (entity.JSONB, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m entity.JSONB
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
