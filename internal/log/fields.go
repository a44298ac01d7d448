package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldStage      = "stage"
	FieldTopic      = "topic"
	FieldBillID     = "bill_id"
	FieldCategoryID = "category_id"
	FieldCount      = "count"
	FieldDuration   = "duration_ms"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
)

// Standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentTracker = "tracker"
	ComponentFeed    = "feed"
	ComponentLegis   = "legis"
	ComponentStore   = "store"
	ComponentAMQP    = "amqp"
	ComponentEvents  = "events"
)

// Fetch stage names, matching the coordinator's gates.
const (
	StageBaseData     = "base-data"
	StageBillData     = "basic-bill-data"
	StageCategoryFill = "category-detail"
	StageBillDetail   = "bill-detail"
)
