package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldID          = "id"
	FieldDate        = "date"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldType        = "type"
	FieldFrequency   = "frequency"
	FieldUsername    = "username"
	FieldProcessed   = "processed"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentStorage  = "storage"
	ComponentCategory = "category"
	ComponentTx       = "transaction"
	ComponentGoal     = "goal"
	ComponentSchedule = "schedule"
	ComponentAuth     = "auth"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpList      = "list"
	OpRebalance = "rebalance"
	OpProcess   = "process"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
