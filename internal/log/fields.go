package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldBackend   = "backend"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldIncomes   = "incomes"
	FieldExpenses  = "expenses"
	FieldArtifact  = "artifact"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentExport  = "export"
	ComponentReport  = "report"
	ComponentCodec   = "codec"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpExport   = "export"
	OpImport   = "import"
	OpRender   = "render"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
