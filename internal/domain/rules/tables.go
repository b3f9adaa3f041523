package rules

// SheetKind classifies a workbook sheet by its name.
type SheetKind string

// Sheet kinds. SheetRoster sheets list people rather than responses.
const (
	SheetRoster   SheetKind = "roster"
	SheetSelf     SheetKind = "autoevaluacion"
	SheetDownward SheetKind = "descendente"
	SheetUpward   SheetKind = "ascendente"
	SheetPeer     SheetKind = "pares"
)

// SheetKinds is consulted with the sheet name. Roster names come first so
// that they are never reported as unknown evaluation sheets.
var SheetKinds = Table[SheetKind]{
	{Category: SheetRoster, Include: []string{"usuarios", "empleados", "users", "employees", "lista", "list", "resumen", "summary"}},
	{Category: SheetSelf, Include: []string{"autoevaluac", "self"}},
	{Category: SheetDownward, Include: []string{"descendente", "downward", "manager"}},
	{Category: SheetUpward, Include: []string{"ascendente", "upward", "subordinate"}},
	{Category: SheetPeer, Include: []string{"pares", "peer", "360"}},
}

// HeaderIndicators mark a row as the header row of an evaluation sheet.
var HeaderIndicators = []string{
	"nombre", "name", "evaluado", "evaluated",
	"area", "department", "evaluador", "evaluator",
	"puntaje", "score", "estado", "status",
}

// Field is a target column of an evaluation sheet.
type Field string

// Evaluation sheet fields.
const (
	FieldEvaluatedName Field = "evaluatedName"
	FieldArea          Field = "evaluatedArea"
	FieldEvaluator     Field = "evaluatorName"
	FieldStatus        Field = "status"
	FieldTotalScore    Field = "totalScore"
)

// Columns holds the rules of every field. Each field is assigned
// independently to the first header that matches any of its rules.
var Columns = Table[Field]{
	{
		Category: FieldEvaluatedName,
		Include:  []string{"evaluado", "evaluated"},
		Exclude:  []string{"evaluador", "evaluator", "competencia"},
	},
	// Generic name terms, minus username columns.
	{
		Category: FieldEvaluatedName,
		Include:  []string{"nombre y apellido", "nombre completo", "full name", "colaborador", "employee", "nombre", "name"},
		Exclude:  []string{"evaluador", "evaluator", "usuario", "user", "competencia"},
	},
	{
		Category: FieldArea,
		Include:  []string{"area", "department", "departamento", "gerencia"},
		Exclude:  []string{"sub"},
	},
	{
		Category: FieldEvaluator,
		Include:  []string{"evaluador", "evaluator", "reviewer"},
	},
	{
		Category: FieldStatus,
		Include:  []string{"estado", "status"},
	},
	{
		Category: FieldTotalScore,
		Include:  []string{"puntaje", "score", "puntuacion", "calificacion", "total", "promedio", "average"},
	},
}

// Competencies lists competency keywords in precedence order with the
// label used when a header carries no "<n>. <name>:" prefix.
var Competencies = []Keyword{
	{Term: "compromiso", Label: "Compromiso"},
	{Term: "commitment", Label: "Commitment"},
	{Term: "comunicación", Label: "Comunicación"},
	{Term: "communication", Label: "Communication"},
	{Term: "orientación", Label: "Orientación al Cliente"},
	{Term: "orientation", Label: "Customer Orientation"},
	{Term: "colaboración", Label: "Colaboración"},
	{Term: "collaboration", Label: "Collaboration"},
	{Term: "iniciativa", Label: "Iniciativa y Autonomía"},
	{Term: "initiative", Label: "Initiative and Autonomy"},
	{Term: "autonomía", Label: "Iniciativa y Autonomía"},
	{Term: "autonomy", Label: "Initiative and Autonomy"},
	{Term: "resultados", Label: "Orientación a Resultados"},
	{Term: "results", Label: "Results Orientation"},
	{Term: "liderazgo", Label: "Liderazgo"},
	{Term: "leadership", Label: "Leadership"},
}

// IdentityColumns identify people in a segmentation sheet.
var IdentityColumns = []string{
	"usuario", "user", "id", "email", "correo", "mail",
	"nombre", "name", "apellido", "surname", "fullname", "nombre y apellido",
}

// SegmentationColumns identify organisational attributes in a
// segmentation sheet.
var SegmentationColumns = []string{
	"area", "department", "departamento",
	"subarea", "sub area", "sub-area",
	"ubicacion", "location", "sede",
	"region", "zona", "zone",
	"cargo", "position", "rol", "role",
	"nivel", "level", "categoria", "category",
}

// Role is the meaning of a segmentation sheet column.
type Role string

// Segmentation column roles.
const (
	RoleEmail    Role = "email"
	RoleUser     Role = "usuario"
	RoleFullName Role = "nombre y apellido"
	RoleNombre   Role = "nombre"
	RoleApellido Role = "apellido"
	RoleName     Role = "name"
	RoleFullname Role = "fullname"
	RoleArea     Role = "area"
	RoleSubArea  Role = "subarea"
	RoleLocation Role = "location"
)

// Roles maps exact folded header texts to column roles. Exact matching
// keeps "nombre y apellido" apart from "nombre" and "apellido".
var Roles = map[string]Role{
	"email":              RoleEmail,
	"e-mail":             RoleEmail,
	"mail":               RoleEmail,
	"correo":             RoleEmail,
	"correo electronico": RoleEmail,
	"usuario":            RoleUser,
	"user":               RoleUser,
	"username":           RoleUser,
	"id":                 RoleUser,
	"nombre y apellido":  RoleFullName,
	"nombre completo":    RoleFullName,
	"nombre":             RoleNombre,
	"apellido":           RoleApellido,
	"apellidos":          RoleApellido,
	"surname":            RoleApellido,
	"name":               RoleName,
	"fullname":           RoleFullname,
	"full name":          RoleFullname,
	"area":               RoleArea,
	"department":         RoleArea,
	"departamento":       RoleArea,
	"subarea":            RoleSubArea,
	"sub area":           RoleSubArea,
	"sub-area":           RoleSubArea,
	"ubicacion":          RoleLocation,
	"location":           RoleLocation,
	"sede":               RoleLocation,
}
