package parser

// Mode selects the grammar entry point.
type Mode int

const (
	// ModeDefault parses a list of statements separated by semicolons.
	ModeDefault Mode = iota
	// ModeTypeName parses a single type name.
	ModeTypeName
	// ModePLpgSQLExpr parses a PL/pgSQL expression: a SELECT without the
	// SELECT keyword.
	ModePLpgSQLExpr
	// ModePLpgSQLAssign1 parses a PL/pgSQL assignment to a plain variable.
	ModePLpgSQLAssign1
	// ModePLpgSQLAssign2 parses an assignment whose target starts with a
	// two-part name.
	ModePLpgSQLAssign2
	// ModePLpgSQLAssign3 parses an assignment whose target starts with a
	// three-part name.
	ModePLpgSQLAssign3
)

var modeNames = [...]string{
	ModeDefault:        "default",
	ModeTypeName:       "type_name",
	ModePLpgSQLExpr:    "plpgsql_expr",
	ModePLpgSQLAssign1: "plpgsql_assign1",
	ModePLpgSQLAssign2: "plpgsql_assign2",
	ModePLpgSQLAssign3: "plpgsql_assign3",
}

// Modes lists every entry point in declaration order.
func Modes() []Mode {
	return []Mode{ModeDefault, ModeTypeName, ModePLpgSQLExpr, ModePLpgSQLAssign1, ModePLpgSQLAssign2, ModePLpgSQLAssign3}
}

// String returns the name the mode is selected by.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "default"
	}
	return modeNames[m]
}

// ParseMode returns the mode named s. The second result is false when s
// names no mode.
func ParseMode(s string) (Mode, bool) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), true
		}
	}
	return ModeDefault, false
}

// assignNames is the number of target names an assignment mode consumes,
// or 0 for the other modes.
func (m Mode) assignNames() int {
	switch m {
	case ModePLpgSQLAssign1:
		return 1
	case ModePLpgSQLAssign2:
		return 2
	case ModePLpgSQLAssign3:
		return 3
	}
	return 0
}
