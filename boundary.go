package keyset

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	tConjunct struct {
		Column   string
		Value    any
		Operator Operator
	}

	tDisjunct []tConjunct

	// tDNF represents the disjunctive normal form (DNF) of a logical expression.
	// Each disjunct is joined by OR, and each disjunct consists of a list of
	// conjuncts which are joined by AND. A conjunct is the value of
	// Operator(Column, Value).
	//
	// Thus:
	//
	//	DNF = X1 OR X2 ... OR Xn, where Xi = Ai1 AND Ai2 ... AND Aim.
	//	DNF = (A11 AND A12 AND A13) OR (A21 AND A22 AND A23), for n=2, m=3.
	//
	//  Where (A11 AND A12 AND A13), (A21 AND A22 AND A23) are disjuncts and
	//  A11, A12, A13, A21, A22, A23 are conjuncts.
	tDNF []tDisjunct
)

// Boundary selects the rows on one side of a cursor: strictly after its
// values when the cursor points to the next page, strictly before them
// otherwise. A nil *Boundary selects everything.
type Boundary struct {
	dnf tDNF
}

// boundary pairs the ordering columns with the cursor values positionally and
// expands them into a lexicographic comparison:
//
//	(C1 O1 V1) or (C1 = V1 and C2 O2 V2) or ... or (C1 = V1 and ... Cn On Vn)
//
// where Oi follows the column direction for a forward cursor and is flipped
// wholesale for a backward one. The last column contributes only the strict
// inequality, so rows equal to the boundary on every column are excluded.
func (c *Cursor) boundary(sort Orderings) (*Boundary, error) {
	if c == nil {
		return nil, nil
	}

	// A present cursor must carry exactly one value per ordering column. An
	// empty values list is a mismatch too, not "no boundary": serving it as
	// an unfiltered fetch would mislabel the first page.
	if len(c.values) != len(sort) {
		return nil, fmt.Errorf(
			"%w: cursor carries %d values, ordering has %d columns",
			ErrOrderingMismatch, len(c.values), len(sort),
		)
	}

	// Ordered (column, operator, value) triples. Positional pairing keeps the
	// boundary exact even if column names repeat in the ordering.
	conjuncts := make([]tConjunct, 0, len(sort))
	for i, orderBy := range sort {
		op := orderBy.Direction.ForOperator()
		if !c.pointsToNext {
			op = op.Inverted()
		}

		conjuncts = append(conjuncts, tConjunct{
			Column:   orderBy.Column,
			Value:    c.values[i],
			Operator: op,
		})
	}

	dnf := make(tDNF, 0, len(conjuncts))
	for i := range conjuncts {
		previousConjunctsWithEqualityCondition := lo.Map(conjuncts[:i], func(item tConjunct, _ int) tConjunct {
			return tConjunct{
				Column:   item.Column,
				Value:    item.Value,
				Operator: operatorEq,
			}
		})

		disjunct := make(tDisjunct, 0, len(previousConjunctsWithEqualityCondition)+1)
		disjunct = append(disjunct, previousConjunctsWithEqualityCondition...)
		disjunct = append(disjunct, conjuncts[i])

		dnf = append(dnf, disjunct)
	}

	return &Boundary{dnf: dnf}, nil
}

// Apply applies the boundary filter to a gorm query.
func (b *Boundary) Apply(db *gorm.DB) *gorm.DB {
	if b == nil {
		return db
	}

	exp := b.dnf.toGORMExpression()
	if exp == nil {
		return db
	}

	return db.Clauses(exp)
}

// ToSQL returns the boundary as a raw SQL condition with placeholder values.
//
// Usage:
//
//	sqlClause, args := boundary.ToSQL()
//	query := fmt.Sprintf("SELECT * FROM table WHERE %s", sqlClause)
func (b *Boundary) ToSQL() (string, []driver.Value) {
	if b == nil {
		return "TRUE", nil
	}

	return b.dnf.toSQLClause()
}

// Match evaluates the boundary against a row whose column values are served
// by valueOf. Comparison semantics mirror SQL: a comparison involving a NULL
// value never matches.
func (b *Boundary) Match(valueOf func(column string) any) bool {
	if b == nil {
		return true
	}

	for _, disjunct := range b.dnf {
		if disjunct.match(valueOf) {
			return true
		}
	}

	return false
}

func (d tDisjunct) match(valueOf func(column string) any) bool {
	for _, conjunct := range d {
		if !conjunct.match(valueOf(conjunct.Column)) {
			return false
		}
	}

	return len(d) > 0
}

func (c tConjunct) match(rowValue any) bool {
	cmp, ok := compareScalars(rowValue, c.Value)
	if !ok {
		return false
	}

	switch c.Operator {
	case OperatorGT:
		return cmp > 0
	case OperatorLT:
		return cmp < 0
	case operatorEq:
		return cmp == 0
	default:
		return false
	}
}

// toGORMExpression converts a conjunct of the form Operator(Column, Value)
// into an SQL condition "Column Operator Value" represented as a clause.Expression.
//
// IMPORTANT: The method uses the SQL placeholder "?".
//
// Example:
//
//	tConjunct = { Column: "id", Operator: ">", Value: "123"}
//
// Result:
//
//	"id > 123"
func (c tConjunct) toGORMExpression() clause.Expression {
	sqlClause, arg := c.toSQLClause()

	return clause.Expr{
		SQL:  sqlClause,
		Vars: []any{arg},
	}
}

// toSQLClause converts a conjunct of the form Operator(Column, Value) to
// an SQL condition of the form "Column Operator ?" with a corresponding value.
// Returns the SQL string and the value for the placeholder.
//
// Example:
//
//	tConjunct = { Column: "id", Operator: ">", Value: 123}
//
// Result:
//
//	("id > ?", 123)
func (c tConjunct) toSQLClause() (string, driver.Value) {
	return fmt.Sprintf("%s %s ?", c.Column, c.Operator), parseAnyValue(c.Value)
}

func parseAnyValue(v any) any {
	// Try parsing a value as time.Time. If it succeeds, return time.Time.
	// Otherwise return the original value.
	fnParseBytesToTimeOrValue := func(vBytes []byte) any {
		dst := time.Time{}
		err := dst.UnmarshalText(vBytes)
		if err == nil {
			return dst
		}

		return v
	}

	switch vt := v.(type) {
	case string:
		return fnParseBytesToTimeOrValue([]byte(vt))
	case []byte:
		return fnParseBytesToTimeOrValue(vt)
	default:
		return v
	}
}

// toGORMExpression converts a disjunct (K1, K2, K3) into a gorm expression
// "K1 AND K2 AND K3" where each Ki is expanded via tConjunct.toGORMExpression.
func (d tDisjunct) toGORMExpression() clause.Expression {
	andExpressions := make([]clause.Expression, 0, len(d))
	for _, conjunct := range d {
		andExpressions = append(andExpressions, conjunct.toGORMExpression())
	}

	if len(andExpressions) == 1 {
		return andExpressions[0]
	} else if len(andExpressions) > 1 {
		return clause.And(andExpressions...)
	}

	return nil
}

// toSQLClause converts a disjunct (K1, K2, K3) into an SQL condition
// "(K1 AND K2 AND K3)" with corresponding values. Returns the SQL string and
// the list of values for placeholders.
//
// Example:
//
//	tDisjunct = {
//		{Column: "id", Operator: ">", Value: 5},
//		{Column: "name", Operator: "<", Value: "abc"}
//	}
//
// Result:
//
//	("(id > ? AND name < ?)", [5, "abc"])
func (d tDisjunct) toSQLClause() (string, []driver.Value) {
	andClauses := make([]string, 0, len(d))
	andValues := make([]driver.Value, 0, len(d))

	for _, conjunct := range d {
		andClause, andValue := conjunct.toSQLClause()
		andClauses = append(andClauses, andClause)
		andValues = append(andValues, andValue)
	}

	if len(andClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(andClauses, " AND ")), andValues
	}

	return "", nil
}

// toGORMExpression converts a DNF (tDNF) into a clause.Expression.
// For each disjunct it calls tDisjunct.toGORMExpression and joins disjuncts with OR.
func (d tDNF) toGORMExpression() clause.Expression {
	orExpressions := make([]clause.Expression, 0, len(d))

	for _, disjunct := range d {
		andExpressions := disjunct.toGORMExpression()
		if andExpressions == nil {
			continue
		}

		orExpressions = append(orExpressions, andExpressions)
	}

	if len(orExpressions) == 1 {
		return orExpressions[0]
	} else if len(orExpressions) > 1 {
		return clause.Or(orExpressions...)
	}

	return nil
}

// toSQLClause converts a DNF (tDNF) into an SQL condition. For each disjunct it
// calls tDisjunct.toSQLClause and joins disjuncts with OR. Returns the SQL
// string and the list of values for placeholders.
//
// Example:
//
//	tDNF = {
//		{{Column: "id", Operator: "<", Value: 10}},
//		{{Column: "id", Operator: "=", Value: 10}, {Column: "name", Operator: "<", Value: "abc"}},
//	}
//
// Result:
//
//	("((id < ?) OR (id = ? AND name < ?))", [10, 10, "abc"])
func (d tDNF) toSQLClause() (string, []driver.Value) {
	orClauses := make([]string, 0, len(d))
	values := make([]driver.Value, 0, len(d))

	for _, disjunct := range d {
		orClause, orValues := disjunct.toSQLClause()
		if orClause == "" {
			continue
		}

		orClauses = append(orClauses, orClause)
		values = append(values, orValues...)
	}

	if len(orClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(orClauses, " OR ")), values
	}

	return "TRUE", nil
}
